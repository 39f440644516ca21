// internal/service/template_service.go
package service

import (
	"strings"
)

// RenderTemplate substitutes {placeholder} tokens in channel content with
// personalization values.
func RenderTemplate(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		if v == "" {
			v = "<unknown>"
		}
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}
