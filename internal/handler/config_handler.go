// internal/handler/config_handler.go
package handler

import (
	"net/http"
	"os"
	"strings"

	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
)

// ConfigHandler reports capabilities so the frontend knows which features
// and real data sources are live.
type ConfigHandler struct{}

func envEnabled(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}

func (h *ConfigHandler) GetConfiguration(w http.ResponseWriter, r *http.Request) {
	useRealData := envEnabled("USE_REAL_DATA_SOURCES")

	realConfigured := map[string]bool{
		model.SourceGoogleAds: useRealData &&
			os.Getenv("GOOGLE_ADS_API_KEY") != "" &&
			os.Getenv("GOOGLE_ADS_CUSTOMER_ID") != "" &&
			os.Getenv("GOOGLE_ADS_DEVELOPER_TOKEN") != "",
		model.SourceFacebookPixel: useRealData &&
			os.Getenv("FACEBOOK_ACCESS_TOKEN") != "" &&
			os.Getenv("FACEBOOK_PIXEL_ID") != "",
		model.SourceWebsite: useRealData &&
			os.Getenv("GOOGLE_ANALYTICS_ACCESS_TOKEN") != "" &&
			os.Getenv("GOOGLE_ANALYTICS_PROPERTY_ID") != "",
	}

	sources := []map[string]any{}
	for _, info := range [][2]string{
		{model.SourceGoogleAds, "Google Ads"},
		{model.SourceFacebookPixel, "Facebook Pixel"},
		{model.SourceWebsite, "Website Analytics"},
	} {
		sources = append(sources, map[string]any{
			"id":        info[0],
			"name":      info[1],
			"available": true,
			"real_data": realConfigured[info[0]],
		})
	}

	channels := []map[string]any{
		{"id": model.ChannelEmail, "name": "Email", "available": true},
		{"id": model.ChannelSMS, "name": "SMS", "available": true},
		{"id": model.ChannelWhatsApp, "name": "WhatsApp", "available": true},
		{"id": model.ChannelPush, "name": "Push Notifications", "available": true},
	}

	environment := "production"
	if envEnabled("DEBUG") {
		environment = "development"
	}

	writeJSON(w, map[string]any{
		"success": true,
		"configuration": map[string]any{
			"data_sources": sources,
			"channels":     channels,
			"features": map[string]bool{
				"real_data_sources":      useRealData,
				"campaign_generation":    !strings.EqualFold(os.Getenv("CAMPAIGN_GENERATION_ENABLED"), "false"),
				"websocket_chat":         true,
				"data_source_management": true,
				"campaign_execution":     true,
			},
			"app_info": map[string]string{
				"name":        "Campaign Chat",
				"version":     "1.0.0",
				"environment": environment,
			},
		},
	})
}

func (h *ConfigHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy", "service": "campaign-chat"})
}

// Root greets API consumers hitting the bare host.
func (h *ConfigHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"message": "Campaign Chat API",
		"version": "1.0.0",
		"docs":    "/api/config/",
	})
}
