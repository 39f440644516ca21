// internal/connector/connector.go
package connector

import "context"

// Record is one normalized row from a data source. Every record carries a
// "kind" key (audience, campaign, event, analytics, traffic_source).
type Record map[string]any

// Provider is the uniform interface shared by the mock and real data-source
// backends. Callers never know which one is in effect.
type Provider interface {
	Connect(ctx context.Context, sourceID string, creds map[string]string) error
	Fetch(ctx context.Context, sourceID string) ([]Record, error)
}

// AggregatedData summarizes records pulled from a set of connected sources.
type AggregatedData struct {
	TotalAudienceSize int                           `json:"total_audience_size"`
	EngagementMetrics map[string]map[string]float64 `json:"engagement_metrics"`
	ConversionData    map[string]map[string]float64 `json:"conversion_data"`
	TrafficInsights   Record                        `json:"traffic_insights"`
	RealData          bool                          `json:"real_data"`
}

func recFloat(r Record, key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func recInt(r Record, key string) int {
	switch v := r[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
