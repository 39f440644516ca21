// internal/connector/mock.go
package connector

import (
	"context"
	"fmt"
)

// MockProvider serves canned audience and analytics data for the three
// supported sources. Used whenever real data sources are disabled or a real
// connection attempt fails.
type MockProvider struct{}

func NewMockProvider() *MockProvider { return &MockProvider{} }

var mockData = map[string][]Record{
	"google_ads": {
		{"kind": "audience", "name": "High Value Customers", "size": 15420, "engagement": 0.85},
		{"kind": "audience", "name": "Cart Abandoners", "size": 8930, "engagement": 0.42},
		{"kind": "audience", "name": "Recent Purchasers", "size": 2340, "engagement": 0.91},
		{"kind": "campaign", "name": "Brand Awareness", "impressions": 125000, "clicks": 3200, "ctr": 0.0256},
		{"kind": "campaign", "name": "Retargeting", "impressions": 45000, "clicks": 1800, "ctr": 0.04},
	},
	"facebook_pixel": {
		{"kind": "event", "event": "PageView", "count": 125000, "conversion_rate": 0.12},
		{"kind": "event", "event": "AddToCart", "count": 15600, "conversion_rate": 0.08},
		{"kind": "event", "event": "Purchase", "count": 1248, "conversion_rate": 0.15},
		{"kind": "audience", "name": "Lookalike 1%", "size": 45000, "similarity": 0.95},
		{"kind": "audience", "name": "Custom Audience", "size": 8900, "similarity": 0.88},
	},
	"website": {
		{"kind": "analytics", "sessions": 45600, "bounce_rate": 0.35, "avg_session_duration": 180, "conversion_rate": 0.08},
		{"kind": "traffic_source", "source": "Organic", "percentage": 45},
		{"kind": "traffic_source", "source": "Direct", "percentage": 25},
		{"kind": "traffic_source", "source": "Social", "percentage": 20},
		{"kind": "traffic_source", "source": "Paid", "percentage": 10},
	},
}

// Connect accepts any credentials for a known source id.
func (p *MockProvider) Connect(ctx context.Context, sourceID string, creds map[string]string) error {
	if _, ok := mockData[sourceID]; !ok {
		return fmt.Errorf("unknown data source %q", sourceID)
	}
	return nil
}

func (p *MockProvider) Fetch(ctx context.Context, sourceID string) ([]Record, error) {
	records, ok := mockData[sourceID]
	if !ok {
		return nil, fmt.Errorf("no data available for source %q", sourceID)
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out, nil
}

var _ Provider = (*MockProvider)(nil)
