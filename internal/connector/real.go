// internal/connector/real.go
package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	appErrors "github.com/orchestrate-labs/campaign-chat-backend/internal/errors"
)

const (
	googleAdsBaseURL = "https://googleads.googleapis.com/v14"
	facebookBaseURL  = "https://graph.facebook.com/v18.0"
	analyticsBaseURL = "https://analyticsdata.googleapis.com/v1beta"
)

// RealProvider talks to the production ad-platform APIs. Credentials are
// captured at Connect time per source; Fetch before Connect fails.
type RealProvider struct {
	httpClient *http.Client
	creds      map[string]map[string]string
}

func NewRealProvider() *RealProvider {
	return &RealProvider{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		creds:      make(map[string]map[string]string),
	}
}

func (p *RealProvider) Connect(ctx context.Context, sourceID string, creds map[string]string) error {
	var err error
	switch sourceID {
	case "google_ads":
		err = p.probeGoogleAds(ctx, creds)
	case "facebook_pixel":
		err = p.probeFacebookPixel(ctx, creds)
	case "website":
		err = p.probeAnalytics(ctx, creds)
	default:
		return fmt.Errorf("unknown data source %q", sourceID)
	}
	if err != nil {
		return err
	}
	p.creds[sourceID] = creds
	return nil
}

func (p *RealProvider) Fetch(ctx context.Context, sourceID string) ([]Record, error) {
	creds, ok := p.creds[sourceID]
	if !ok {
		return nil, appErrors.NewNotConnected(sourceID)
	}
	switch sourceID {
	case "google_ads":
		return p.fetchGoogleAds(ctx, creds)
	case "facebook_pixel":
		return p.fetchFacebookPixel(ctx, creds)
	case "website":
		return p.fetchAnalytics(ctx, creds)
	}
	return nil, fmt.Errorf("unknown data source %q", sourceID)
}

// ---- Google Ads ----

func (p *RealProvider) probeGoogleAds(ctx context.Context, creds map[string]string) error {
	if creds["api_key"] == "" || creds["customer_id"] == "" || creds["developer_token"] == "" {
		return fmt.Errorf("google_ads requires api_key, customer_id and developer_token")
	}
	_, err := p.googleAdsSearch(ctx, creds, "SELECT customer.id FROM customer LIMIT 1")
	return err
}

func (p *RealProvider) fetchGoogleAds(ctx context.Context, creds map[string]string) ([]Record, error) {
	query := `
        SELECT audience.audience_id, audience.name, audience.size, audience.engagement_rate
        FROM audience WHERE audience.status = 'ENABLED'
    `
	results, err := p.googleAdsSearch(ctx, creds, query)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(results))
	for _, row := range results {
		aud, _ := row["audience"].(map[string]any)
		if aud == nil {
			continue
		}
		records = append(records, Record{
			"kind":       "audience",
			"name":       aud["name"],
			"size":       aud["size"],
			"engagement": aud["engagementRate"],
		})
	}
	return records, nil
}

func (p *RealProvider) googleAdsSearch(ctx context.Context, creds map[string]string, query string) ([]map[string]any, error) {
	url := fmt.Sprintf("%s/customers/%s/googleAds:search", googleAdsBaseURL, creds["customer_id"])
	body, _ := json.Marshal(map[string]string{"query": query})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+creds["api_key"])
	req.Header.Set("developer-token", creds["developer_token"])
	req.Header.Set("Content-Type", "application/json")

	var payload struct {
		Results []map[string]any `json:"results"`
	}
	if err := p.doJSON(req, "google_ads", &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// ---- Facebook Pixel ----

func (p *RealProvider) probeFacebookPixel(ctx context.Context, creds map[string]string) error {
	if creds["access_token"] == "" || creds["pixel_id"] == "" {
		return fmt.Errorf("facebook_pixel requires access_token and pixel_id")
	}
	url := fmt.Sprintf("%s/%s?access_token=%s", facebookBaseURL, creds["pixel_id"], creds["access_token"])
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return p.doJSON(req, "facebook_pixel", &struct{}{})
}

func (p *RealProvider) fetchFacebookPixel(ctx context.Context, creds map[string]string) ([]Record, error) {
	url := fmt.Sprintf("%s/%s/stats?aggregation=event&access_token=%s",
		facebookBaseURL, creds["pixel_id"], creds["access_token"])
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []struct {
			Event string `json:"value"`
			Count int    `json:"count"`
		} `json:"data"`
	}
	if err := p.doJSON(req, "facebook_pixel", &payload); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(payload.Data))
	for _, d := range payload.Data {
		records = append(records, Record{"kind": "event", "event": d.Event, "count": d.Count})
	}
	return records, nil
}

// ---- Website analytics (GA Data API) ----

func (p *RealProvider) probeAnalytics(ctx context.Context, creds map[string]string) error {
	if creds["access_token"] == "" || creds["property_id"] == "" {
		return fmt.Errorf("website requires access_token and property_id")
	}
	return nil
}

func (p *RealProvider) fetchAnalytics(ctx context.Context, creds map[string]string) ([]Record, error) {
	url := fmt.Sprintf("%s/properties/%s:runReport", analyticsBaseURL, creds["property_id"])
	body, _ := json.Marshal(map[string]any{
		"dateRanges": []map[string]string{{"startDate": "30daysAgo", "endDate": "today"}},
		"metrics": []map[string]string{
			{"name": "sessions"}, {"name": "bounceRate"},
			{"name": "averageSessionDuration"}, {"name": "conversions"},
		},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+creds["access_token"])
	req.Header.Set("Content-Type", "application/json")

	var payload struct {
		Rows []struct {
			MetricValues []struct {
				Value string `json:"value"`
			} `json:"metricValues"`
		} `json:"rows"`
	}
	if err := p.doJSON(req, "website", &payload); err != nil {
		return nil, err
	}

	rec := Record{"kind": "analytics"}
	if len(payload.Rows) > 0 {
		names := []string{"sessions", "bounce_rate", "avg_session_duration", "conversion_rate"}
		for i, mv := range payload.Rows[0].MetricValues {
			if i < len(names) {
				rec[names[i]] = mv.Value
			}
		}
	}
	return []Record{rec}, nil
}

func (p *RealProvider) doJSON(req *http.Request, service string, out any) error {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return appErrors.NewExternalService(service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return appErrors.NewExternalService(service, fmt.Errorf("status %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.NewExternalService(service, err)
	}
	return nil
}

var _ Provider = (*RealProvider)(nil)
