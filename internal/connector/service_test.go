package connector

import (
	"context"
	"errors"
	"testing"

	appErrors "github.com/orchestrate-labs/campaign-chat-backend/internal/errors"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
)

func TestFetchNeverConnected(t *testing.T) {
	s := NewService(false)

	_, err := s.Fetch(context.Background(), "client-1", model.SourceWebsite)

	var notConnected *appErrors.ErrNotConnected
	if !errors.As(err, &notConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestConnectIdempotent(t *testing.T) {
	s := NewService(false)
	ctx := context.Background()

	first, err := s.Connect(ctx, "client-1", model.SourceWebsite, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Connect(ctx, "client-1", model.SourceWebsite, nil)
	if err != nil {
		t.Fatal(err)
	}

	if first.ConnectionID != second.ConnectionID {
		t.Fatalf("expected same binding, got %s and %s", first.ConnectionID, second.ConnectionID)
	}
}

func TestConnectUnknownSource(t *testing.T) {
	s := NewService(false)

	if _, err := s.Connect(context.Background(), "client-1", "tiktok_pixel", nil); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestFetchMockRecords(t *testing.T) {
	s := NewService(false)
	ctx := context.Background()

	if _, err := s.Connect(ctx, "client-1", model.SourceWebsite, nil); err != nil {
		t.Fatal(err)
	}

	records, err := s.Fetch(ctx, "client-1", model.SourceWebsite)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) == 0 {
		t.Fatal("expected records for website source")
	}
	if records[0]["kind"] != "analytics" {
		t.Errorf("expected analytics record first, got %v", records[0]["kind"])
	}
}

func TestDisconnectThenFetchFails(t *testing.T) {
	s := NewService(false)
	ctx := context.Background()

	if _, err := s.Connect(ctx, "client-1", model.SourceGoogleAds, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Disconnect("client-1", model.SourceGoogleAds); err != nil {
		t.Fatal(err)
	}

	_, err := s.Fetch(ctx, "client-1", model.SourceGoogleAds)
	var notConnected *appErrors.ErrNotConnected
	if !errors.As(err, &notConnected) {
		t.Fatalf("expected ErrNotConnected after disconnect, got %v", err)
	}
}

func TestBindingsScopedPerClient(t *testing.T) {
	s := NewService(false)
	ctx := context.Background()

	if _, err := s.Connect(ctx, "alice", model.SourceWebsite, nil); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Fetch(ctx, "bob", model.SourceWebsite); err == nil {
		t.Fatal("bob should not inherit alice's connection")
	}

	if got := s.ConnectedSources("bob"); len(got) != 0 {
		t.Fatalf("bob has connected sources: %v", got)
	}
}

func TestAggregate(t *testing.T) {
	s := NewService(false)
	ctx := context.Background()

	for _, id := range []string{model.SourceGoogleAds, model.SourceFacebookPixel, model.SourceWebsite} {
		if _, err := s.Connect(ctx, "client-1", id, nil); err != nil {
			t.Fatal(err)
		}
	}

	agg := s.Aggregate(ctx, "client-1", []string{model.SourceGoogleAds, model.SourceFacebookPixel, model.SourceWebsite})

	// 15420 + 8930 + 2340 from the google_ads audiences
	if agg.TotalAudienceSize != 26690 {
		t.Errorf("expected total audience 26690, got %d", agg.TotalAudienceSize)
	}
	if _, ok := agg.EngagementMetrics["google_ads"]; !ok {
		t.Error("expected google_ads engagement metrics")
	}
	if fb, ok := agg.ConversionData["facebook"]; !ok || fb["total_events"] == 0 {
		t.Errorf("expected facebook conversion data, got %v", agg.ConversionData)
	}
	if agg.TrafficInsights["sessions"] == nil {
		t.Error("expected website traffic insights")
	}
}

func TestAggregateSkipsDisconnectedSources(t *testing.T) {
	s := NewService(false)
	ctx := context.Background()

	if _, err := s.Connect(ctx, "client-1", model.SourceWebsite, nil); err != nil {
		t.Fatal(err)
	}

	agg := s.Aggregate(ctx, "client-1", []string{model.SourceGoogleAds, model.SourceWebsite})

	if agg.TotalAudienceSize != 0 {
		t.Errorf("disconnected google_ads should contribute nothing, got %d", agg.TotalAudienceSize)
	}
	if agg.TrafficInsights["sessions"] == nil {
		t.Error("connected website source should still contribute")
	}
}
