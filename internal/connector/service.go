// internal/connector/service.go
package connector

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/orchestrate-labs/campaign-chat-backend/internal/errors"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
)

// Service is the connector façade. Bindings are scoped per client id; no
// client can observe or mutate another client's connections.
type Service struct {
	mu       sync.RWMutex
	bindings map[string]map[string]*model.DataSourceBinding // clientID -> sourceID

	real        Provider
	mock        Provider
	useRealData bool
}

func NewService(useRealData bool) *Service {
	return &Service{
		bindings:    make(map[string]map[string]*model.DataSourceBinding),
		real:        NewRealProvider(),
		mock:        NewMockProvider(),
		useRealData: useRealData,
	}
}

// Connect binds a source for a client. Idempotent: connecting an already
// connected source returns the existing binding. When real data sources are
// enabled the real connector is tried first and falls back to mock on
// failure, matching the platform's demo behavior.
func (s *Service) Connect(ctx context.Context, clientID, sourceID string, creds map[string]string) (*model.DataSourceBinding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.bindings[clientID][sourceID]; ok && b.Connected {
		return b, nil
	}

	realData := false
	if s.useRealData {
		if err := s.real.Connect(ctx, sourceID, creds); err != nil {
			log.Printf("⚠️ real connection to %s failed, falling back to mock: %v", sourceID, err)
		} else {
			realData = true
		}
	}
	if !realData {
		if err := s.mock.Connect(ctx, sourceID, creds); err != nil {
			return nil, err
		}
	}

	b := &model.DataSourceBinding{
		SourceID:     sourceID,
		ConnectionID: sourceID + "_" + uuid.NewString(),
		Connected:    true,
		RealData:     realData,
		ConnectedAt:  time.Now(),
	}
	if s.bindings[clientID] == nil {
		s.bindings[clientID] = make(map[string]*model.DataSourceBinding)
	}
	s.bindings[clientID][sourceID] = b
	return b, nil
}

func (s *Service) Disconnect(clientID, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.bindings[clientID][sourceID]; ok && b.Connected {
		delete(s.bindings[clientID], sourceID)
		return nil
	}
	return appErrors.NewNotConnected(sourceID)
}

// Fetch returns normalized records for one of the client's connected
// sources. A source never connected (or already disconnected) fails with
// NotConnected.
func (s *Service) Fetch(ctx context.Context, clientID, sourceID string) ([]Record, error) {
	s.mu.RLock()
	b, ok := s.bindings[clientID][sourceID]
	s.mu.RUnlock()

	if !ok || !b.Connected {
		return nil, appErrors.NewNotConnected(sourceID)
	}

	if b.RealData {
		records, err := s.real.Fetch(ctx, sourceID)
		if err == nil {
			return records, nil
		}
		log.Printf("⚠️ real fetch from %s failed, falling back to mock: %v", sourceID, err)
	}
	return s.mock.Fetch(ctx, sourceID)
}

func (s *Service) ConnectedSources(clientID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := []string{}
	for id, b := range s.bindings[clientID] {
		if b.Connected {
			sources = append(sources, id)
		}
	}
	return sources
}

func (s *Service) Connections(clientID string) []model.DataSourceBinding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.DataSourceBinding{}
	for _, b := range s.bindings[clientID] {
		out = append(out, *b)
	}
	return out
}

// Aggregate rolls the records of several sources into one summary used as
// generation context: total audience size, engagement, conversions, traffic.
func (s *Service) Aggregate(ctx context.Context, clientID string, sourceIDs []string) AggregatedData {
	agg := AggregatedData{
		EngagementMetrics: map[string]map[string]float64{},
		ConversionData:    map[string]map[string]float64{},
		TrafficInsights:   Record{},
	}

	for _, sourceID := range sourceIDs {
		records, err := s.Fetch(ctx, clientID, sourceID)
		if err != nil {
			log.Printf("⚠️ error getting data from %s: %v", sourceID, err)
			continue
		}

		switch sourceID {
		case model.SourceGoogleAds:
			var ctrSum float64
			var campaigns int
			for _, r := range records {
				switch r["kind"] {
				case "audience":
					agg.TotalAudienceSize += recInt(r, "size")
				case "campaign":
					ctrSum += recFloat(r, "ctr")
					campaigns++
				}
			}
			if campaigns > 0 {
				agg.EngagementMetrics["google_ads"] = map[string]float64{"avg_ctr": ctrSum / float64(campaigns)}
			}

		case model.SourceFacebookPixel:
			var total float64
			var rateSum float64
			var events int
			for _, r := range records {
				if r["kind"] == "event" {
					total += recFloat(r, "count")
					rateSum += recFloat(r, "conversion_rate")
					events++
				}
			}
			if events > 0 {
				agg.ConversionData["facebook"] = map[string]float64{
					"total_events":        total,
					"avg_conversion_rate": rateSum / float64(events),
				}
			}

		case model.SourceWebsite:
			for _, r := range records {
				if r["kind"] == "analytics" {
					for k, v := range r {
						if k != "kind" {
							agg.TrafficInsights[k] = v
						}
					}
				}
			}
		}
	}

	return agg
}

// AvailableSources lists the source catalog shown to clients.
func AvailableSources() []model.DataSourceInfo {
	return []model.DataSourceInfo{
		{ID: model.SourceGoogleAds, Name: "Google Ads Tag", Description: "Connect to Google Ads for audience insights and campaign data", Status: "available"},
		{ID: model.SourceFacebookPixel, Name: "Facebook Pixel", Description: "Connect to Facebook Pixel for behavioral data and retargeting", Status: "available"},
		{ID: model.SourceWebsite, Name: "Website Analytics", Description: "Connect to website for general analytics and user behavior", Status: "available"},
	}
}
