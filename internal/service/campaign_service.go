// internal/service/campaign_service.go
package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/orchestrate-labs/campaign-chat-backend/internal/connector"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/queue"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/repository"
)

// Aggregator is the slice of the connector façade the campaign service
// needs.
type Aggregator interface {
	Aggregate(ctx context.Context, clientID string, sourceIDs []string) connector.AggregatedData
}

// CampaignSynthesizer produces a validated campaign from a request plus
// aggregated audience data.
type CampaignSynthesizer interface {
	Synthesize(ctx context.Context, message string, aggregated connector.AggregatedData, dataSources, channels []string, clientID string) (*model.Campaign, error)
}

type CampaignService struct {
	Synthesizer   CampaignSynthesizer
	Connectors    Aggregator
	CampaignRepo  repository.CampaignRepositoryInterface
	ExecutionRepo repository.ExecutionRepositoryInterface
	Queue         queue.Queue
}

// ExecutionRequest carries per-channel overrides for a campaign execution.
type ExecutionRequest struct {
	ScheduleTime       *string `json:"schedule_time,omitempty"`
	EmailRecipients    *int    `json:"email_recipients,omitempty"`
	SMSRecipients      *int    `json:"sms_recipients,omitempty"`
	WhatsAppRecipients *int    `json:"whatsapp_recipients,omitempty"`
	PushRecipients     *int    `json:"push_recipients,omitempty"`
}

type ExecutionResult struct {
	ExecutionID string `json:"execution_id"`
	CampaignID  string `json:"campaign_id"`
	Status      string `json:"status"`
	JobsQueued  int    `json:"jobs_queued"`
}

// Default per-channel reach when the execution request doesn't override it.
var defaultRecipients = map[string]int{
	model.ChannelEmail:    1000,
	model.ChannelSMS:      500,
	model.ChannelWhatsApp: 200,
	model.ChannelPush:     1500,
}

// Generate aggregates the client's connected data, synthesizes a campaign
// and persists it. The returned campaign is immutable; a repeated request
// produces a new one.
func (s *CampaignService) Generate(ctx context.Context, clientID, message string, dataSources, channels []string) (*model.Campaign, error) {
	if len(channels) == 0 {
		channels = []string{model.ChannelEmail, model.ChannelSMS, model.ChannelWhatsApp, model.ChannelPush}
	}

	aggregated := s.Connectors.Aggregate(ctx, clientID, dataSources)

	campaign, err := s.Synthesizer.Synthesize(ctx, message, aggregated, dataSources, channels, clientID)
	if err != nil {
		return nil, err
	}

	if err := s.CampaignRepo.Create(campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// Execute fans a campaign out into one execution record per channel and
// queues each for the send worker.
func (s *CampaignService) Execute(campaignID string, req ExecutionRequest) (*ExecutionResult, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("campaign %s not found", campaignID)
	}

	result := &ExecutionResult{
		ExecutionID: uuid.NewString(),
		CampaignID:  campaignID,
		Status:      "queued",
	}

	for _, channel := range campaign.Channels {
		rec := &model.ExecutionRecord{
			ExecutionID: result.ExecutionID,
			CampaignID:  campaignID,
			Channel:     channel.Type,
			Recipients:  recipientsFor(channel.Type, req),
			Message:     RenderTemplate(channel.Content, channel.Personalization),
			Status:      "pending",
		}
		if err := s.ExecutionRepo.Create(rec); err != nil {
			log.Println("⚠️ failed to create execution record:", err)
			continue
		}

		if err := s.Queue.Publish(queue.TopicCampaignExecutions, rec.ID); err != nil {
			log.Println("⚠️ failed to enqueue execution record", rec.ID, ":", err)
			continue
		}
		result.JobsQueued++
	}

	if err := s.CampaignRepo.UpdateStatus(campaignID, "executing"); err != nil {
		return result, err
	}
	return result, nil
}

// History fetches a client's campaigns, newest first.
func (s *CampaignService) History(clientID string) ([]model.Campaign, error) {
	return s.CampaignRepo.ListByClient(clientID)
}

func recipientsFor(channelType string, req ExecutionRequest) int {
	switch channelType {
	case model.ChannelEmail:
		if req.EmailRecipients != nil {
			return *req.EmailRecipients
		}
	case model.ChannelSMS:
		if req.SMSRecipients != nil {
			return *req.SMSRecipients
		}
	case model.ChannelWhatsApp:
		if req.WhatsAppRecipients != nil {
			return *req.WhatsAppRecipients
		}
	case model.ChannelPush:
		if req.PushRecipients != nil {
			return *req.PushRecipients
		}
	}
	return defaultRecipients[channelType]
}
