// internal/service/orchestrator.go
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/orchestrate-labs/campaign-chat-backend/internal/ai"
	appErrors "github.com/orchestrate-labs/campaign-chat-backend/internal/errors"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/repository"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/ws"
)

const systemPrompt = `You are an AI marketing campaign assistant. You help users create targeted marketing campaigns by:
1. Analyzing their data sources (Google Ads, Facebook Pixel, Website analytics)
2. Understanding their target audience and goals
3. Recommending the right channels (Email, SMS, WhatsApp, Push notifications)
4. Generating executable campaign JSON payloads

Always respond in a helpful, conversational manner. When users ask about campaigns, provide specific recommendations based on their data sources and suggest the most effective channels for their goals.`

// Per-message states. Every inbound message ends in StateDelivered, even on
// failure.
const (
	StatePlainReply        = "plain_reply"
	StateCampaignRequested = "campaign_requested"
)

// campaignTriggers is the fixed intent set; matching is case-insensitive
// substring.
var campaignTriggers = []string{"campaign", "create", "generate", "promote", "launch"}

// historyWindow bounds how much conversation is replayed to the completion
// service.
const historyWindow = 10

// completionTimeout caps the suspension per external completion call.
const completionTimeout = 45 * time.Second

// Classify decides whether a message requests campaign generation. Pure
// function of the text and the feature flag.
func Classify(text string, campaignGenerationEnabled bool) string {
	if !campaignGenerationEnabled {
		return StatePlainReply
	}
	lower := strings.ToLower(text)
	for _, trigger := range campaignTriggers {
		if strings.Contains(lower, trigger) {
			return StateCampaignRequested
		}
	}
	return StatePlainReply
}

// SessionRegistry is the slice of the registry the orchestrator needs.
type SessionRegistry interface {
	Record(clientID string, msg model.Message) error
	AddCampaign(clientID string, c model.Campaign) error
	Deliver(clientID string, event ws.Event)
	History(clientID string) ([]model.Message, error)
}

// CampaignGenerator produces a campaign for a chat request.
type CampaignGenerator interface {
	Generate(ctx context.Context, clientID, message string, dataSources, channels []string) (*model.Campaign, error)
}

// SourceLister reports which data sources a client currently has connected.
type SourceLister interface {
	ConnectedSources(clientID string) []string
}

// Orchestrator drives one inbound chat message through
// Received -> Classified -> (PlainReply | CampaignRequested) -> Delivered.
type Orchestrator struct {
	Registry   SessionRegistry
	AI         ai.CompletionClient
	Campaigns  CampaignGenerator
	Connectors SourceLister
	Messages   repository.MessageRepositoryInterface // optional durable history

	CampaignGenerationEnabled bool
}

// ProcessMessage handles one inbound message for a client. The returned
// error is only non-nil for integration faults (UnknownSession); external
// failures degrade to a user-visible error message and nil.
func (o *Orchestrator) ProcessMessage(ctx context.Context, clientID, text, timestamp string) error {
	// Received
	userMsg := model.Message{
		ClientID:  clientID,
		Sender:    model.SenderUser,
		Content:   text,
		Kind:      model.KindText,
		CreatedAt: time.Now(),
	}
	if err := o.Registry.Record(clientID, userMsg); err != nil {
		return err
	}
	o.persist(&userMsg)

	// Classified
	switch Classify(text, o.CampaignGenerationEnabled) {
	case StateCampaignRequested:
		return o.handleCampaignRequest(ctx, clientID, text, timestamp)
	default:
		return o.handlePlainReply(ctx, clientID, timestamp)
	}
}

func (o *Orchestrator) handlePlainReply(ctx context.Context, clientID, timestamp string) error {
	history, err := o.Registry.History(clientID)
	if err != nil {
		return err
	}

	turns := []ai.ChatTurn{{Role: "system", Content: systemPrompt}}
	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}
	for _, m := range history[start:] {
		role := "user"
		if m.Sender == model.SenderAI {
			role = "assistant"
		}
		turns = append(turns, ai.ChatTurn{Role: role, Content: m.Content})
	}

	callCtx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	reply, err := o.AI.Complete(callCtx, turns, 500)
	if err != nil {
		return o.reportError(clientID, timestamp, err)
	}

	return o.deliverText(clientID, timestamp, reply)
}

func (o *Orchestrator) handleCampaignRequest(ctx context.Context, clientID, text, timestamp string) error {
	sources := o.Connectors.ConnectedSources(clientID)

	callCtx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	campaign, err := o.Campaigns.Generate(callCtx, clientID, text, sources, nil)
	if err != nil {
		return o.reportError(clientID, timestamp, err)
	}

	ack := model.Message{
		ClientID:  clientID,
		Sender:    model.SenderAI,
		Content:   fmt.Sprintf("I've drafted the campaign %q across %d channel(s). Review the details below.", campaign.Name, len(campaign.Channels)),
		Kind:      model.KindCampaign,
		CreatedAt: time.Now(),
	}
	if err := o.Registry.Record(clientID, ack); err != nil {
		return err
	}
	if err := o.Registry.AddCampaign(clientID, *campaign); err != nil {
		return err
	}
	o.persist(&ack)

	// Delivered
	o.Registry.Deliver(clientID, ws.Event{Type: "ai_response", Content: ack.Content, Timestamp: timestamp})
	o.Registry.Deliver(clientID, ws.Event{Type: "campaign_generated", Campaign: campaign, Timestamp: timestamp})
	return nil
}

func (o *Orchestrator) deliverText(clientID, timestamp, content string) error {
	msg := model.Message{
		ClientID:  clientID,
		Sender:    model.SenderAI,
		Content:   content,
		Kind:      model.KindText,
		CreatedAt: time.Now(),
	}
	if err := o.Registry.Record(clientID, msg); err != nil {
		return err
	}
	o.persist(&msg)
	o.Registry.Deliver(clientID, ws.Event{Type: "ai_response", Content: content, Timestamp: timestamp})
	return nil
}

// reportError converts an external failure into a user-visible chat message;
// the conversation continues. UnknownSession from Record still propagates.
func (o *Orchestrator) reportError(clientID, timestamp string, cause error) error {
	log.Printf("⚠️ message processing for %s degraded: %v", clientID, cause)
	content := fmt.Sprintf("I apologize, but I encountered an error: %s. Please try again.", userFacing(cause))
	return o.deliverText(clientID, timestamp, content)
}

// userFacing shortens taxonomy errors for chat display.
func userFacing(err error) string {
	switch err.(type) {
	case *appErrors.ErrMalformedGeneration:
		return "the generated campaign was invalid"
	case *appErrors.ErrNotConnected:
		return err.Error()
	case *appErrors.ErrExternalService:
		return "the AI service is unavailable"
	}
	return err.Error()
}

func (o *Orchestrator) persist(msg *model.Message) {
	if o.Messages == nil {
		return
	}
	if err := o.Messages.Append(msg); err != nil {
		log.Println("⚠️ failed to persist message:", err)
	}
}
