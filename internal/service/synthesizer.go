// internal/service/synthesizer.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orchestrate-labs/campaign-chat-backend/internal/ai"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/connector"
	appErrors "github.com/orchestrate-labs/campaign-chat-backend/internal/errors"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
)

const campaignPromptTemplate = `
Based on the following context and available data sources, generate a marketing campaign JSON payload:

Context: %s

Generate a JSON payload with the following structure:
{
    "name": "Campaign Name",
    "description": "Campaign description",
    "target_audience": {
        "demographics": {},
        "interests": [],
        "behavior": []
    },
    "channels": [
        {
            "type": "email|sms|whatsapp|push",
            "content": "Message content",
            "timing": "optimal_time",
            "personalization": {}
        }
    ],
    "execution": {
        "schedule": "immediate|scheduled",
        "budget": 0,
        "metrics": []
    }
}

Make it realistic and actionable for the given context.
`

// Synthesizer turns a natural-language request plus aggregated audience data
// into a validated Campaign by delegating to the completion service.
type Synthesizer struct {
	AI ai.CompletionClient
}

// Synthesize builds the generation prompt, calls the completion service and
// validates the returned payload against the campaign schema. A payload that
// fails the schema (no channels, unknown channel type, unparseable JSON)
// fails with MalformedGeneration rather than being forwarded or repaired by
// dropping entries.
func (s *Synthesizer) Synthesize(ctx context.Context, message string, aggregated connector.AggregatedData, dataSources, channels []string, clientID string) (*model.Campaign, error) {
	aggJSON, err := json.MarshalIndent(aggregated, "", "  ")
	if err != nil {
		return nil, err
	}

	generationContext := fmt.Sprintf(
		"User Request: %s\nAvailable Data Sources: %s\nSelected Channels: %s\nAggregated Data: %s",
		message, strings.Join(dataSources, ", "), strings.Join(channels, ", "), aggJSON,
	)
	prompt := fmt.Sprintf(campaignPromptTemplate, generationContext)

	raw, err := s.AI.Complete(ctx, []ai.ChatTurn{{Role: "user", Content: prompt}}, 800)
	if err != nil {
		return nil, err
	}

	payload, err := extractJSON(raw)
	if err != nil {
		return nil, appErrors.NewMalformedGeneration(err.Error())
	}

	var campaign model.Campaign
	if err := json.Unmarshal(payload, &campaign); err != nil {
		return nil, appErrors.NewMalformedGeneration(fmt.Sprintf("invalid campaign JSON: %v", err))
	}

	// Stamp metadata; generation output never controls identity fields.
	campaign.CampaignID = uuid.NewString()
	campaign.ClientID = clientID
	campaign.DataSources = dataSources
	campaign.Status = "generated"
	campaign.CreatedAt = time.Now()

	if err := campaign.Validate(); err != nil {
		return nil, appErrors.NewMalformedGeneration(err.Error())
	}
	return &campaign, nil
}

// extractJSON pulls the first top-level JSON object out of a completion that
// may be wrapped in prose or markdown fences.
func extractJSON(content string) ([]byte, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object in generation output")
	}
	return []byte(content[start : end+1]), nil
}
