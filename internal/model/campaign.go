// internal/model/campaign.go
package model

import (
	"fmt"
	"time"
)

// Recognized campaign channel types.
const (
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
	ChannelPush     = "push"
)

// KnownChannelTypes is the closed set of deliverable channels.
var KnownChannelTypes = map[string]bool{
	ChannelEmail:    true,
	ChannelSMS:      true,
	ChannelWhatsApp: true,
	ChannelPush:     true,
}

type ChannelConfig struct {
	Type            string            `json:"type"` // email, sms, whatsapp, push
	Content         string            `json:"content"`
	Timing          string            `json:"timing"`
	Personalization map[string]string `json:"personalization,omitempty"`
}

type TargetAudience struct {
	Demographics map[string]any `json:"demographics"`
	Interests    []string       `json:"interests"`
	Behavior     []string       `json:"behavior"`
}

type CampaignExecution struct {
	Schedule string   `json:"schedule"` // immediate, scheduled
	Budget   float64  `json:"budget"`
	Metrics  []string `json:"metrics"`
}

// Campaign is the structured multi-channel bundle produced for one request.
// Immutable after creation; re-generation mints a new Campaign.
type Campaign struct {
	CampaignID     string            `db:"campaign_id" json:"campaign_id"`
	Name           string            `db:"name" json:"name"`
	Description    string            `db:"description" json:"description"`
	TargetAudience TargetAudience    `db:"target_audience" json:"target_audience"`
	Channels       []ChannelConfig   `db:"channels" json:"channels"`
	Execution      CampaignExecution `db:"execution" json:"execution"`
	DataSources    []string          `db:"data_sources" json:"data_sources"`
	ClientID       string            `db:"client_id" json:"client_id"`
	Status         string            `db:"status" json:"status"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
}

// Validate enforces the schema invariant: at least one channel, every
// channel type recognized. Unrecognized types are rejected, never dropped.
func (c *Campaign) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("campaign name is empty")
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("campaign has no channels")
	}
	for i, ch := range c.Channels {
		if !KnownChannelTypes[ch.Type] {
			return fmt.Errorf("channel %d has unrecognized type %q", i, ch.Type)
		}
	}
	return nil
}
