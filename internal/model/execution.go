// internal/model/execution.go
package model

import "time"

// ExecutionRecord is one channel's send within a campaign execution.
type ExecutionRecord struct {
	ID          int       `db:"id" json:"id"`
	ExecutionID string    `db:"execution_id" json:"execution_id"`
	CampaignID  string    `db:"campaign_id" json:"campaign_id"`
	Channel     string    `db:"channel" json:"channel"`
	Status      string    `db:"status" json:"status"` // pending, sent, failed
	Recipients  int       `db:"recipients" json:"recipients"`
	Message     string    `db:"message" json:"message"`
	LastError   string    `db:"last_error,omitempty" json:"last_error,omitempty"`
	RetryCount  int       `db:"retry_count" json:"retry_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
