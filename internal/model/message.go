// internal/model/message.go
package model

import "time"

// Message senders.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// Message kinds.
const (
	KindText     = "text"
	KindCampaign = "campaign"
	KindData     = "data"
)

type Message struct {
	ID        int       `db:"id" json:"id"`
	ClientID  string    `db:"client_id" json:"client_id"`
	Sender    string    `db:"sender" json:"sender"` // user, ai
	Content   string    `db:"content" json:"content"`
	Kind      string    `db:"kind" json:"kind"` // text, campaign, data
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
