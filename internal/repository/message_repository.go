package repository

import (
	"database/sql"
	"time"

	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
)

// MessageRepositoryInterface defines the chat-history persistence used by
// the handlers and the orchestrator.
type MessageRepositoryInterface interface {
	Append(msg *model.Message) error
	ListByClient(clientID string) ([]model.Message, error)
	DeleteByClient(clientID string) error
}

type MessageRepository struct {
	DB *sql.DB
}

func (r *MessageRepository) Append(msg *model.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	query := `
        INSERT INTO messages (client_id, sender, content, kind, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	return r.DB.QueryRow(query, msg.ClientID, msg.Sender, msg.Content, msg.Kind, msg.CreatedAt).Scan(&msg.ID)
}

// ListByClient returns one client's history in arrival order.
func (r *MessageRepository) ListByClient(clientID string) ([]model.Message, error) {
	query := `
        SELECT id, client_id, sender, content, kind, created_at
        FROM messages WHERE client_id=$1 ORDER BY id ASC
    `
	rows, err := r.DB.Query(query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ClientID, &m.Sender, &m.Content, &m.Kind, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *MessageRepository) DeleteByClient(clientID string) error {
	_, err := r.DB.Exec(`DELETE FROM messages WHERE client_id=$1`, clientID)
	return err
}

var _ MessageRepositoryInterface = (*MessageRepository)(nil)
