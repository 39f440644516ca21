package repository

import (
	"database/sql"
	"time"

	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
)

type ExecutionRepositoryInterface interface {
	Create(rec *model.ExecutionRecord) error
	GetByID(id int) (*model.ExecutionRecord, error)
	Update(rec *model.ExecutionRecord) error
	UpdateStatus(id int, status, lastError string) error
	ListByExecution(executionID string) ([]model.ExecutionRecord, error)
}

type ExecutionRepository struct {
	DB *sql.DB
}

func (r *ExecutionRepository) Create(rec *model.ExecutionRecord) error {
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.Status == "" {
		rec.Status = "pending"
	}

	query := `
        INSERT INTO execution_records (execution_id, campaign_id, channel, status, recipients, message, last_error, retry_count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		rec.ExecutionID, rec.CampaignID, rec.Channel, rec.Status,
		rec.Recipients, rec.Message, rec.LastError, rec.RetryCount,
		rec.CreatedAt, rec.UpdatedAt,
	).Scan(&rec.ID)
}

func (r *ExecutionRepository) GetByID(id int) (*model.ExecutionRecord, error) {
	query := `
        SELECT id, execution_id, campaign_id, channel, status, recipients, message, last_error, retry_count, created_at, updated_at
        FROM execution_records WHERE id=$1
    `
	var rec model.ExecutionRecord
	err := r.DB.QueryRow(query, id).Scan(
		&rec.ID, &rec.ExecutionID, &rec.CampaignID, &rec.Channel, &rec.Status,
		&rec.Recipients, &rec.Message, &rec.LastError, &rec.RetryCount,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *ExecutionRepository) Update(rec *model.ExecutionRecord) error {
	rec.UpdatedAt = time.Now()
	query := `
        UPDATE execution_records
        SET status=$1, last_error=$2, retry_count=$3, updated_at=$4
        WHERE id=$5
    `
	_, err := r.DB.Exec(query, rec.Status, rec.LastError, rec.RetryCount, rec.UpdatedAt, rec.ID)
	return err
}

func (r *ExecutionRepository) UpdateStatus(id int, status, lastError string) error {
	query := `UPDATE execution_records SET status=$1, last_error=$2, retry_count=retry_count+1, updated_at=NOW() WHERE id=$3`
	_, err := r.DB.Exec(query, status, lastError, id)
	return err
}

func (r *ExecutionRepository) ListByExecution(executionID string) ([]model.ExecutionRecord, error) {
	query := `
        SELECT id, execution_id, campaign_id, channel, status, recipients, message, last_error, retry_count, created_at, updated_at
        FROM execution_records WHERE execution_id=$1 ORDER BY id ASC
    `
	rows, err := r.DB.Query(query, executionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.ExecutionRecord{}
	for rows.Next() {
		var rec model.ExecutionRecord
		if err := rows.Scan(
			&rec.ID, &rec.ExecutionID, &rec.CampaignID, &rec.Channel, &rec.Status,
			&rec.Recipients, &rec.Message, &rec.LastError, &rec.RetryCount,
			&rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

var _ ExecutionRepositoryInterface = (*ExecutionRepository)(nil)
