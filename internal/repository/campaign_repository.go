package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(campaignID string) (*model.Campaign, error)
	ListByClient(clientID string) ([]model.Campaign, error)
	UpdateStatus(campaignID, status string) error
}

type CampaignRepository struct {
	DB *sql.DB
}

// Structured fields (audience, channels, execution) are stored as jsonb;
// the campaign schema is validated before it ever reaches this layer.

func (r *CampaignRepository) Create(c *model.Campaign) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.Status == "" {
		c.Status = "generated"
	}

	audience, err := json.Marshal(c.TargetAudience)
	if err != nil {
		return err
	}
	channels, err := json.Marshal(c.Channels)
	if err != nil {
		return err
	}
	execution, err := json.Marshal(c.Execution)
	if err != nil {
		return err
	}
	sources, err := json.Marshal(c.DataSources)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO campaigns (campaign_id, client_id, name, description, target_audience, channels, execution, data_sources, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err = r.DB.Exec(query,
		c.CampaignID, c.ClientID, c.Name, c.Description,
		audience, channels, execution, sources,
		c.Status, c.CreatedAt,
	)
	return err
}

func (r *CampaignRepository) GetByID(campaignID string) (*model.Campaign, error) {
	query := `
        SELECT campaign_id, client_id, name, description, target_audience, channels, execution, data_sources, status, created_at
        FROM campaigns WHERE campaign_id=$1
    `
	c, err := scanCampaign(r.DB.QueryRow(query, campaignID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *CampaignRepository) ListByClient(clientID string) ([]model.Campaign, error) {
	query := `
        SELECT campaign_id, client_id, name, description, target_audience, channels, execution, data_sources, status, created_at
        FROM campaigns WHERE client_id=$1 ORDER BY created_at DESC
    `
	rows, err := r.DB.Query(query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) UpdateStatus(campaignID, status string) error {
	query := `UPDATE campaigns SET status=$1 WHERE campaign_id=$2`
	_, err := r.DB.Exec(query, status, campaignID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*model.Campaign, error) {
	var c model.Campaign
	var audience, channels, execution, sources []byte

	err := row.Scan(&c.CampaignID, &c.ClientID, &c.Name, &c.Description,
		&audience, &channels, &execution, &sources, &c.Status, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(audience, &c.TargetAudience); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(channels, &c.Channels); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(execution, &c.Execution); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sources, &c.DataSources); err != nil {
		return nil, err
	}
	return &c, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
