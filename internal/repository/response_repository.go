package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/campaigncentral-backend/internal/model"
)

type ResponseRepositoryInterface interface {
	GetByCampaignAndVendor(campaignID, vendorID uuid.UUID) (*model.CampaignResponse, error)
	Create(campaignID, vendorID uuid.UUID) (*model.CampaignResponse, error)
	SubmitFormData(id uuid.UUID, formData json.RawMessage) error
	ListByCampaign(campaignID uuid.UUID) ([]model.CampaignResponse, error)
	CountByStatus(campaignID uuid.UUID) (map[string]int, error)
}

type ResponseRepository struct {
	DB *sql.DB
}

const responseColumns = `id, campaign_id, vendor_id, status, form_data, submitted_at, created_at, updated_at`

func (r *ResponseRepository) GetByCampaignAndVendor(campaignID, vendorID uuid.UUID) (*model.CampaignResponse, error) {
	var resp model.CampaignResponse
	err := r.DB.QueryRow(`
        SELECT `+responseColumns+` FROM campaign_responses
        WHERE campaign_id=$1 AND vendor_id=$2`, campaignID, vendorID,
	).Scan(&resp.ID, &resp.CampaignID, &resp.VendorID, &resp.Status, &resp.FormData,
		&resp.SubmittedAt, &resp.CreatedAt, &resp.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &resp, nil
}

func (r *ResponseRepository) Create(campaignID, vendorID uuid.UUID) (*model.CampaignResponse, error) {
	resp := &model.CampaignResponse{
		ID:         uuid.New(),
		CampaignID: campaignID,
		VendorID:   vendorID,
		Status:     model.ResponsePending,
		CreatedAt:  time.Now(),
	}
	_, err := r.DB.Exec(`
        INSERT INTO campaign_responses (id, campaign_id, vendor_id, status, created_at)
        VALUES ($1, $2, $3, $4, $5)`,
		resp.ID, resp.CampaignID, resp.VendorID, resp.Status, resp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (r *ResponseRepository) SubmitFormData(id uuid.UUID, formData json.RawMessage) error {
	_, err := r.DB.Exec(`
        UPDATE campaign_responses
        SET form_data=$1, status=$2, submitted_at=NOW(), updated_at=NOW()
        WHERE id=$3`,
		formData, model.ResponseSubmitted, id,
	)
	return err
}

func (r *ResponseRepository) ListByCampaign(campaignID uuid.UUID) ([]model.CampaignResponse, error) {
	rows, err := r.DB.Query(`
        SELECT `+responseColumns+` FROM campaign_responses
        WHERE campaign_id=$1 ORDER BY created_at`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []model.CampaignResponse{}
	for rows.Next() {
		var resp model.CampaignResponse
		if err := rows.Scan(&resp.ID, &resp.CampaignID, &resp.VendorID, &resp.Status,
			&resp.FormData, &resp.SubmittedAt, &resp.CreatedAt, &resp.UpdatedAt); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

func (r *ResponseRepository) CountByStatus(campaignID uuid.UUID) (map[string]int, error) {
	rows, err := r.DB.Query(`
        SELECT status, COUNT(*) FROM campaign_responses
        WHERE campaign_id=$1 GROUP BY status`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

var _ ResponseRepositoryInterface = (*ResponseRepository)(nil)
