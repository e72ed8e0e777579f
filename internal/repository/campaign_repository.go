package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	appErrors "github.com/unclebandit/campaigncentral-backend/internal/errors"
	"github.com/unclebandit/campaigncentral-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	List(offset, limit int, status, search string) ([]model.Campaign, int, error)
	GetByID(id uuid.UUID) (*model.Campaign, error)
	Create(c *model.Campaign) error
	Update(id uuid.UUID, patch *CampaignPatch) (*model.Campaign, error)
	UpdateStatus(id uuid.UUID, status string) error
	Delete(id uuid.UUID) error
	CountByStatus() (map[string]int, error)
}

// CampaignPatch carries optional fields of a partial update; nil keeps the
// stored value.
type CampaignPatch struct {
	Name               *string
	Description        *string
	Status             *string
	EmailTemplateID    *uuid.UUID
	WhatsAppTemplateID *uuid.UUID
	FormID             *uuid.UUID
	TargetVendors      *[]string
	Deadline           *time.Time
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, name, description, status, email_template_id, whatsapp_template_id,
       form_id, target_vendors, deadline, created_by, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	var targets pq.StringArray
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Status, &c.EmailTemplateID, &c.WhatsAppTemplateID,
		&c.FormID, &targets, &c.Deadline, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.TargetVendors = []string(targets)
	return &c, nil
}

func (r *CampaignRepository) List(offset, limit int, status, search string) ([]model.Campaign, int, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if status != "" {
		cond := fmt.Sprintf(" AND status=$%d", argPos)
		query += cond
		countQuery += cond
		args = append(args, status)
		argPos++
	}
	if search != "" {
		cond := fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argPos, argPos)
		query += cond
		countQuery += cond
		args = append(args, "%"+search+"%")
		argPos++
	}

	var total int
	if err := r.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, total, rows.Err()
}

func (r *CampaignRepository) GetByID(id uuid.UUID) (*model.Campaign, error) {
	row := r.DB.QueryRow(`SELECT `+campaignColumns+` FROM campaigns WHERE id=$1`, id)
	c, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, appErrors.NewNotFound("campaign", id.String())
	}
	return c, err
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = model.CampaignDraft
	}
	c.CreatedAt = time.Now()
	query := `
        INSERT INTO campaigns (id, name, description, status, email_template_id, whatsapp_template_id,
                               form_id, target_vendors, deadline, created_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	_, err := r.DB.Exec(query,
		c.ID, c.Name, c.Description, c.Status, c.EmailTemplateID, c.WhatsAppTemplateID,
		c.FormID, pq.Array(c.TargetVendors), c.Deadline, c.CreatedBy, c.CreatedAt,
	)
	return err
}

func (r *CampaignRepository) Update(id uuid.UUID, patch *CampaignPatch) (*model.Campaign, error) {
	var targets interface{}
	if patch.TargetVendors != nil {
		targets = pq.Array(*patch.TargetVendors)
	}
	query := `
        UPDATE campaigns SET
            name                 = COALESCE($2, name),
            description          = COALESCE($3, description),
            status               = COALESCE($4, status),
            email_template_id    = COALESCE($5, email_template_id),
            whatsapp_template_id = COALESCE($6, whatsapp_template_id),
            form_id              = COALESCE($7, form_id),
            target_vendors       = COALESCE($8, target_vendors),
            deadline             = COALESCE($9, deadline),
            updated_at           = NOW()
        WHERE id=$1
        RETURNING ` + campaignColumns
	row := r.DB.QueryRow(query, id,
		patch.Name, patch.Description, patch.Status, patch.EmailTemplateID,
		patch.WhatsAppTemplateID, patch.FormID, targets, patch.Deadline,
	)
	c, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *CampaignRepository) UpdateStatus(id uuid.UUID, status string) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	return err
}

func (r *CampaignRepository) Delete(id uuid.UUID) error {
	res, err := r.DB.Exec(`DELETE FROM campaigns WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *CampaignRepository) CountByStatus() (map[string]int, error) {
	rows, err := r.DB.Query(`SELECT status, COUNT(*) FROM campaigns GROUP BY status`)
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

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
