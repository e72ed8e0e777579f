package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/unclebandit/campaigncentral-backend/internal/model"
)

type TemplateRepositoryInterface interface {
	ListEmail(offset, limit int, search string) ([]model.EmailTemplate, error)
	GetEmailByID(id uuid.UUID) (*model.EmailTemplate, error)
	CreateEmail(t *model.EmailTemplate) error
	UpdateEmail(id uuid.UUID, patch *EmailTemplatePatch) (*model.EmailTemplate, error)
	DeleteEmail(id uuid.UUID) error

	ListWhatsApp(offset, limit int, search string) ([]model.WhatsAppTemplate, error)
	GetWhatsAppByID(id uuid.UUID) (*model.WhatsAppTemplate, error)
	CreateWhatsApp(t *model.WhatsAppTemplate) error
	UpdateWhatsApp(id uuid.UUID, patch *WhatsAppTemplatePatch) (*model.WhatsAppTemplate, error)
	DeleteWhatsApp(id uuid.UUID) error

	// Referential guard helpers. Channel is "email" or "whatsapp".
	CountCampaignsReferencing(templateID uuid.UUID, channel, status string) (int, error)
	ClearReferences(templateID uuid.UUID, channel string) error
}

type EmailTemplatePatch struct {
	Name      *string
	Subject   *string
	Body      *string
	Variables *[]string
}

type WhatsAppTemplatePatch struct {
	Name      *string
	Content   *string
	Variables *[]string
}

type TemplateRepository struct {
	DB *sql.DB
}

// ---------------------- Email templates ----------------------

func (r *TemplateRepository) ListEmail(offset, limit int, search string) ([]model.EmailTemplate, error) {
	query := `SELECT id, name, subject, body, variables, created_by, created_at, updated_at
              FROM email_templates WHERE 1=1`
	args := []interface{}{}
	argPos := 1
	if search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR subject ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+search+"%")
		argPos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []model.EmailTemplate{}
	for rows.Next() {
		var t model.EmailTemplate
		var vars pq.StringArray
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &vars, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Variables = []string(vars)
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) GetEmailByID(id uuid.UUID) (*model.EmailTemplate, error) {
	var t model.EmailTemplate
	var vars pq.StringArray
	err := r.DB.QueryRow(`
        SELECT id, name, subject, body, variables, created_by, created_at, updated_at
        FROM email_templates WHERE id=$1`, id,
	).Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &vars, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	t.Variables = []string(vars)
	return &t, nil
}

func (r *TemplateRepository) CreateEmail(t *model.EmailTemplate) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	_, err := r.DB.Exec(`
        INSERT INTO email_templates (id, name, subject, body, variables, created_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Name, t.Subject, t.Body, pq.Array(t.Variables), t.CreatedBy, t.CreatedAt,
	)
	return err
}

func (r *TemplateRepository) UpdateEmail(id uuid.UUID, patch *EmailTemplatePatch) (*model.EmailTemplate, error) {
	var vars interface{}
	if patch.Variables != nil {
		vars = pq.Array(*patch.Variables)
	}
	var t model.EmailTemplate
	var scanned pq.StringArray
	err := r.DB.QueryRow(`
        UPDATE email_templates SET
            name      = COALESCE($2, name),
            subject   = COALESCE($3, subject),
            body      = COALESCE($4, body),
            variables = COALESCE($5, variables),
            updated_at = NOW()
        WHERE id=$1
        RETURNING id, name, subject, body, variables, created_by, created_at, updated_at`,
		id, patch.Name, patch.Subject, patch.Body, vars,
	).Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &scanned, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	t.Variables = []string(scanned)
	return &t, nil
}

func (r *TemplateRepository) DeleteEmail(id uuid.UUID) error {
	return r.deleteRow(`DELETE FROM email_templates WHERE id=$1`, id)
}

// ---------------------- WhatsApp templates ----------------------

func (r *TemplateRepository) ListWhatsApp(offset, limit int, search string) ([]model.WhatsAppTemplate, error) {
	query := `SELECT id, name, content, variables, created_by, created_at, updated_at
              FROM whatsapp_templates WHERE 1=1`
	args := []interface{}{}
	argPos := 1
	if search != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argPos)
		args = append(args, "%"+search+"%")
		argPos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []model.WhatsAppTemplate{}
	for rows.Next() {
		var t model.WhatsAppTemplate
		var vars pq.StringArray
		if err := rows.Scan(&t.ID, &t.Name, &t.Content, &vars, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Variables = []string(vars)
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) GetWhatsAppByID(id uuid.UUID) (*model.WhatsAppTemplate, error) {
	var t model.WhatsAppTemplate
	var vars pq.StringArray
	err := r.DB.QueryRow(`
        SELECT id, name, content, variables, created_by, created_at, updated_at
        FROM whatsapp_templates WHERE id=$1`, id,
	).Scan(&t.ID, &t.Name, &t.Content, &vars, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	t.Variables = []string(vars)
	return &t, nil
}

func (r *TemplateRepository) CreateWhatsApp(t *model.WhatsAppTemplate) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	_, err := r.DB.Exec(`
        INSERT INTO whatsapp_templates (id, name, content, variables, created_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Name, t.Content, pq.Array(t.Variables), t.CreatedBy, t.CreatedAt,
	)
	return err
}

func (r *TemplateRepository) UpdateWhatsApp(id uuid.UUID, patch *WhatsAppTemplatePatch) (*model.WhatsAppTemplate, error) {
	var vars interface{}
	if patch.Variables != nil {
		vars = pq.Array(*patch.Variables)
	}
	var t model.WhatsAppTemplate
	var scanned pq.StringArray
	err := r.DB.QueryRow(`
        UPDATE whatsapp_templates SET
            name      = COALESCE($2, name),
            content   = COALESCE($3, content),
            variables = COALESCE($4, variables),
            updated_at = NOW()
        WHERE id=$1
        RETURNING id, name, content, variables, created_by, created_at, updated_at`,
		id, patch.Name, patch.Content, vars,
	).Scan(&t.ID, &t.Name, &t.Content, &scanned, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	t.Variables = []string(scanned)
	return &t, nil
}

func (r *TemplateRepository) DeleteWhatsApp(id uuid.UUID) error {
	return r.deleteRow(`DELETE FROM whatsapp_templates WHERE id=$1`, id)
}

// ---------------------- Guards ----------------------

func (r *TemplateRepository) CountCampaignsReferencing(templateID uuid.UUID, channel, status string) (int, error) {
	col, err := templateColumn(channel)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM campaigns WHERE %s=$1`, col)
	args := []interface{}{templateID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	var n int
	err = r.DB.QueryRow(query, args...).Scan(&n)
	return n, err
}

// ClearReferences nulls the template reference on every campaign that is not
// Active, so the template can be removed safely.
func (r *TemplateRepository) ClearReferences(templateID uuid.UUID, channel string) error {
	col, err := templateColumn(channel)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE campaigns SET %s=NULL, updated_at=NOW() WHERE %s=$1 AND status <> $2`, col, col)
	_, err = r.DB.Exec(query, templateID, model.CampaignActive)
	return err
}

func templateColumn(channel string) (string, error) {
	switch channel {
	case model.ChannelEmail:
		return "email_template_id", nil
	case model.ChannelWhatsApp:
		return "whatsapp_template_id", nil
	}
	return "", fmt.Errorf("unknown template channel: %s", channel)
}

func (r *TemplateRepository) deleteRow(query string, id uuid.UUID) error {
	res, err := r.DB.Exec(query, id)
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

var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)
