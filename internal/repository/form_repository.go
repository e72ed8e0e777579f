package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/unclebandit/campaigncentral-backend/internal/model"
)

type FormRepositoryInterface interface {
	List(offset, limit int) ([]model.CustomForm, int, error)
	GetByID(id uuid.UUID) (*model.CustomForm, error)
	GetBySlug(slug string) (*model.CustomForm, error)
	Create(f *model.CustomForm) error
	Update(id uuid.UUID, patch *FormPatch) (*model.CustomForm, error)
	Delete(id uuid.UUID) error
	ReplaceFields(formID uuid.UUID, fields []model.FormField) error
	CreateResponse(resp *model.FormResponse) error
	ListResponses(formID uuid.UUID, offset, limit int) ([]model.FormResponse, int, error)
}

type FormPatch struct {
	Name        *string
	Title       *string
	Description *string
	IsActive    *bool
}

type FormRepository struct {
	DB *sql.DB
}

func (r *FormRepository) List(offset, limit int) ([]model.CustomForm, int, error) {
	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM custom_forms`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.Query(`
        SELECT id, name, title, slug, description, is_active, created_by, created_at, updated_at
        FROM custom_forms ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	forms := []model.CustomForm{}
	for rows.Next() {
		var f model.CustomForm
		if err := rows.Scan(&f.ID, &f.Name, &f.Title, &f.Slug, &f.Description,
			&f.IsActive, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, 0, err
		}
		forms = append(forms, f)
	}
	return forms, total, rows.Err()
}

func (r *FormRepository) GetByID(id uuid.UUID) (*model.CustomForm, error) {
	return r.getForm(`WHERE id=$1`, id)
}

func (r *FormRepository) GetBySlug(slug string) (*model.CustomForm, error) {
	return r.getForm(`WHERE slug=$1`, slug)
}

func (r *FormRepository) getForm(where string, arg interface{}) (*model.CustomForm, error) {
	var f model.CustomForm
	err := r.DB.QueryRow(`
        SELECT id, name, title, slug, description, is_active, created_by, created_at, updated_at
        FROM custom_forms `+where, arg,
	).Scan(&f.ID, &f.Name, &f.Title, &f.Slug, &f.Description, &f.IsActive,
		&f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	fields, err := r.loadFields(f.ID)
	if err != nil {
		return nil, err
	}
	f.Fields = fields
	return &f, nil
}

func (r *FormRepository) loadFields(formID uuid.UUID) ([]model.FormField, error) {
	rows, err := r.DB.Query(`
        SELECT id, form_id, position, type, label, required, options, show_when_field, show_when_value
        FROM form_fields WHERE form_id=$1 ORDER BY position`, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := []model.FormField{}
	for rows.Next() {
		var fld model.FormField
		var opts pq.StringArray
		if err := rows.Scan(&fld.ID, &fld.FormID, &fld.Position, &fld.Type, &fld.Label,
			&fld.Required, &opts, &fld.ShowWhenField, &fld.ShowWhenValue); err != nil {
			return nil, err
		}
		fld.Options = []string(opts)
		fields = append(fields, fld)
	}
	return fields, rows.Err()
}

func (r *FormRepository) Create(f *model.CustomForm) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()

	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
        INSERT INTO custom_forms (id, name, title, slug, description, is_active, created_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.Name, f.Title, f.Slug, f.Description, f.IsActive, f.CreatedBy, f.CreatedAt,
	)
	if err != nil {
		return translateUniqueViolation(err, "form slug %s already exists", f.Slug)
	}

	if err := insertFields(tx, f.ID, f.Fields); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceFields swaps the full ordered field set of a form in one transaction.
func (r *FormRepository) ReplaceFields(formID uuid.UUID, fields []model.FormField) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM form_fields WHERE form_id=$1`, formID); err != nil {
		return err
	}
	if err := insertFields(tx, formID, fields); err != nil {
		return err
	}
	return tx.Commit()
}

func insertFields(tx *sql.Tx, formID uuid.UUID, fields []model.FormField) error {
	if len(fields) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(`
        INSERT INTO form_fields (id, form_id, position, type, label, required, options, show_when_field, show_when_value)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range fields {
		fld := &fields[i]
		if fld.ID == uuid.Nil {
			fld.ID = uuid.New()
		}
		fld.FormID = formID
		fld.Position = i
		if _, err := stmt.Exec(fld.ID, fld.FormID, fld.Position, fld.Type, fld.Label,
			fld.Required, pq.Array(fld.Options), fld.ShowWhenField, fld.ShowWhenValue); err != nil {
			return err
		}
	}
	return nil
}

func (r *FormRepository) Update(id uuid.UUID, patch *FormPatch) (*model.CustomForm, error) {
	res, err := r.DB.Exec(`
        UPDATE custom_forms SET
            name        = COALESCE($2, name),
            title       = COALESCE($3, title),
            description = COALESCE($4, description),
            is_active   = COALESCE($5, is_active),
            updated_at  = NOW()
        WHERE id=$1`,
		id, patch.Name, patch.Title, patch.Description, patch.IsActive,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return r.GetByID(id)
}

func (r *FormRepository) Delete(id uuid.UUID) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM form_fields WHERE form_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM custom_forms WHERE id=$1`, id)
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
	return tx.Commit()
}

func (r *FormRepository) CreateResponse(resp *model.FormResponse) error {
	if resp.ID == uuid.Nil {
		resp.ID = uuid.New()
	}
	if resp.SubmittedAt.IsZero() {
		resp.SubmittedAt = time.Now()
	}
	_, err := r.DB.Exec(`
        INSERT INTO form_responses (id, form_id, answers, submitted_at)
        VALUES ($1, $2, $3, $4)`,
		resp.ID, resp.FormID, resp.Answers, resp.SubmittedAt,
	)
	return err
}

func (r *FormRepository) ListResponses(formID uuid.UUID, offset, limit int) ([]model.FormResponse, int, error) {
	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM form_responses WHERE form_id=$1`, formID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.Query(`
        SELECT id, form_id, answers, submitted_at
        FROM form_responses WHERE form_id=$1
        ORDER BY submitted_at DESC LIMIT $2 OFFSET $3`, formID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	responses := []model.FormResponse{}
	for rows.Next() {
		var resp model.FormResponse
		if err := rows.Scan(&resp.ID, &resp.FormID, &resp.Answers, &resp.SubmittedAt); err != nil {
			return nil, 0, err
		}
		responses = append(responses, resp)
	}
	return responses, total, rows.Err()
}

var _ FormRepositoryInterface = (*FormRepository)(nil)
