package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/unclebandit/campaigncentral-backend/internal/model"
)

type VendorRepositoryInterface interface {
	List(offset, limit int, search, msmeStatus string) ([]model.Vendor, int, error)
	ListAll() ([]model.Vendor, error)
	GetByID(id uuid.UUID) (*model.Vendor, error)
	GetByIDs(ids []uuid.UUID) ([]model.Vendor, error)
	GetByCode(code string) (*model.Vendor, error)
	ExistingCodes(codes []string) ([]string, error)
	Create(v *model.Vendor) error
	BulkInsert(vendors []model.Vendor) error
	Update(id uuid.UUID, patch *VendorPatch) (*model.Vendor, error)
	Delete(id uuid.UUID) error
	BulkDelete(ids []uuid.UUID) (int64, error)
	Count() (int, error)
}

// VendorPatch carries the optional fields of a partial update. Nil means
// "keep the stored value" (COALESCE in the UPDATE).
type VendorPatch struct {
	VendorName       *string
	Email            *string
	Phone            *string
	MSMEStatus       *string
	MSMECategory     *string
	BusinessCategory *string
	GroupCategory    *string
	Location         *string
	UdyamNumber      *string
	OpeningBalance   *float64
	CreditAmount     *float64
	DebitAmount      *float64
	ClosingBalance   *float64
}

type VendorRepository struct {
	DB *sql.DB
}

const vendorColumns = `id, vendor_name, vendor_code, email, phone, msme_status, msme_category,
       business_category, group_category, location, udyam_number,
       opening_balance, credit_amount, debit_amount, closing_balance, created_at, updated_at`

func scanVendor(row interface{ Scan(...any) error }) (*model.Vendor, error) {
	var v model.Vendor
	err := row.Scan(
		&v.ID, &v.VendorName, &v.VendorCode, &v.Email, &v.Phone, &v.MSMEStatus, &v.MSMECategory,
		&v.BusinessCategory, &v.GroupCategory, &v.Location, &v.UdyamNumber,
		&v.OpeningBalance, &v.CreditAmount, &v.DebitAmount, &v.ClosingBalance, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VendorRepository) List(offset, limit int, search, msmeStatus string) ([]model.Vendor, int, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM vendors WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if search != "" {
		cond := fmt.Sprintf(" AND (vendor_name ILIKE $%d OR vendor_code ILIKE $%d OR email ILIKE $%d)", argPos, argPos, argPos)
		query += cond
		countQuery += cond
		args = append(args, "%"+search+"%")
		argPos++
	}
	if msmeStatus != "" {
		cond := fmt.Sprintf(" AND msme_status=$%d", argPos)
		query += cond
		countQuery += cond
		args = append(args, msmeStatus)
		argPos++
	}

	var total int
	if err := r.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY vendor_code LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	vendors := []model.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, 0, err
		}
		vendors = append(vendors, *v)
	}
	return vendors, total, rows.Err()
}

func (r *VendorRepository) ListAll() ([]model.Vendor, error) {
	rows, err := r.DB.Query(`SELECT ` + vendorColumns + ` FROM vendors ORDER BY vendor_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors := []model.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, *v)
	}
	return vendors, rows.Err()
}

func (r *VendorRepository) GetByID(id uuid.UUID) (*model.Vendor, error) {
	row := r.DB.QueryRow(`SELECT `+vendorColumns+` FROM vendors WHERE id=$1`, id)
	v, err := scanVendor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return v, err
}

func (r *VendorRepository) GetByIDs(ids []uuid.UUID) ([]model.Vendor, error) {
	if len(ids) == 0 {
		return []model.Vendor{}, nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	rows, err := r.DB.Query(`SELECT `+vendorColumns+` FROM vendors WHERE id = ANY($1)`, pq.Array(strIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors := []model.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, *v)
	}
	return vendors, rows.Err()
}

func (r *VendorRepository) GetByCode(code string) (*model.Vendor, error) {
	row := r.DB.QueryRow(`SELECT `+vendorColumns+` FROM vendors WHERE vendor_code=$1`, code)
	v, err := scanVendor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return v, err
}

// ExistingCodes returns which of the given vendor codes are already stored.
// Matching is exact, as stored.
func (r *VendorRepository) ExistingCodes(codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	rows, err := r.DB.Query(`SELECT vendor_code FROM vendors WHERE vendor_code = ANY($1)`, pq.Array(codes))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var existing []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		existing = append(existing, c)
	}
	return existing, rows.Err()
}

func (r *VendorRepository) Create(v *model.Vendor) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	query := `
        INSERT INTO vendors (id, vendor_name, vendor_code, email, phone, msme_status, msme_category,
                             business_category, group_category, location, udyam_number,
                             opening_balance, credit_amount, debit_amount, closing_balance, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
    `
	_, err := r.DB.Exec(query,
		v.ID, v.VendorName, v.VendorCode, v.Email, v.Phone, v.MSMEStatus, v.MSMECategory,
		v.BusinessCategory, v.GroupCategory, v.Location, v.UdyamNumber,
		v.OpeningBalance, v.CreditAmount, v.DebitAmount, v.ClosingBalance, v.CreatedAt,
	)
	return translateUniqueViolation(err, "vendor code %s already exists", v.VendorCode)
}

// BulkInsert writes all vendors inside one transaction so a bad row rolls
// back the whole import.
func (r *VendorRepository) BulkInsert(vendors []model.Vendor) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
        INSERT INTO vendors (id, vendor_name, vendor_code, email, phone, msme_status, msme_category,
                             business_category, group_category, location, udyam_number,
                             opening_balance, credit_amount, debit_amount, closing_balance, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
    `)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i := range vendors {
		v := &vendors[i]
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		v.CreatedAt = now
		if _, err := stmt.Exec(
			v.ID, v.VendorName, v.VendorCode, v.Email, v.Phone, v.MSMEStatus, v.MSMECategory,
			v.BusinessCategory, v.GroupCategory, v.Location, v.UdyamNumber,
			v.OpeningBalance, v.CreditAmount, v.DebitAmount, v.ClosingBalance, v.CreatedAt,
		); err != nil {
			return translateUniqueViolation(err, "vendor code %s already exists", v.VendorCode)
		}
	}
	return tx.Commit()
}

func (r *VendorRepository) Update(id uuid.UUID, patch *VendorPatch) (*model.Vendor, error) {
	query := `
        UPDATE vendors SET
            vendor_name       = COALESCE($2, vendor_name),
            email             = COALESCE($3, email),
            phone             = COALESCE($4, phone),
            msme_status       = COALESCE($5, msme_status),
            msme_category     = COALESCE($6, msme_category),
            business_category = COALESCE($7, business_category),
            group_category    = COALESCE($8, group_category),
            location          = COALESCE($9, location),
            udyam_number      = COALESCE($10, udyam_number),
            opening_balance   = COALESCE($11, opening_balance),
            credit_amount     = COALESCE($12, credit_amount),
            debit_amount      = COALESCE($13, debit_amount),
            closing_balance   = COALESCE($14, closing_balance),
            updated_at        = NOW()
        WHERE id=$1
        RETURNING ` + vendorColumns
	row := r.DB.QueryRow(query, id,
		patch.VendorName, patch.Email, patch.Phone, patch.MSMEStatus, patch.MSMECategory,
		patch.BusinessCategory, patch.GroupCategory, patch.Location, patch.UdyamNumber,
		patch.OpeningBalance, patch.CreditAmount, patch.DebitAmount, patch.ClosingBalance,
	)
	v, err := scanVendor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return v, err
}

func (r *VendorRepository) Delete(id uuid.UUID) error {
	res, err := r.DB.Exec(`DELETE FROM vendors WHERE id=$1`, id)
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

func (r *VendorRepository) BulkDelete(ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	res, err := r.DB.Exec(`DELETE FROM vendors WHERE id = ANY($1)`, pq.Array(strIDs))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *VendorRepository) Count() (int, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM vendors`).Scan(&n)
	return n, err
}

var _ VendorRepositoryInterface = (*VendorRepository)(nil)
