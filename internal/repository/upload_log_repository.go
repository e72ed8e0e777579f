package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/campaigncentral-backend/internal/model"
)

type UploadLogRepositoryInterface interface {
	BulkCreate(logs []model.UploadLog) error
	List(offset, limit int) ([]model.UploadLog, int, error)
}

type UploadLogRepository struct {
	DB *sql.DB
}

func (r *UploadLogRepository) BulkCreate(logs []model.UploadLog) error {
	if len(logs) == 0 {
		return nil
	}
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
        INSERT INTO upload_logs (id, file_name, row_number, vendor_code, error_type, raw_data, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i := range logs {
		l := &logs[i]
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		l.CreatedAt = now
		if _, err := stmt.Exec(l.ID, l.FileName, l.RowNumber, l.VendorCode, l.ErrorType, l.RawData, l.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *UploadLogRepository) List(offset, limit int) ([]model.UploadLog, int, error) {
	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM upload_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.Query(`
        SELECT id, file_name, row_number, vendor_code, error_type, raw_data, created_at
        FROM upload_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs := []model.UploadLog{}
	for rows.Next() {
		var l model.UploadLog
		if err := rows.Scan(&l.ID, &l.FileName, &l.RowNumber, &l.VendorCode, &l.ErrorType, &l.RawData, &l.CreatedAt); err != nil {
			return nil, 0, err
		}
		logs = append(logs, l)
	}
	return logs, total, rows.Err()
}

var _ UploadLogRepositoryInterface = (*UploadLogRepository)(nil)
