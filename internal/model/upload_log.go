package model

import (
	"time"

	"github.com/google/uuid"
)

// Upload log error types recorded during vendor bulk import.
const (
	UploadErrInvalidEmail     = "invalid_email"
	UploadErrInvalidPhone     = "invalid_phone"
	UploadErrLandlineFiltered = "landline_filtered"
	UploadErrMissingEmail     = "missing_email"
	UploadErrMissingPhone     = "missing_phone"
)

// UploadLog is one row per anomaly detected during a vendor bulk import,
// carrying the offending raw row for later inspection.
type UploadLog struct {
	ID         uuid.UUID `db:"id" json:"id"`
	FileName   string    `db:"file_name" json:"file_name"`
	RowNumber  int       `db:"row_number" json:"row_number"`
	VendorCode string    `db:"vendor_code" json:"vendor_code"`
	ErrorType  string    `db:"error_type" json:"error_type"`
	RawData    string    `db:"raw_data" json:"raw_data"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
