package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/unclebandit/campaigncentral-backend/internal/contact"
	appErrors "github.com/unclebandit/campaigncentral-backend/internal/errors"
	"github.com/unclebandit/campaigncentral-backend/internal/metrics"
	"github.com/unclebandit/campaigncentral-backend/internal/model"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
)

type ImportService struct {
	VendorRepo    repository.VendorRepositoryInterface
	UploadLogRepo repository.UploadLogRepositoryInterface

	// Applied when a row leaves msme_status blank.
	DefaultMSMEStatus string

	Log *zap.Logger
}

// ImportRow is one parsed spreadsheet data row: header-keyed cells plus the
// raw line kept for upload logging.
type ImportRow struct {
	Number int
	Cells  map[string]string
	Raw    string
}

// ImportSummary reports what one bulk import did.
type ImportSummary struct {
	FileName  string         `json:"file_name"`
	TotalRows int            `json:"total_rows"`
	Inserted  int            `json:"inserted"`
	Anomalies map[string]int `json:"anomalies"`
	Digest    []string       `json:"digest"`
}

// ImportVendors parses the uploaded spreadsheet and either inserts every
// surviving row or rejects the whole file. Rejection reasons: a vendor code
// repeated within the file, a vendor code already stored, or no row left
// with both a code and a name. Anomalies (bad emails, landlines, missing
// contacts) do not reject; they are written to the upload log.
func (s *ImportService) ImportVendors(fileName string, r io.Reader) (*ImportSummary, error) {
	rows, err := ParseSpreadsheet(fileName, r)
	if err != nil {
		return nil, appErrors.NewValidation("could not parse %s: %v", fileName, err)
	}

	vendors, logs, err := s.buildVendors(fileName, rows)
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(vendors))
	for i, v := range vendors {
		codes[i] = v.VendorCode
	}
	existing, err := s.VendorRepo.ExistingCodes(codes)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, appErrors.NewValidation(
			"import rejected: vendor codes already exist: %s", strings.Join(existing, ", "))
	}

	if err := s.VendorRepo.BulkInsert(vendors); err != nil {
		return nil, err
	}
	if err := s.UploadLogRepo.BulkCreate(logs); err != nil {
		// Vendors are in; a failed anomaly log write should not fail the
		// import after the fact.
		s.Log.Error("failed to persist upload logs", zap.Error(err))
	}

	summary := &ImportSummary{
		FileName:  fileName,
		TotalRows: len(rows),
		Inserted:  len(vendors),
		Anomalies: map[string]int{},
	}
	for _, l := range logs {
		summary.Anomalies[l.ErrorType]++
	}
	summary.Digest = anomalyDigest(summary.Anomalies)

	metrics.RecordImportRows("inserted", summary.Inserted)
	for errType, n := range summary.Anomalies {
		metrics.RecordImportRows(errType, n)
	}

	s.Log.Info("vendor import completed",
		zap.String("file", fileName),
		zap.Int("rows", summary.TotalRows),
		zap.Int("inserted", summary.Inserted),
		zap.Int("anomalies", len(logs)))
	return summary, nil
}

// buildVendors maps rows to vendor models, collecting upload-log anomalies
// along the way. It enforces the in-file duplicate-code rejection and the
// "at least one surviving row" rule.
func (s *ImportService) buildVendors(fileName string, rows []ImportRow) ([]model.Vendor, []model.UploadLog, error) {
	var vendors []model.Vendor
	var logs []model.UploadLog
	seen := map[string]int{}
	var dupes []string

	for _, row := range rows {
		code := strings.TrimSpace(cell(row.Cells, "vendor_code", "code"))
		name := strings.TrimSpace(cell(row.Cells, "vendor_name", "name", "company_name"))
		if code == "" || name == "" {
			continue
		}

		if prev, ok := seen[code]; ok {
			dupes = append(dupes, fmt.Sprintf("%s (rows %d and %d)", code, prev, row.Number))
			continue
		}
		seen[code] = row.Number

		v := model.Vendor{VendorCode: code, VendorName: name}

		emails := contact.ExtractEmails(cell(row.Cells, "email", "email_id", "emails"))
		for range emails.Invalid {
			logs = append(logs, uploadLog(fileName, row, code, model.UploadErrInvalidEmail))
		}
		if emails.Primary != "" {
			v.Email = ptr(emails.Primary)
		} else {
			logs = append(logs, uploadLog(fileName, row, code, model.UploadErrMissingEmail))
		}

		phones := contact.ExtractPhones(cell(row.Cells, "phone", "phone_number", "mobile", "contact"))
		for range phones.Landlines {
			logs = append(logs, uploadLog(fileName, row, code, model.UploadErrLandlineFiltered))
		}
		for range phones.Invalid {
			logs = append(logs, uploadLog(fileName, row, code, model.UploadErrInvalidPhone))
		}
		if phones.Primary != "" {
			v.Phone = ptr(phones.Primary)
		} else {
			logs = append(logs, uploadLog(fileName, row, code, model.UploadErrMissingPhone))
		}

		if msme := cell(row.Cells, "msme_status"); msme != "" {
			v.MSMEStatus = ptr(msme)
		} else {
			v.MSMEStatus = ptr(s.DefaultMSMEStatus)
		}
		setOptional(&v.MSMECategory, row.Cells, "msme_category")
		setOptional(&v.BusinessCategory, row.Cells, "business_category", "category")
		setOptional(&v.GroupCategory, row.Cells, "group_category")
		setOptional(&v.Location, row.Cells, "location", "city", "state")
		setOptional(&v.UdyamNumber, row.Cells, "udyam_number")
		setNumeric(&v.OpeningBalance, row.Cells, "opening_balance")
		setNumeric(&v.CreditAmount, row.Cells, "credit_amount")
		setNumeric(&v.DebitAmount, row.Cells, "debit_amount")
		setNumeric(&v.ClosingBalance, row.Cells, "closing_balance")

		vendors = append(vendors, v)
	}

	if len(dupes) > 0 {
		return nil, nil, appErrors.NewValidation(
			"import rejected: duplicate vendor codes in file: %s", strings.Join(dupes, "; "))
	}
	if len(vendors) == 0 {
		return nil, nil, appErrors.NewValidation(
			"import rejected: no rows with both a vendor code and a vendor name")
	}
	return vendors, logs, nil
}

// ParseSpreadsheet reads .csv with encoding/csv and .xlsx/.xls with
// excelize, returning header-keyed rows. The first row is the header;
// header names are lower-cased and space-trimmed for permissive matching.
func ParseSpreadsheet(fileName string, r io.Reader) ([]ImportRow, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return parseCSV(r)
	case ".xlsx", ".xls":
		return parseXLSX(r)
	}
	return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(fileName))
}

func parseCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return recordsToRows(records), nil
}

func parseXLSX(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return recordsToRows(records), nil
}

func recordsToRows(records [][]string) []ImportRow {
	if len(records) == 0 {
		return nil
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]ImportRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		cells := map[string]string{}
		empty := true
		for j, val := range rec {
			if j >= len(headers) || headers[j] == "" {
				continue
			}
			val = strings.TrimSpace(val)
			if val != "" {
				empty = false
			}
			cells[headers[j]] = val
		}
		if empty {
			continue
		}
		rows = append(rows, ImportRow{
			Number: i + 2, // 1-based, header is row 1
			Cells:  cells,
			Raw:    strings.Join(rec, ","),
		})
	}
	return rows
}

func anomalyDigest(anomalies map[string]int) []string {
	phrases := map[string]string{
		model.UploadErrInvalidEmail:     "%d invalid email addresses logged",
		model.UploadErrInvalidPhone:     "%d invalid phone numbers logged",
		model.UploadErrLandlineFiltered: "%d landline numbers filtered out",
		model.UploadErrMissingEmail:     "%d rows without a usable email",
		model.UploadErrMissingPhone:     "%d rows without a usable mobile number",
	}
	keys := make([]string, 0, len(anomalies))
	for k := range anomalies {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var digest []string
	for _, k := range keys {
		if phrase, ok := phrases[k]; ok {
			digest = append(digest, fmt.Sprintf(phrase, anomalies[k]))
		}
	}
	return digest
}

func uploadLog(fileName string, row ImportRow, code, errType string) model.UploadLog {
	return model.UploadLog{
		FileName:   fileName,
		RowNumber:  row.Number,
		VendorCode: code,
		ErrorType:  errType,
		RawData:    row.Raw,
	}
}

func cell(cells map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := cells[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

func setOptional(dst **string, cells map[string]string, keys ...string) {
	if v := cell(cells, keys...); v != "" {
		*dst = ptr(v)
	}
}

func setNumeric(dst **float64, cells map[string]string, keys ...string) {
	if v := cell(cells, keys...); v != "" {
		if n, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64); err == nil {
			*dst = &n
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
