package service

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/unclebandit/campaigncentral-backend/internal/repository"
)

// vendorExportHeaders doubles as the header row of the downloadable blank
// import template, so export and import stay column-compatible.
var vendorExportHeaders = []string{
	"vendor_code", "vendor_name", "email", "phone", "msme_status", "msme_category",
	"business_category", "group_category", "location", "udyam_number",
	"opening_balance", "credit_amount", "debit_amount", "closing_balance",
}

type ExportService struct {
	VendorRepo repository.VendorRepositoryInterface
}

// ExportVendors writes every stored vendor as one xlsx sheet.
func (s *ExportService) ExportVendors(w io.Writer) error {
	vendors, err := s.VendorRepo.ListAll()
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if err := writeHeaderRow(f, sheet); err != nil {
		return err
	}
	for i, v := range vendors {
		row := []interface{}{
			v.VendorCode, v.VendorName, deref(v.Email), deref(v.Phone),
			deref(v.MSMEStatus), deref(v.MSMECategory),
			deref(v.BusinessCategory), deref(v.GroupCategory),
			deref(v.Location), deref(v.UdyamNumber),
			derefFloat(v.OpeningBalance), derefFloat(v.CreditAmount),
			derefFloat(v.DebitAmount), derefFloat(v.ClosingBalance),
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// BlankTemplate writes an import template containing only the header row.
func (s *ExportService) BlankTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := writeHeaderRow(f, f.GetSheetName(0)); err != nil {
		return err
	}
	return f.Write(w)
}

func writeHeaderRow(f *excelize.File, sheet string) error {
	headers := make([]interface{}, len(vendorExportHeaders))
	for i, h := range vendorExportHeaders {
		headers[i] = h
	}
	return f.SetSheetRow(sheet, "A1", &headers)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *f)
}
