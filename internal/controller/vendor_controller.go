package controller

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unclebandit/campaigncentral-backend/internal/contact"
	"github.com/unclebandit/campaigncentral-backend/internal/model"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
	"github.com/unclebandit/campaigncentral-backend/internal/service"
)

type VendorController struct {
	Repo   repository.VendorRepositoryInterface
	Export *service.ExportService
	Log    *zap.Logger
}

func (c *VendorController) List(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	search := r.URL.Query().Get("search")
	msmeStatus := r.URL.Query().Get("msme_status")

	vendors, total, err := c.Repo.List(offset, limit, search, msmeStatus)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"vendors":    vendors,
		"pagination": paginationMeta(offset, limit, total),
	})
}

func (c *VendorController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid vendor id")
		return
	}
	vendor, err := c.Repo.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if vendor == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "vendor not found"})
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

type vendorRequest struct {
	VendorName       string   `json:"vendor_name"`
	VendorCode       string   `json:"vendor_code"`
	Email            *string  `json:"email"`
	Phone            *string  `json:"phone"`
	MSMEStatus       *string  `json:"msme_status"`
	MSMECategory     *string  `json:"msme_category"`
	BusinessCategory *string  `json:"business_category"`
	GroupCategory    *string  `json:"group_category"`
	Location         *string  `json:"location"`
	UdyamNumber      *string  `json:"udyam_number"`
	OpeningBalance   *float64 `json:"opening_balance"`
	CreditAmount     *float64 `json:"credit_amount"`
	DebitAmount      *float64 `json:"debit_amount"`
	ClosingBalance   *float64 `json:"closing_balance"`
}

func (c *VendorController) Create(w http.ResponseWriter, r *http.Request) {
	var body vendorRequest
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	if body.VendorName == "" || body.VendorCode == "" {
		writeValidation(w, "vendor_name and vendor_code are required")
		return
	}
	if body.Email != nil && *body.Email != "" {
		res := contact.ExtractEmails(*body.Email)
		if res.Primary == "" {
			writeValidation(w, "no valid email address in: "+*body.Email)
			return
		}
	}

	vendor := &model.Vendor{
		VendorName:       body.VendorName,
		VendorCode:       body.VendorCode,
		Email:            body.Email,
		Phone:            body.Phone,
		MSMEStatus:       body.MSMEStatus,
		MSMECategory:     body.MSMECategory,
		BusinessCategory: body.BusinessCategory,
		GroupCategory:    body.GroupCategory,
		Location:         body.Location,
		UdyamNumber:      body.UdyamNumber,
		OpeningBalance:   body.OpeningBalance,
		CreditAmount:     body.CreditAmount,
		DebitAmount:      body.DebitAmount,
		ClosingBalance:   body.ClosingBalance,
	}
	if err := c.Repo.Create(vendor); err != nil {
		writeError(w, err)
		return
	}
	c.Log.Info("vendor created", zap.String("vendor_code", vendor.VendorCode))
	writeJSON(w, http.StatusCreated, vendor)
}

// Update applies a partial update; absent fields keep their stored value.
// The vendor code itself is immutable once assigned.
func (c *VendorController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid vendor id")
		return
	}
	var body vendorRequest
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}

	patch := &repository.VendorPatch{
		Email:            body.Email,
		Phone:            body.Phone,
		MSMEStatus:       body.MSMEStatus,
		MSMECategory:     body.MSMECategory,
		BusinessCategory: body.BusinessCategory,
		GroupCategory:    body.GroupCategory,
		Location:         body.Location,
		UdyamNumber:      body.UdyamNumber,
		OpeningBalance:   body.OpeningBalance,
		CreditAmount:     body.CreditAmount,
		DebitAmount:      body.DebitAmount,
		ClosingBalance:   body.ClosingBalance,
	}
	if body.VendorName != "" {
		patch.VendorName = &body.VendorName
	}

	vendor, err := c.Repo.Update(id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	if vendor == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "vendor not found"})
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (c *VendorController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeValidation(w, "invalid vendor id")
		return
	}
	if err := c.Repo.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "vendor deleted"})
}

func (c *VendorController) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		VendorIDs []string `json:"vendor_ids"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	if len(body.VendorIDs) == 0 {
		writeValidation(w, "vendor_ids is required")
		return
	}
	ids := make([]uuid.UUID, 0, len(body.VendorIDs))
	for _, raw := range body.VendorIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeValidation(w, "invalid vendor id: "+raw)
			return
		}
		ids = append(ids, id)
	}

	deleted, err := c.Repo.BulkDelete(ids)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

// ExportXLSX streams every vendor as a spreadsheet download.
func (c *VendorController) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	name := "vendors_" + time.Now().Format("20060102_150405") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := c.Export.ExportVendors(w); err != nil {
		c.Log.Error("vendor export failed", zap.Error(err))
	}
}
