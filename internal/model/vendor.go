package model

import (
	"time"

	"github.com/google/uuid"
)

// MSME status values accepted on vendors.
const (
	MSMECertified = "MSME Certified"
	MSMENon       = "Non MSME"
	MSMEPending   = "MSME Application Pending"
	MSMEOthers    = "Others"
)

type Vendor struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	VendorName       string     `db:"vendor_name" json:"vendor_name"`
	VendorCode       string     `db:"vendor_code" json:"vendor_code"`
	Email            *string    `db:"email" json:"email,omitempty"`
	Phone            *string    `db:"phone" json:"phone,omitempty"`
	MSMEStatus       *string    `db:"msme_status" json:"msme_status,omitempty"`
	MSMECategory     *string    `db:"msme_category" json:"msme_category,omitempty"`
	BusinessCategory *string    `db:"business_category" json:"business_category,omitempty"`
	GroupCategory    *string    `db:"group_category" json:"group_category,omitempty"`
	Location         *string    `db:"location" json:"location,omitempty"`
	UdyamNumber      *string    `db:"udyam_number" json:"udyam_number,omitempty"`
	OpeningBalance   *float64   `db:"opening_balance" json:"opening_balance,omitempty"`
	CreditAmount     *float64   `db:"credit_amount" json:"credit_amount,omitempty"`
	DebitAmount      *float64   `db:"debit_amount" json:"debit_amount,omitempty"`
	ClosingBalance   *float64   `db:"closing_balance" json:"closing_balance,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// TemplateVars is the substitution map used when rendering campaign
// templates for this vendor. Missing optional fields render as empty.
func (v *Vendor) TemplateVars() map[string]string {
	vars := map[string]string{
		"vendor_name": v.VendorName,
		"vendor_code": v.VendorCode,
	}
	if v.Email != nil {
		vars["email"] = *v.Email
	}
	if v.Phone != nil {
		vars["phone"] = *v.Phone
	}
	if v.Location != nil {
		vars["location"] = *v.Location
	}
	if v.MSMEStatus != nil {
		vars["msme_status"] = *v.MSMEStatus
	}
	return vars
}
