package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Response status values.
const (
	ResponsePending   = "Pending"
	ResponseSubmitted = "Submitted"
	ResponseCompleted = "Completed"
)

// CampaignResponse is one row per (campaign, vendor) pair, created lazily the
// first time an execution touches the vendor and never duplicated after that.
type CampaignResponse struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	CampaignID  uuid.UUID       `db:"campaign_id" json:"campaign_id"`
	VendorID    uuid.UUID       `db:"vendor_id" json:"vendor_id"`
	Status      string          `db:"status" json:"status"`
	FormData    json.RawMessage `db:"form_data" json:"form_data,omitempty"`
	SubmittedAt *time.Time      `db:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time      `db:"updated_at" json:"updated_at,omitempty"`
}

// SendLog is an append-only record of a dispatch attempt. Both channels log,
// so per-channel counts come from one table.
type SendLog struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CampaignID uuid.UUID `db:"campaign_id" json:"campaign_id"`
	VendorID   uuid.UUID `db:"vendor_id" json:"vendor_id"`
	Channel    string    `db:"channel" json:"channel"`
	Recipient  string    `db:"recipient" json:"recipient"`
	SentAt     time.Time `db:"sent_at" json:"sent_at"`
}
