package model

import (
	"time"

	"github.com/google/uuid"
)

// Campaign status values.
const (
	CampaignDraft     = "Draft"
	CampaignActive    = "Active"
	CampaignCompleted = "Completed"
	CampaignCancelled = "Cancelled"
)

type Campaign struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Description        *string    `db:"description" json:"description,omitempty"`
	Status             string     `db:"status" json:"status"`
	EmailTemplateID    *uuid.UUID `db:"email_template_id" json:"email_template_id,omitempty"`
	WhatsAppTemplateID *uuid.UUID `db:"whatsapp_template_id" json:"whatsapp_template_id,omitempty"`
	FormID             *uuid.UUID `db:"form_id" json:"form_id,omitempty"`
	TargetVendors      []string   `db:"target_vendors" json:"target_vendors"`
	Deadline           *time.Time `db:"deadline" json:"deadline,omitempty"`
	CreatedBy          *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
