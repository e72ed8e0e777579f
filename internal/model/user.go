package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleAdmin           = "admin"
	RoleCampaignManager = "campaign_manager"
	RoleViewer          = "viewer"
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         string    `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
