package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	appErrors "github.com/unclebandit/campaigncentral-backend/internal/errors"
	"github.com/unclebandit/campaigncentral-backend/internal/model"
)

type UserRepositoryInterface interface {
	GetByEmail(email string) (*model.User, error)
	GetByID(id uuid.UUID) (*model.User, error)
	Create(u *model.User) error
}

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	query := `
        SELECT id, email, password_hash, full_name, role, is_active, created_at
        FROM users WHERE email=$1
    `
	var u model.User
	err := r.DB.QueryRow(query, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(id uuid.UUID) (*model.User, error) {
	query := `
        SELECT id, email, password_hash, full_name, role, is_active, created_at
        FROM users WHERE id=$1
    `
	var u model.User
	err := r.DB.QueryRow(query, id).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	query := `
        INSERT INTO users (id, email, password_hash, full_name, role, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.DB.Exec(query, u.ID, u.Email, u.PasswordHash, u.FullName, u.Role, u.IsActive, u.CreatedAt)
	return translateUniqueViolation(err, "user with email %s already exists", u.Email)
}

// translateUniqueViolation maps a postgres unique violation to a domain
// conflict error so handlers can answer 409.
func translateUniqueViolation(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return appErrors.NewConflict(format, args...)
	}
	return err
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
