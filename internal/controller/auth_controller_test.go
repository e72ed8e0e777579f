package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/unclebandit/campaigncentral-backend/internal/auth"
	"github.com/unclebandit/campaigncentral-backend/internal/model"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
)

type stubUserRepo struct {
	users map[string]*model.User
}

func (s *stubUserRepo) GetByEmail(email string) (*model.User, error) { return s.users[email], nil }

func (s *stubUserRepo) GetByID(id uuid.UUID) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepo) Create(u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.users[u.Email] = u
	return nil
}

var _ repository.UserRepositoryInterface = (*stubUserRepo)(nil)

func newAuthController(t *testing.T) (*AuthController, *stubUserRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &stubUserRepo{users: map[string]*model.User{
		"admin@example.com": {
			ID: uuid.New(), Email: "admin@example.com", PasswordHash: string(hash),
			FullName: "Admin", Role: model.RoleAdmin, IsActive: true,
		},
	}}
	return &AuthController{
		UserRepo:   repo,
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
		Log:        zap.NewNop(),
	}, repo
}

func TestLoginSuccess(t *testing.T) {
	c, _ := newAuthController(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@example.com","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	c.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "bearer", out.TokenType)

	claims, err := auth.ValidateToken("test-secret", out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	c, _ := newAuthController(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	c.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestLoginUnknownUser(t *testing.T) {
	c, _ := newAuthController(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"nobody@example.com","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	c.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginInactiveUser(t *testing.T) {
	c, repo := newAuthController(t)
	repo.users["admin@example.com"].IsActive = false

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@example.com","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	c.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterDefaultsToViewer(t *testing.T) {
	c, repo := newAuthController(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"new@example.com","password":"pw123456","full_name":"New User"}`))
	rec := httptest.NewRecorder()
	c.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	created := repo.users["new@example.com"]
	require.NotNil(t, created)
	assert.Equal(t, model.RoleViewer, created.Role)
	assert.True(t, created.IsActive)
	assert.NotEqual(t, "pw123456", created.PasswordHash)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	c, _ := newAuthController(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"new@example.com","password":"pw123456","role":"superuser"}`))
	rec := httptest.NewRecorder()
	c.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
