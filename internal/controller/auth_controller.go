package controller

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/unclebandit/campaigncentral-backend/internal/auth"
	"github.com/unclebandit/campaigncentral-backend/internal/model"
	"github.com/unclebandit/campaigncentral-backend/internal/repository"
)

type AuthController struct {
	UserRepo   repository.UserRepositoryInterface
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	Log        *zap.Logger
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	if body.Email == "" || body.Password == "" {
		writeValidation(w, "email and password are required")
		return
	}

	user, err := c.UserRepo.GetByEmail(body.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil || !user.IsActive {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		c.Log.Warn("failed login attempt", zap.String("email", body.Email))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(c.JWTSecret, c.TokenTTL, user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// Register creates a new staff account. Admin-only; mounted behind
// RequireRole(admin).
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	if body.Email == "" || body.Password == "" {
		writeValidation(w, "email and password are required")
		return
	}
	switch body.Role {
	case model.RoleAdmin, model.RoleCampaignManager, model.RoleViewer:
	case "":
		body.Role = model.RoleViewer
	default:
		writeValidation(w, "unknown role: "+body.Role)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), c.BcryptCost)
	if err != nil {
		writeError(w, err)
		return
	}

	user := &model.User{
		Email:        body.Email,
		PasswordHash: string(hash),
		FullName:     body.FullName,
		Role:         body.Role,
		IsActive:     true,
	}
	if err := c.UserRepo.Create(user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	user, err := c.UserRepo.GetByID(claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}
