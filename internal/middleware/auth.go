package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/unclebandit/campaigncentral-backend/internal/auth"
	"github.com/unclebandit/campaigncentral-backend/internal/metrics"
)

// Authenticate verifies the bearer token and attaches the claims to the
// request context. A missing header is 401; a present but invalid or
// expired token is 403.
func Authenticate(secret string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if metrics.AuthAttemptsCounter != nil {
				metrics.AuthAttemptsCounter.Inc()
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				if metrics.AuthErrorsCounter != nil {
					metrics.AuthErrorsCounter.Inc()
				}
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			tokenString := header
			if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
				tokenString = header[7:]
			}

			claims, err := auth.ValidateToken(secret, tokenString)
			if err != nil {
				log.Warn("rejected token", zap.Error(err))
				if metrics.AuthErrorsCounter != nil {
					metrics.AuthErrorsCounter.Inc()
				}
				writeAuthError(w, http.StatusForbidden, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole gates a route on the authenticated user's role.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]bool{}
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok || !allowed[claims.Role] {
				writeAuthError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
