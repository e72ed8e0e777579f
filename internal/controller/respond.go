package controller

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appErrors "github.com/unclebandit/campaigncentral-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError translates domain errors to their HTTP status: validation and
// guard failures 400, not-found 404, conflicts 409, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case appErrors.IsValidation(err), appErrors.IsGuard(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case appErrors.IsNotFound(err), errors.Is(err, sql.ErrNoRows):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case appErrors.IsConflict(err):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func writeValidation(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// urlUUID parses the {id} (or other named) route parameter.
func urlUUID(r *http.Request, param string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, param))
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// pagination reads page/page_size query params with the usual clamping.
func pagination(r *http.Request) (offset, limit int) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 50)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return (page - 1) * pageSize, pageSize
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func paginationMeta(offset, limit, total int) map[string]int {
	totalPages := (total + limit - 1) / limit
	return map[string]int{
		"page":        offset/limit + 1,
		"page_size":   limit,
		"total_count": total,
		"total_pages": totalPages,
	}
}
