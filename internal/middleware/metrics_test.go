package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/unclebandit/campaigncentral-backend/internal/metrics"
)

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	metrics.Init("mwtest")

	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/vendors/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Two different ids must land on one series.
	for _, id := range []string{"0c9adf12-9f38-4c41-a2d8-02f150b33f01", "6a0f6f5e-3a6c-4d7a-9a7d-111111111111"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vendors/"+id, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	got := testutil.ToFloat64(
		metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/vendors/{id}", "200"))
	assert.Equal(t, 2.0, got)
}
