package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Campaign dispatch metrics
	DispatchCounter *prometheus.CounterVec

	// Vendor import metrics
	ImportRowsCounter *prometheus.CounterVec
)

// Init registers all metrics under the given name prefix. Call once at
// startup before any middleware runs.
func Init(prefix string) {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of failed authentications",
		},
	)

	DispatchCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_campaign_dispatches_total",
			Help: "Total number of campaign dispatch attempts",
		},
		[]string{"channel", "outcome"},
	)

	ImportRowsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_vendor_import_rows_total",
			Help: "Total number of vendor import rows processed",
		},
		[]string{"outcome"},
	)
}

// RecordDispatch increments the dispatch counter. Safe to call before Init
// in unit tests: it becomes a no-op.
func RecordDispatch(channel, outcome string) {
	if DispatchCounter != nil {
		DispatchCounter.WithLabelValues(channel, outcome).Inc()
	}
}

// RecordImportRows adds n rows with one outcome to the import counter,
// no-op before Init.
func RecordImportRows(outcome string, n int) {
	if ImportRowsCounter != nil && n > 0 {
		ImportRowsCounter.WithLabelValues(outcome).Add(float64(n))
	}
}
