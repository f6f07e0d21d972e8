package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels for auth_requests_total.
const (
	resultSuccess  = "success"
	resultMissing  = "missing"
	resultInvalid  = "invalid"
	resultExpired  = "expired"
	resultRejected = "rejected"
	resultError    = "error"
)

var (
	// authRequestsTotal counts identity operations and gate checks by result.
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total authentication requests by operation and result",
		},
		[]string{"operation", "result"},
	)

	// authDuration tracks signup and login latency; bcrypt dominates it.
	authDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_duration_seconds",
			Help:    "Authentication duration by operation",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"operation"},
	)

	// authzCheckDuration tracks the bearer token check in Gate.
	authzCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "authz_check_duration_seconds",
			Help:    "Authorization check duration",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)
)

// RecordAuthRequest records an authentication request.
func RecordAuthRequest(operation, result string) {
	authRequestsTotal.WithLabelValues(operation, result).Inc()
}

// RecordAuthDuration records authentication duration.
func RecordAuthDuration(operation string, durationSeconds float64) {
	authDuration.WithLabelValues(operation).Observe(durationSeconds)
}

// RecordAuthzCheckDuration records authorization check duration.
func RecordAuthzCheckDuration(durationSeconds float64) {
	authzCheckDuration.Observe(durationSeconds)
}
