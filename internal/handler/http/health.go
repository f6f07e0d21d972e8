// Package http holds the HTTP plumbing shared by the API handlers: request
// logging, panic recovery, body limits, per-IP rate limiting, request
// timeouts, health and metrics endpoints.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"postboard/internal/handler/http/respond"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"

	healthCheckTimeout = 3 * time.Second
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version,omitempty"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthChecker is a dependency that can report its own reachability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// BreakerStateReporter exposes a circuit breaker's state.
type BreakerStateReporter interface {
	State() gobreaker.State
}

// HealthHandler reports database and object store reachability.
// Only the database decides between 200 and 503; a failing object store or
// an open breaker makes the service "degraded" since reads still work.
type HealthHandler struct {
	DB          *sql.DB
	ObjectStore HealthChecker
	Breakers    map[string]BreakerStateReporter
	Version     string
	Logger      *slog.Logger

	now func() time.Time
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := make(map[string]CheckStatus)
	status := statusHealthy

	db := h.checkDatabase(ctx)
	checks["database"] = db
	if db.Status == statusUnhealthy {
		status = statusUnhealthy
	}

	if h.ObjectStore != nil {
		store := h.checkObjectStore(ctx)
		checks["object_store"] = store
		if store.Status != statusHealthy && status == statusHealthy {
			status = statusDegraded
		}
	}

	for name, b := range h.Breakers {
		check := breakerCheck(b.State())
		checks["breaker_"+name] = check
		if check.Status != statusHealthy && status == statusHealthy {
			status = statusDegraded
		}
	}

	code := http.StatusOK
	if status == statusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: h.clock().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if h.DB == nil {
		return CheckStatus{Status: statusUnhealthy, Message: "not configured"}
	}
	if err := h.DB.PingContext(ctx); err != nil {
		h.logger().WarnContext(ctx, "health: database ping failed", slog.String("error", respond.SanitizeError(err)))
		return CheckStatus{Status: statusUnhealthy, Message: "database unreachable"}
	}

	stats := h.DB.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}

	if stats.MaxOpenConnections > 0 {
		utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
		details["utilization_percent"] = utilization
		if utilization >= 80.0 {
			return CheckStatus{
				Status:  statusDegraded,
				Message: "connection pool utilization above 80%",
				Details: details,
			}
		}
	}

	return CheckStatus{Status: statusHealthy, Details: details}
}

func (h *HealthHandler) checkObjectStore(ctx context.Context) CheckStatus {
	if err := h.ObjectStore.HealthCheck(ctx); err != nil {
		h.logger().WarnContext(ctx, "health: object store check failed", slog.String("error", respond.SanitizeError(err)))
		return CheckStatus{Status: statusUnhealthy, Message: "object store unreachable"}
	}
	return CheckStatus{Status: statusHealthy}
}

func breakerCheck(state gobreaker.State) CheckStatus {
	details := map[string]any{"state": state.String()}
	switch state {
	case gobreaker.StateOpen:
		return CheckStatus{Status: statusUnhealthy, Message: "circuit open", Details: details}
	case gobreaker.StateHalfOpen:
		return CheckStatus{Status: statusDegraded, Message: "circuit half-open", Details: details}
	default:
		return CheckStatus{Status: statusHealthy, Details: details}
	}
}

func (h *HealthHandler) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}

func (h *HealthHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LiveHandler answers liveness probes without touching dependencies.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
