package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teemow/slotfinder/internal/google"
)

// Health status constants for health check responses.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"

	modeReadOnly  = "read-only"
	modeReadWrite = "read-write"

	calendarStatusUnavailable  = "unavailable"
	calendarStatusAwaitingAuth = "awaiting authorization"

	// calendarCheckTTL bounds how often health checks reach the calendar backend.
	calendarCheckTTL     = 30 * time.Second
	calendarCheckTimeout = 5 * time.Second
)

// HealthChecker provides health check endpoints for Kubernetes liveness and readiness checks.
type HealthChecker struct {
	// ready indicates whether the server is ready to receive traffic
	ready atomic.Bool
	// serverContext provides access to dependencies for health checks
	serverContext *ServerContext
	// startTime tracks when the server started
	startTime time.Time

	// calendar backend check, cached for calendarCheckTTL
	calMu        sync.Mutex
	calCheckedAt time.Time
	calCount     int
	calErr       error
	now          func() time.Time
}

// NewHealthChecker creates a new HealthChecker.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
		now:           time.Now,
	}
	// Server starts as ready by default
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// isServerShuttingDown checks if the server context is shutting down.
// Returns false if serverContext is nil (safe for testing).
func (h *HealthChecker) isServerShuttingDown() bool {
	return h.serverContext != nil && h.serverContext.IsShutdown()
}

// checkCalendars lists the default account's calendars through the
// scheduling service. For ICS this re-reads the configured files; for Google
// it needs a stored token and a reachable API.
func (h *HealthChecker) checkCalendars(ctx context.Context) (int, error) {
	h.calMu.Lock()
	defer h.calMu.Unlock()

	if !h.calCheckedAt.IsZero() && h.now().Sub(h.calCheckedAt) < calendarCheckTTL {
		return h.calCount, h.calErr
	}

	ctx, cancel := context.WithTimeout(ctx, calendarCheckTimeout)
	defer cancel()
	cals, err := h.serverContext.Service().ListCalendars(ctx, "")
	h.calCheckedAt = h.now()
	h.calCount = len(cals)
	h.calErr = err
	return h.calCount, h.calErr
}

// calendarStatus maps the calendar check to a health status and whether the
// server should receive traffic. A missing Google token keeps the server
// ready so the authorization tools stay reachable.
func (h *HealthChecker) calendarStatus(ctx context.Context) (string, int, bool) {
	count, err := h.checkCalendars(ctx)
	switch {
	case err == nil:
		return healthStatusOK, count, true
	case errors.Is(err, google.ErrTokenNotFound):
		return calendarStatusAwaitingAuth, 0, true
	default:
		return calendarStatusUnavailable, 0, false
	}
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse provides comprehensive health information.
type DetailedHealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	Source string `json:"source,omitempty"`
	Mode   string `json:"mode,omitempty"`

	CalendarStatus string `json:"calendarStatus,omitempty"`
	Calendars      int    `json:"calendars"`
}

// LivenessHandler returns an HTTP handler for the /healthz endpoint.
// Liveness checks indicate whether the process should be restarted.
// This should be a simple check that the server process is running.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		response := HealthResponse{
			Status: healthStatusOK,
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// ReadinessHandler returns an HTTP handler for the /readyz endpoint.
// Readiness checks indicate whether the server is ready to receive traffic.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		checks := make(map[string]string)
		allOk := true

		// Check if server is marked as ready
		if !h.ready.Load() {
			checks["ready"] = healthStatusNotReady
			allOk = false
		} else {
			checks["ready"] = healthStatusOK
		}

		// Check if server context is not shutdown
		if h.isServerShuttingDown() {
			checks["shutdown"] = healthStatusShuttingDown
			allOk = false
		} else {
			checks["shutdown"] = healthStatusOK
		}

		if h.serverContext != nil && allOk {
			status, _, ok := h.calendarStatus(r.Context())
			checks["calendars"] = status
			allOk = ok
		}

		response := HealthResponse{
			Checks: checks,
		}

		if allOk {
			response.Status = healthStatusOK
			w.WriteHeader(http.StatusOK)
		} else {
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// RegisterHealthEndpoints registers /healthz, /readyz and /healthz/detailed.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}

// DetailedHealthHandler returns an HTTP handler for the /healthz/detailed endpoint.
// This endpoint provides comprehensive health information.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		calendarsOK := true
		response := DetailedHealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
		}
		if h.serverContext != nil {
			response.Source = h.serverContext.Source()
			response.Mode = modeReadWrite
			if h.serverContext.ReadOnly() {
				response.Mode = modeReadOnly
			}
			response.CalendarStatus, response.Calendars, calendarsOK = h.calendarStatus(r.Context())
		}

		// Determine overall status
		if !h.ready.Load() {
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		} else if h.isServerShuttingDown() {
			response.Status = healthStatusShuttingDown
			w.WriteHeader(http.StatusServiceUnavailable)
		} else if !calendarsOK {
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}
