package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/slotfinder/internal/availability"
	"github.com/teemow/slotfinder/internal/google"
	"github.com/teemow/slotfinder/internal/instrumentation"
	"github.com/teemow/slotfinder/internal/scheduling"
)

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(nil)
	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHealthChecker_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		shutdown   bool
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name:       "ready",
			ready:      true,
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"ready": "ok", "shutdown": "ok", "calendars": "ok"},
		},
		{
			name:       "not ready",
			ready:      false,
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"ready": "not ready", "shutdown": "ok"},
		},
		{
			name:       "shutting down",
			ready:      true,
			shutdown:   true,
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"ready": "ok", "shutdown": "shutting down"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestServerContext(t, true)
			h := NewHealthChecker(sc)
			h.SetReady(tt.ready)
			if tt.shutdown {
				require.NoError(t, sc.Shutdown())
			}

			rec := httptest.NewRecorder()
			h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantChecks, resp.Checks)
		})
	}
}

func TestHealthChecker_Detailed(t *testing.T) {
	tests := []struct {
		name     string
		readOnly bool
		wantMode string
	}{
		{name: "read-only", readOnly: true, wantMode: "read-only"},
		{name: "read-write", readOnly: false, wantMode: "read-write"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthChecker(newTestServerContext(t, tt.readOnly))
			rec := httptest.NewRecorder()
			h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var resp DetailedHealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "ok", resp.Status)
			assert.Equal(t, "ics", resp.Source)
			assert.Equal(t, tt.wantMode, resp.Mode)
			assert.NotEmpty(t, resp.Uptime)
			assert.Equal(t, "ok", resp.CalendarStatus)
			assert.Equal(t, 2, resp.Calendars)
		})
	}
}

func TestHealthChecker_CalendarBackend(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCheck  string
	}{
		{
			name:       "ics file unreadable",
			err:        errors.New("open work.ics: no such file or directory"),
			wantStatus: http.StatusServiceUnavailable,
			wantCheck:  "unavailable",
		},
		{
			name:       "google token missing",
			err:        fmt.Errorf("failed to get Google OAuth token for account default: %w", google.ErrTokenNotFound),
			wantStatus: http.StatusOK,
			wantCheck:  "awaiting authorization",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := scheduling.ProviderFactoryFunc(func(context.Context, string) (scheduling.Provider, error) {
				return nil, tt.err
			})
			h := NewHealthChecker(newServerContextWithFactory(t, factory, instrumentation.ProviderGoogle, true))

			rec := httptest.NewRecorder()
			h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCheck, resp.Checks["calendars"])

			rec = httptest.NewRecorder()
			h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var detailed DetailedHealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detailed))
			assert.Equal(t, tt.wantCheck, detailed.CalendarStatus)
			assert.Zero(t, detailed.Calendars)
		})
	}
}

func TestHealthChecker_CalendarCheckIsCached(t *testing.T) {
	calls := 0
	failing := true
	factory := scheduling.ProviderFactoryFunc(func(context.Context, string) (scheduling.Provider, error) {
		calls++
		if failing {
			return nil, errors.New("backend down")
		}
		return calendarsProvider{calendars: []availability.CalendarRef{{ID: "work"}}}, nil
	})
	h := NewHealthChecker(newServerContextWithFactory(t, factory, instrumentation.ProviderICS, true))
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	ready := func() int {
		rec := httptest.NewRecorder()
		h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusServiceUnavailable, ready())
	failing = false
	assert.Equal(t, http.StatusServiceUnavailable, ready(), "cached result within the TTL")
	assert.Equal(t, 1, calls)

	now = now.Add(calendarCheckTTL)
	assert.Equal(t, http.StatusOK, ready())
	assert.Equal(t, 2, calls)
}
