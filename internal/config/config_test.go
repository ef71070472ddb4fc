package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/slotfinder/internal/availability"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slotfinder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 7, cfg.HorizonDays)
	assert.Equal(t, 5, cfg.MaxSuggestions)
	assert.Equal(t, availability.AnyTime, cfg.Preference())
	assert.Equal(t, 10*time.Second, cfg.CalendarFetchTimeout)
	assert.Equal(t, 30*time.Second, cfg.AggregateTimeout)
	assert.Equal(t, 15*time.Minute, cfg.NearbyBuffer)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.NotNil(t, cfg.ICS)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
timezone: Europe/Berlin
horizon_days: 14
default_preference: Morning
exclude_weekends: true
calendar_fetch_timeout: 2s
aggregate_timeout: 5s
ics:
  - id: team
    name: Team
    path: /tmp/team.ics
  - path: /tmp/personal.ics
    primary: true
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
	assert.Equal(t, 14, cfg.HorizonDays)
	assert.Equal(t, 5, cfg.MaxSuggestions, "missing fields keep defaults")
	assert.Equal(t, availability.Morning, cfg.Preference())
	assert.True(t, cfg.ExcludeWeekends)
	assert.Equal(t, 2*time.Second, cfg.CalendarFetchTimeout)
	assert.Equal(t, 5*time.Second, cfg.AggregateTimeout)
	require.Len(t, cfg.ICS, 2)
	assert.Equal(t, "team", cfg.ICS[0].ID)
	assert.True(t, cfg.ICS[1].Primary)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvPathAndOverrides(t *testing.T) {
	path := writeConfig(t, "timezone: Asia/Seoul\n")
	t.Setenv(EnvConfigPath, path)
	t.Setenv("SLOTFINDER_HORIZON_DAYS", "3")
	t.Setenv("SLOTFINDER_NEARBY_BUFFER", "5m")
	t.Setenv("SLOTFINDER_EXCLUDE_WEEKENDS", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, 3, cfg.HorizonDays)
	assert.Equal(t, 5*time.Minute, cfg.NearbyBuffer)
	assert.True(t, cfg.ExcludeWeekends)
}

func TestLoad_ZeroNearbyBuffer(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	cfg, err := Load(writeConfig(t, "nearby_buffer: 0s\n"))
	require.NoError(t, err)
	assert.Zero(t, cfg.NearbyBuffer)

	_, err = Load(writeConfig(t, "nearby_buffer: -5m\n"))
	assert.ErrorContains(t, err, "must not be negative")

	t.Setenv("SLOTFINDER_NEARBY_BUFFER", "0")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Zero(t, cfg.NearbyBuffer)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr string
	}{
		{name: "bad yaml", content: "timezone: [", wantErr: "failed to parse config"},
		{name: "bad timezone", content: "timezone: Mars/Olympus", wantErr: "invalid timezone"},
		{name: "horizon too large", content: "horizon_days: 90", wantErr: "horizon_days"},
		{name: "negative horizon", content: "horizon_days: -1", wantErr: "horizon_days"},
		{name: "bad preference", content: "default_preference: night", wantErr: "default_preference"},
		{name: "fetch exceeds aggregate", content: "calendar_fetch_timeout: 1m\naggregate_timeout: 10s", wantErr: "must not exceed"},
		{name: "ics without path", content: "ics:\n  - id: a", wantErr: "path is required"},
		{name: "duplicate ics id", content: "ics:\n  - id: a\n    path: x\n  - id: a\n    path: y", wantErr: "duplicate id"},
		{name: "bad log format", content: "log:\n  format: xml", wantErr: "log.format"},
		{name: "bad env int", content: "", env: map[string]string{"SLOTFINDER_HORIZON_DAYS": "seven"}, wantErr: "SLOTFINDER_HORIZON_DAYS"},
		{name: "bad env duration", content: "", env: map[string]string{"SLOTFINDER_AGGREGATE_TIMEOUT": "soon"}, wantErr: "SLOTFINDER_AGGREGATE_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}
