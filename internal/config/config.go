// Package config loads the scheduling engine configuration from a YAML file
// and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teemow/slotfinder/internal/availability"
)

const (
	// EnvConfigPath names the config file when --config is not given.
	EnvConfigPath = "SLOTFINDER_CONFIG"

	maxHorizonDays = 60
)

// ICSSource is a local iCalendar file served as a read-only calendar.
type ICSSource struct {
	// ID is the calendar id reported to the engine. Defaults to the file name.
	ID string `yaml:"id"`
	// Name is the display name. Defaults to X-WR-CALNAME or the id.
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	// Primary marks the calendar that stands in for "primary".
	Primary bool `yaml:"primary"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Config is the engine configuration.
type Config struct {
	// Timezone is the IANA zone used when neither the request nor the
	// calendar names one.
	Timezone string `yaml:"timezone"`

	HorizonDays       int    `yaml:"horizon_days"`
	MaxSuggestions    int    `yaml:"max_suggestions"`
	DefaultPreference string `yaml:"default_preference"`
	ExcludeWeekends   bool   `yaml:"exclude_weekends"`

	// CalendarFetchTimeout bounds a single calendar's event listing.
	CalendarFetchTimeout time.Duration `yaml:"calendar_fetch_timeout"`
	// AggregateTimeout bounds the whole multi-calendar fan-out.
	AggregateTimeout time.Duration `yaml:"aggregate_timeout"`
	// NearbyBuffer is the back-to-back window reported by the all-calendars
	// check. Zero turns nearby reporting off.
	NearbyBuffer time.Duration `yaml:"nearby_buffer"`

	ICS []ICSSource `yaml:"ics"`
	Log LogConfig   `yaml:"log"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Timezone:             "UTC",
		HorizonDays:          availability.DefaultHorizonDays,
		MaxSuggestions:       availability.DefaultMaxResults,
		DefaultPreference:    string(availability.AnyTime),
		CalendarFetchTimeout: 10 * time.Second,
		AggregateTimeout:     30 * time.Second,
		NearbyBuffer:         15 * time.Minute,
		ICS:                  []ICSSource{},
		Log:                  LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path, applies environment overrides, fills defaults and
// validates the result. An empty path falls back to $SLOTFINDER_CONFIG and
// then to the defaults alone.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from SLOTFINDER_* environment variables.
func (c *Config) ApplyEnv() error {
	var errs []error

	c.Timezone = getEnvOrDefault("SLOTFINDER_TIMEZONE", c.Timezone)
	c.DefaultPreference = getEnvOrDefault("SLOTFINDER_DEFAULT_PREFERENCE", c.DefaultPreference)
	c.Log.Level = getEnvOrDefault("SLOTFINDER_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("SLOTFINDER_LOG_FORMAT", c.Log.Format)

	if v := os.Getenv("SLOTFINDER_HORIZON_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SLOTFINDER_HORIZON_DAYS: %w", err))
		}
		c.HorizonDays = n
	}
	if v := os.Getenv("SLOTFINDER_MAX_SUGGESTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SLOTFINDER_MAX_SUGGESTIONS: %w", err))
		}
		c.MaxSuggestions = n
	}
	if v := os.Getenv("SLOTFINDER_EXCLUDE_WEEKENDS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SLOTFINDER_EXCLUDE_WEEKENDS: %w", err))
		}
		c.ExcludeWeekends = b
	}
	for key, field := range map[string]*time.Duration{
		"SLOTFINDER_CALENDAR_FETCH_TIMEOUT": &c.CalendarFetchTimeout,
		"SLOTFINDER_AGGREGATE_TIMEOUT":      &c.AggregateTimeout,
		"SLOTFINDER_NEARBY_BUFFER":          &c.NearbyBuffer,
	} {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				continue
			}
			*field = d
		}
	}

	return errors.Join(errs...)
}

// Normalize fills zero values with defaults so that partial files behave.
// NearbyBuffer is left alone since zero is a meaningful setting.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.HorizonDays == 0 {
		c.HorizonDays = def.HorizonDays
	}
	if c.MaxSuggestions == 0 {
		c.MaxSuggestions = def.MaxSuggestions
	}
	if c.DefaultPreference == "" {
		c.DefaultPreference = def.DefaultPreference
	}
	c.DefaultPreference = strings.ToLower(c.DefaultPreference)
	if c.CalendarFetchTimeout == 0 {
		c.CalendarFetchTimeout = def.CalendarFetchTimeout
	}
	if c.AggregateTimeout == 0 {
		c.AggregateTimeout = def.AggregateTimeout
	}
	if c.ICS == nil {
		c.ICS = []ICSSource{}
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// Validate checks the configuration for values the engine cannot use.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.HorizonDays < 1 || c.HorizonDays > maxHorizonDays {
		return fmt.Errorf("horizon_days must be between 1 and %d, got %d", maxHorizonDays, c.HorizonDays)
	}
	if c.MaxSuggestions < 1 {
		return fmt.Errorf("max_suggestions must be positive, got %d", c.MaxSuggestions)
	}
	if _, err := availability.ParseTimeOfDay(c.DefaultPreference); err != nil {
		return fmt.Errorf("default_preference: %w", err)
	}
	if c.CalendarFetchTimeout < 0 || c.AggregateTimeout < 0 || c.NearbyBuffer < 0 {
		return errors.New("timeouts and buffers must not be negative")
	}
	if c.CalendarFetchTimeout > c.AggregateTimeout {
		return fmt.Errorf("calendar_fetch_timeout (%s) must not exceed aggregate_timeout (%s)", c.CalendarFetchTimeout, c.AggregateTimeout)
	}
	seen := make(map[string]bool, len(c.ICS))
	for i, src := range c.ICS {
		if src.Path == "" {
			return fmt.Errorf("ics[%d]: path is required", i)
		}
		if src.ID != "" {
			if seen[src.ID] {
				return fmt.Errorf("ics[%d]: duplicate id %q", i, src.ID)
			}
			seen[src.ID] = true
		}
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Location returns the configured default time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Preference returns the configured default time-of-day preference.
func (c *Config) Preference() availability.TimeOfDayPreference {
	p, err := availability.ParseTimeOfDay(c.DefaultPreference)
	if err != nil {
		return availability.AnyTime
	}
	return p
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
