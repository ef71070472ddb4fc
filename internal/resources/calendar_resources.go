package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/slotfinder/internal/google"
	"github.com/teemow/slotfinder/internal/server"
)

const (
	// CalendarsURI lists the calendars of the default account.
	CalendarsURI = "slotfinder://calendars"
	// SettingsURI exposes the effective search settings.
	SettingsURI = "slotfinder://settings"
)

type calendarEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TimeZone string `json:"timeZone,omitempty"`
	Primary  bool   `json:"primary"`
}

type settings struct {
	Source            string `json:"source"`
	Mode              string `json:"mode"`
	Timezone          string `json:"timezone"`
	HorizonDays       int    `json:"horizonDays"`
	MaxSuggestions    int    `json:"maxSuggestions"`
	DefaultPreference string `json:"defaultPreference"`
	ExcludeWeekends   bool   `json:"excludeWeekends"`
	NearbyBuffer      string `json:"nearbyBuffer"`
}

// RegisterCalendarResources registers the calendar list and settings resources.
func RegisterCalendarResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	calendarsResource := mcp.NewResource(
		CalendarsURI,
		"Calendars",
		mcp.WithResourceDescription("Calendars readable by the default account, primary first"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(calendarsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleCalendars(ctx, request, sc)
	})

	settingsResource := mcp.NewResource(
		SettingsURI,
		"Scheduling Settings",
		mcp.WithResourceDescription("Effective search settings used by the reschedule tools"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(settingsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleSettings(ctx, request, sc)
	})

	return nil
}

func handleCalendars(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	cals, err := sc.Service().ListCalendars(ctx, google.DefaultAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	entries := make([]calendarEntry, 0, len(cals))
	for _, c := range cals {
		entries = append(entries, calendarEntry{
			ID:       c.ID,
			Name:     c.Name(),
			TimeZone: c.TimeZone,
			Primary:  c.Primary,
		})
	}

	return jsonContents(request.Params.URI, map[string]interface{}{
		"account":   google.DefaultAccount,
		"source":    sc.Source(),
		"calendars": entries,
	})
}

func handleSettings(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	cfg := sc.Service().Config()

	mode := "read-write"
	if sc.ReadOnly() {
		mode = "read-only"
	}

	return jsonContents(request.Params.URI, settings{
		Source:            sc.Source(),
		Mode:              mode,
		Timezone:          cfg.Timezone,
		HorizonDays:       cfg.HorizonDays,
		MaxSuggestions:    cfg.MaxSuggestions,
		DefaultPreference: cfg.DefaultPreference,
		ExcludeWeekends:   cfg.ExcludeWeekends,
		NearbyBuffer:      cfg.NearbyBuffer.String(),
	})
}

func jsonContents(uri string, v interface{}) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
