package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/slotfinder/internal/availability"
	"github.com/teemow/slotfinder/internal/instrumentation"
	"github.com/teemow/slotfinder/internal/scheduling"
)

// calendarsProvider only answers ListCalendars.
type calendarsProvider struct {
	calendars []availability.CalendarRef
}

func (p calendarsProvider) ListCalendars(context.Context) ([]availability.CalendarRef, error) {
	return p.calendars, nil
}

func (calendarsProvider) GetCalendar(context.Context, string) (*availability.CalendarRef, error) {
	return nil, scheduling.ErrCalendarNotFound
}

func (calendarsProvider) ListEvents(context.Context, string, time.Time, time.Time) ([]availability.Event, error) {
	return nil, nil
}

func (calendarsProvider) GetEvent(context.Context, string, string) (*availability.Event, error) {
	return nil, scheduling.ErrEventNotFound
}

func (calendarsProvider) PatchEvent(context.Context, string, string, time.Time, time.Time) (*availability.Event, error) {
	return nil, errors.New("read-only")
}

func newServerContextWithFactory(t *testing.T, factory scheduling.ProviderFactory, source string, readOnly bool) *ServerContext {
	t.Helper()
	sc, err := NewServerContext(context.Background(), scheduling.NewService(factory, nil), source, readOnly)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newTestServerContext(t *testing.T, readOnly bool) *ServerContext {
	t.Helper()
	p := calendarsProvider{calendars: []availability.CalendarRef{{ID: "work", Primary: true}, {ID: "family"}}}
	factory := scheduling.ProviderFactoryFunc(func(context.Context, string) (scheduling.Provider, error) {
		return p, nil
	})
	return newServerContextWithFactory(t, factory, instrumentation.ProviderICS, readOnly)
}

func TestNewServerContext_RequiresService(t *testing.T) {
	_, err := NewServerContext(context.Background(), nil, "google", true)
	assert.Error(t, err)
}

func TestServerContext_Accessors(t *testing.T) {
	sc := newTestServerContext(t, true)

	assert.NotNil(t, sc.Service())
	assert.Equal(t, "ics", sc.Source())
	assert.True(t, sc.ReadOnly())
	assert.Nil(t, sc.Metrics())
	assert.Nil(t, sc.AuditLogger())

	audit := instrumentation.NewAuditLogger(nil, instrumentation.AuditLoggingConfig{Enabled: true})
	sc.SetAuditLogger(audit)
	assert.Same(t, audit, sc.AuditLogger())
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := newTestServerContext(t, false)

	assert.False(t, sc.IsShutdown())
	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.Error(t, sc.Context().Err())

	// second call is a no-op
	assert.NoError(t, sc.Shutdown())
}
