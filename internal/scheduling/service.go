package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/teemow/slotfinder/internal/availability"
	"github.com/teemow/slotfinder/internal/config"
	"github.com/teemow/slotfinder/internal/instrumentation"
	"github.com/teemow/slotfinder/internal/logging"
)

// maxDaysToSearch caps DaysToSearch on a single request.
const maxDaysToSearch = 60

// Service implements conflict checks and rescheduling for one configuration.
// It keeps no per-request state and is safe for concurrent use.
type Service struct {
	factory    ProviderFactory
	cfg        *config.Config
	aggregator *Aggregator
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service. A nil cfg uses config.DefaultConfig().
func NewService(factory ProviderFactory, cfg *config.Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Service{
		factory: factory,
		cfg:     cfg,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.aggregator = &Aggregator{
		FetchTimeout: cfg.CalendarFetchTimeout,
		Timeout:      cfg.AggregateTimeout,
		Logger:       s.logger,
		Metrics:      s.metrics,
	}
	return s
}

// Config returns the service configuration.
func (s *Service) Config() *config.Config {
	return s.cfg
}

func (s *Service) provider(ctx context.Context, account string) (Provider, error) {
	p, err := s.factory.ProviderFor(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar provider for account: %w", err)
	}
	return p, nil
}

// ListCalendars returns the calendars readable by the account, primary
// first.
func (s *Service) ListCalendars(ctx context.Context, account string) ([]availability.CalendarRef, error) {
	p, err := s.provider(ctx, account)
	if err != nil {
		return nil, err
	}
	cals, err := p.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	out := make([]availability.CalendarRef, 0, len(cals))
	out = append(out, cals...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Primary && !out[j].Primary
	})
	return out, nil
}

// CheckEventConflicts reports events on one calendar that overlap the
// proposed time range.
func (s *Service) CheckEventConflicts(ctx context.Context, req ConflictCheckRequest) (*availability.ConflictCheckResult, error) {
	window, err := ParseTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	calendarID := calendarOrPrimary(req.CalendarID)

	p, err := s.provider(ctx, req.Account)
	if err != nil {
		return nil, err
	}

	events, err := p.ListEvents(ctx, calendarID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for calendar %s: %w", calendarID, err)
	}

	loc := s.cfg.Location()
	resolve := func(id string) string {
		if id == PrimaryCalendarID {
			return "Primary"
		}
		cal, err := p.GetCalendar(ctx, id)
		if err != nil || cal == nil {
			return id
		}
		return cal.Name()
	}

	result := availability.CheckConflicts(window.Start, window.End, busyIntervals(calendarID, events, ""), resolve, loc)
	s.logger.Debug("checked conflicts",
		logging.Operation("scheduling.check_conflicts"),
		logging.CalendarID(calendarID),
		slog.Int("conflicts", len(result.ConflictingEvents)))
	return &result, nil
}

// CheckEventConflictsAllCalendars reports overlapping events across every
// readable calendar, plus events that end or start within the nearby buffer.
func (s *Service) CheckEventConflictsAllCalendars(ctx context.Context, req AllCalendarsConflictRequest) (*availability.ConflictCheckResult, error) {
	window, err := ParseTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	p, err := s.provider(ctx, req.Account)
	if err != nil {
		return nil, err
	}

	buffer := s.cfg.NearbyBuffer
	search := TimeRange{Start: window.Start.Add(-buffer), End: window.End.Add(buffer)}
	agg, err := s.aggregator.CollectBusyIntervals(ctx, p, search, req.ExcludeEventID)
	if err != nil {
		return nil, err
	}

	result := availability.CheckConflictsWithNearby(window.Start, window.End, agg.Intervals, buffer,
		availability.NamesFromCalendars(agg.Calendars), s.cfg.Location())
	return &result, nil
}

// FindRescheduleSuggestions proposes conflict-free times for an existing
// event. Event lookup problems are reported in the result; credential and
// calendar listing failures are returned as errors.
func (s *Service) FindRescheduleSuggestions(ctx context.Context, req RescheduleRequest) (*RescheduleResult, error) {
	preference, err := availability.ParseTimeOfDay(req.PreferredTimeOfDay)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if req.PreferredTimeOfDay == "" {
		preference = s.cfg.Preference()
	}
	days := req.DaysToSearch
	if days == 0 {
		days = s.cfg.HorizonDays
	}
	if days < 1 || days > maxDaysToSearch {
		return nil, fmt.Errorf("%w: daysToSearch must be between 1 and %d", ErrInvalidRequest, maxDaysToSearch)
	}
	excludeWeekends := s.cfg.ExcludeWeekends
	if req.ExcludeWeekends != nil {
		excludeWeekends = *req.ExcludeWeekends
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = s.cfg.MaxSuggestions
	}
	calendarID := calendarOrPrimary(req.CalendarID)

	logger := logging.WithOperation(s.logger, "scheduling.suggest").With(
		logging.CalendarID(calendarID), logging.EventID(req.EventID))

	p, err := s.provider(ctx, req.Account)
	if err != nil {
		return nil, err
	}

	event, err := p.GetEvent(ctx, calendarID, req.EventID)
	if err != nil || event == nil {
		logger.Info("event lookup failed", logging.Err(err))
		return &RescheduleResult{Success: false, Error: msgEventNotFound, Suggestions: []availability.RescheduleSuggestion{}}, nil
	}
	if !event.HasTimes() {
		return &RescheduleResult{Success: false, Error: msgMissingTimes, Suggestions: []availability.RescheduleSuggestion{}}, nil
	}
	duration := event.End.Sub(event.Start).Round(time.Minute)
	if duration <= 0 {
		return &RescheduleResult{Success: false, Error: msgInvalidDuration, Suggestions: []availability.RescheduleSuggestion{}}, nil
	}

	loc, err := s.searchLocation(ctx, p, calendarID, req.TimeZone)
	if err != nil {
		return nil, err
	}

	// One clock reading so the fetched window and the search agree on "tomorrow".
	now := s.now()
	searchStart := availability.SearchStart(now, loc)
	window := TimeRange{Start: searchStart, End: searchStart.AddDate(0, 0, days)}
	agg, err := s.aggregator.CollectBusyIntervals(ctx, p, window, event.ID)
	if err != nil {
		return nil, err
	}

	slots := availability.FindFreeSlots(duration, agg.Intervals, availability.SearchOptions{
		Now:             now,
		Location:        loc,
		HorizonDays:     days,
		Preference:      preference,
		ExcludeWeekends: excludeWeekends,
		MaxResults:      maxResults,
	})
	suggestions := availability.RankSuggestions(slots, preference, loc, maxResults)
	s.metrics.RecordSuggestions(ctx, string(preference), len(suggestions))

	logger.Info("computed reschedule suggestions",
		slog.Int("suggestions", len(suggestions)),
		slog.Int("busy_intervals", len(agg.Intervals)),
		slog.Int("failed_calendars", len(agg.Failed)))

	return &RescheduleResult{
		Success:     true,
		Event:       newEventInfo(event, loc),
		Suggestions: suggestions,
	}, nil
}

// searchLocation picks the zone in which days and hours are laid out: the
// requested zone, then the target calendar's zone, then the configured default.
func (s *Service) searchLocation(ctx context.Context, p Provider, calendarID, requested string) (*time.Location, error) {
	if requested != "" {
		loc, err := time.LoadLocation(requested)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown time zone %q", ErrInvalidRequest, requested)
		}
		return loc, nil
	}
	if cal, err := p.GetCalendar(ctx, calendarID); err == nil && cal != nil && cal.TimeZone != "" {
		if loc, err := time.LoadLocation(cal.TimeZone); err == nil {
			return loc, nil
		}
	}
	return s.cfg.Location(), nil
}

// ApplyReschedule moves an event to the chosen slot. Provider failures are
// reported in the result.
func (s *Service) ApplyReschedule(ctx context.Context, req ApplyRescheduleRequest) (*ApplyRescheduleResult, error) {
	window, err := ParseTimeRange(req.NewStart, req.NewEnd)
	if err != nil {
		return nil, err
	}
	if req.EventID == "" {
		return nil, fmt.Errorf("%w: eventId is required", ErrInvalidRequest)
	}
	calendarID := calendarOrPrimary(req.CalendarID)

	p, err := s.provider(ctx, req.Account)
	if err != nil {
		return nil, err
	}

	patched, err := p.PatchEvent(ctx, calendarID, req.EventID, window.Start, window.End)
	if err != nil {
		s.logger.Warn("failed to reschedule event",
			logging.CalendarID(calendarID),
			logging.EventID(req.EventID),
			logging.Err(err))
		msg := err.Error()
		if msg == "" {
			msg = msgPatchFailed
		}
		return &ApplyRescheduleResult{Success: false, Error: msg}, nil
	}

	s.logger.Info("rescheduled event",
		logging.CalendarID(calendarID),
		logging.EventID(req.EventID))
	result := &ApplyRescheduleResult{Success: true}
	if patched != nil {
		result.Event = newEventInfo(patched, s.cfg.Location())
	}
	return result, nil
}
