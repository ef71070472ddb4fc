package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/slotfinder/internal/availability"
	"github.com/teemow/slotfinder/internal/instrumentation"
	"github.com/teemow/slotfinder/internal/logging"
)

const (
	defaultFetchTimeout     = 10 * time.Second
	defaultAggregateTimeout = 30 * time.Second
)

// Aggregator collects busy intervals from all calendars of a Provider.
type Aggregator struct {
	// FetchTimeout bounds each calendar's ListEvents call.
	FetchTimeout time.Duration
	// Timeout bounds the whole fan-out.
	Timeout time.Duration

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// Aggregation is the merged result of one fan-out.
type Aggregation struct {
	// Intervals are sorted by start, then end.
	Intervals []availability.BusyInterval
	// Calendars is the calendar list the fan-out visited.
	Calendars []availability.CalendarRef
	// Failed holds the ids of calendars whose events could not be fetched.
	Failed []string
}

type calendarResult struct {
	events []availability.Event
	err    error
}

// CollectBusyIntervals lists the provider's calendars and collects busy
// intervals overlapping window from all of them. Only a failure to list the
// calendars is returned as an error.
func (a *Aggregator) CollectBusyIntervals(ctx context.Context, p Provider, window TimeRange, excludeEventID string) (*Aggregation, error) {
	calendars, err := p.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	return a.CollectFromCalendars(ctx, p, calendars, window, excludeEventID), nil
}

// CollectFromCalendars fetches events from every calendar concurrently.
// Each task writes only its own result slot. Calendars that fail or time out
// contribute no intervals.
func (a *Aggregator) CollectFromCalendars(ctx context.Context, p Provider, calendars []availability.CalendarRef, window TimeRange, excludeEventID string) *Aggregation {
	start := time.Now()
	logger := logging.WithOperation(a.logger(), "scheduling.aggregate")

	ctx, span := instrumentation.StartSpan(ctx, "scheduling.aggregate",
		attribute.Int(instrumentation.SpanAttrCalendarCount, len(calendars)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, a.timeout())
	defer cancel()

	results := make([]calendarResult, len(calendars))
	var wg sync.WaitGroup
	for i, cal := range calendars {
		if cal.ID == "" {
			results[i].err = errors.New("calendar has no id")
			continue
		}
		wg.Go(func() {
			fetchCtx, cancelFetch := context.WithTimeout(ctx, a.fetchTimeout())
			defer cancelFetch()

			events, err := p.ListEvents(fetchCtx, cal.ID, window.Start, window.End)
			results[i] = calendarResult{events: events, err: err}
		})
	}
	wg.Wait()

	agg := &Aggregation{
		Intervals: []availability.BusyInterval{},
		Calendars: calendars,
	}
	for i, res := range results {
		cal := calendars[i]
		if res.err != nil {
			agg.Failed = append(agg.Failed, cal.ID)
			logger.Warn("skipping calendar after fetch failure",
				logging.CalendarID(cal.ID),
				logging.Err(res.err))
			continue
		}
		agg.Intervals = append(agg.Intervals, busyIntervals(cal.ID, res.events, excludeEventID)...)
	}

	sort.SliceStable(agg.Intervals, func(i, j int) bool {
		if !agg.Intervals[i].Start.Equal(agg.Intervals[j].Start) {
			return agg.Intervals[i].Start.Before(agg.Intervals[j].Start)
		}
		return agg.Intervals[i].End.Before(agg.Intervals[j].End)
	})

	fetched := len(calendars) - len(agg.Failed)
	a.Metrics.RecordAggregation(ctx, fetched, len(agg.Failed), time.Since(start))
	span.SetAttributes(attribute.Int(instrumentation.SpanAttrFailedCount, len(agg.Failed)))
	instrumentation.SetSpanSuccess(span)

	logger.Debug("collected busy intervals",
		slog.Int("calendars", len(calendars)),
		slog.Int("failed", len(agg.Failed)),
		slog.Int("intervals", len(agg.Intervals)),
		logging.Duration(time.Since(start)))

	return agg
}

// busyIntervals normalizes provider events into busy intervals, dropping the
// excluded event, every instance of an excluded series, and anything that
// does not block time.
func busyIntervals(calendarID string, events []availability.Event, excludeEventID string) []availability.BusyInterval {
	out := make([]availability.BusyInterval, 0, len(events))
	for _, ev := range events {
		if ev.Is(excludeEventID) {
			continue
		}
		if !ev.Blocks() {
			continue
		}
		out = append(out, availability.BusyInterval{
			Start:            ev.Start,
			End:              ev.End,
			SourceCalendarID: calendarID,
			SourceEventID:    ev.ID,
			Summary:          ev.Summary,
		})
	}
	return out
}

func (a *Aggregator) fetchTimeout() time.Duration {
	if a.FetchTimeout > 0 {
		return a.FetchTimeout
	}
	return defaultFetchTimeout
}

func (a *Aggregator) timeout() time.Duration {
	if a.Timeout > 0 {
		return a.Timeout
	}
	return defaultAggregateTimeout
}

func (a *Aggregator) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}
