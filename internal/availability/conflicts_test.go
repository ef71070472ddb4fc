package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConflicts_PartialOverlap(t *testing.T) {
	busy := []BusyInterval{
		{Start: at(10, 0), End: at(11, 0), SourceCalendarID: "primary", SourceEventID: "evt-1", Summary: "Standup"},
	}

	result := CheckConflicts(at(10, 30), at(11, 30), busy, nil, time.UTC)

	assert.True(t, result.HasConflicts)
	require.Len(t, result.ConflictingEvents, 1)
	got := result.ConflictingEvents[0]
	assert.Equal(t, "evt-1", got.ID)
	assert.Equal(t, "Standup", got.Summary)
	assert.Equal(t, "primary", got.CalendarName)
	assert.Equal(t, "Mon, Mar 10 at 10:00 AM", got.Start)
	assert.Equal(t, "2025-03-10T11:00:00Z", got.EndTime)

	overlapStart := at(10, 30)
	overlapEnd := busy[0].End
	assert.Equal(t, 30*time.Minute, overlapEnd.Sub(overlapStart))
}

func TestCheckConflicts_Adjacent(t *testing.T) {
	busy := []BusyInterval{{Start: at(14, 0), End: at(15, 0), SourceEventID: "evt-1"}}

	result := CheckConflicts(at(15, 0), at(16, 0), busy, nil, time.UTC)

	assert.False(t, result.HasConflicts)
	assert.Empty(t, result.ConflictingEvents)
	assert.NotNil(t, result.ConflictingEvents)
}

func TestCheckConflicts_CompletenessInvariant(t *testing.T) {
	busy := []BusyInterval{
		{Start: at(9, 0), End: at(10, 0), SourceEventID: "a"},
		{Start: at(11, 0), End: at(12, 30), SourceEventID: "b"},
		{Start: at(12, 0), End: at(13, 0), SourceEventID: "c"},
	}

	for h := 7; h < 15; h++ {
		result := CheckConflicts(at(h, 0), at(h+1, 0), busy, nil, time.UTC)
		assert.Equal(t, len(result.ConflictingEvents) > 0, result.HasConflicts, "hour %d", h)
	}

	result := CheckConflicts(at(11, 30), at(12, 15), busy, nil, time.UTC)
	assert.Len(t, result.ConflictingEvents, 2)
}

func TestCheckConflicts_ResolvesNamesOncePerCalendar(t *testing.T) {
	busy := []BusyInterval{
		{Start: at(10, 0), End: at(11, 0), SourceCalendarID: "work", SourceEventID: "a"},
		{Start: at(10, 15), End: at(10, 45), SourceCalendarID: "work", SourceEventID: "b"},
		{Start: at(10, 0), End: at(12, 0), SourceCalendarID: "family", SourceEventID: "c"},
	}

	calls := map[string]int{}
	resolve := func(id string) string {
		calls[id]++
		if id == "work" {
			return "Work"
		}
		return ""
	}

	result := CheckConflicts(at(10, 0), at(11, 0), busy, resolve, time.UTC)

	require.Len(t, result.ConflictingEvents, 3)
	assert.Equal(t, "Work", result.ConflictingEvents[0].CalendarName)
	assert.Equal(t, "Work", result.ConflictingEvents[1].CalendarName)
	assert.Equal(t, "family", result.ConflictingEvents[2].CalendarName)
	assert.Equal(t, 1, calls["work"])
	assert.Equal(t, 1, calls["family"])
}

func TestCheckConflicts_DefaultSummary(t *testing.T) {
	busy := []BusyInterval{{Start: at(10, 0), End: at(11, 0), SourceEventID: "a"}}

	result := CheckConflicts(at(10, 0), at(11, 0), busy, nil, time.UTC)

	require.Len(t, result.ConflictingEvents, 1)
	assert.Equal(t, DefaultEventSummary, result.ConflictingEvents[0].Summary)
}

func TestCheckConflictsWithNearby(t *testing.T) {
	busy := []BusyInterval{
		{Start: at(9, 0), End: at(9, 50), SourceEventID: "ends-just-before"},
		{Start: at(8, 0), End: at(9, 30), SourceEventID: "ends-too-early"},
		{Start: at(10, 30), End: at(11, 30), SourceEventID: "overlapping"},
		{Start: at(11, 0), End: at(11, 30), SourceEventID: "starts-at-end"},
		{Start: at(11, 15), End: at(12, 0), SourceEventID: "starts-too-late"},
	}

	result := CheckConflictsWithNearby(at(10, 0), at(11, 0), busy, 15*time.Minute, nil, time.UTC)

	require.Len(t, result.ConflictingEvents, 1)
	assert.Equal(t, "overlapping", result.ConflictingEvents[0].ID)

	var nearby []string
	for _, e := range result.NearbyEvents {
		nearby = append(nearby, e.ID)
	}
	assert.Equal(t, []string{"ends-just-before", "starts-at-end"}, nearby)
}

func TestNamesFromCalendars(t *testing.T) {
	resolve := NamesFromCalendars([]CalendarRef{
		{ID: "primary", DisplayName: "me@example.com"},
		{ID: "holidays"},
	})

	assert.Equal(t, "me@example.com", resolve("primary"))
	assert.Equal(t, "holidays", resolve("holidays"))
	assert.Equal(t, "", resolve("unknown"))
}
