package availability

import (
	"fmt"
	"sort"
	"time"
)

const (
	baseScore           = 100
	dayOffsetPenalty    = 5
	preferenceBonus     = 20
	businessHoursBonus  = 10
	optimalTimeBonus    = 5
	reasonBusinessHours = "Business hours"
	reasonOptimalTime   = "Optimal time"
	reasonTomorrow      = "Tomorrow"
)

var (
	businessHours = TimeWindow{StartHour: 9, EndHour: 17}
	optimalHours  = TimeWindow{StartHour: 10, EndHour: 16}
)

// Score rates a slot. Sooner slots, slots inside the preferred window and
// slots during business hours score higher. The reason names the first bonus
// that applied, or the day when none did.
func Score(slot CandidateSlot, preference TimeOfDayPreference) (int, string) {
	score := baseScore - dayOffsetPenalty*slot.DayOffset
	reason := ""
	hour := slot.Start.Hour()

	if preference != AnyTime && preference != "" && preference.Window().Contains(hour) {
		score += preferenceBonus
		reason = preference.Label()
	}
	if businessHours.Contains(hour) {
		score += businessHoursBonus
		if reason == "" {
			reason = reasonBusinessHours
		}
	}
	if optimalHours.Contains(hour) {
		score += optimalTimeBonus
		if reason == "" {
			reason = reasonOptimalTime
		}
	}

	if reason == "" {
		if slot.DayOffset == 1 {
			reason = reasonTomorrow
		} else {
			reason = fmt.Sprintf("%s, %d days from now", slot.DayOfWeek, slot.DayOffset)
		}
	}
	return score, reason
}

// RankSuggestions scores slots, orders them by score descending with ties
// going to the earlier start, and keeps at most limit entries. A limit of
// zero or less keeps everything.
func RankSuggestions(slots []CandidateSlot, preference TimeOfDayPreference, loc *time.Location, limit int) []RescheduleSuggestion {
	suggestions := make([]RescheduleSuggestion, 0, len(slots))
	for _, slot := range slots {
		score, reason := Score(slot, preference)
		suggestions = append(suggestions, RescheduleSuggestion{
			Start:          slot.Start,
			End:            slot.End,
			StartFormatted: FormatDisplay(slot.Start, loc),
			EndFormatted:   FormatDisplay(slot.End, loc),
			DayOffset:      slot.DayOffset,
			DayOfWeek:      slot.DayOfWeek.String(),
			Score:          score,
			Reason:         reason,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Start.Before(suggestions[j].Start)
	})

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
