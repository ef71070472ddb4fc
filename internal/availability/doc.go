// Package availability implements the pure part of the scheduling engine:
// interval overlap, conflict detection, free-slot search and slot scoring.
//
// Nothing in this package performs I/O. Busy intervals are collected by the
// scheduling package and handed in, which keeps every function here
// deterministic for a given clock and location.
//
// Example usage:
//
//	slots := availability.FindFreeSlots(time.Hour, busy, availability.SearchOptions{
//	    Location:   loc,
//	    Preference: availability.Morning,
//	})
//	suggestions := availability.RankSuggestions(slots, availability.Morning, loc, 5)
package availability
