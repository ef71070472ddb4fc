package availability

import "time"

// DisplayLayout is the layout used for human readable times.
const DisplayLayout = "Mon, Jan 2 at 3:04 PM"

// FormatDisplay renders t in loc using DisplayLayout. A nil loc uses UTC.
func FormatDisplay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayLayout)
}
