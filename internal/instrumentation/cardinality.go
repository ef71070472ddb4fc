package instrumentation

import "strings"

// ExtractUserDomain extracts the domain part from an email address so that
// metrics can be grouped per organization without one series per user.
//
//	ExtractUserDomain("jane@example.com")  // "example.com"
//	ExtractUserDomain("default")           // "unknown"
func ExtractUserDomain(email string) string {
	_, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" || strings.Contains(domain, "@") {
		return "unknown"
	}
	return domain
}

// Calendar provider operation names used as metric and span labels.
const (
	OperationListCalendars = "list_calendars"
	OperationGetCalendar   = "get_calendar"
	OperationListEvents    = "list_events"
	OperationGetEvent      = "get_event"
	OperationPatchEvent    = "patch_event"
)
