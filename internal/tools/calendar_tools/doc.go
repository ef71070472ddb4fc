// Package calendar_tools exposes conflict checks and rescheduling as MCP tools.
//
// Read tools:
//   - calendar_check_conflicts: conflicts of a proposed time on one calendar
//   - calendar_check_conflicts_all: conflicts and nearby events across all calendars
//   - calendar_suggest_reschedule: ranked alternative times for an existing event
//
// Write tools (registered only when the server is not read-only):
//   - calendar_apply_reschedule: move an event to a new time
//
// Results are JSON documents. Invalid arguments and missing credentials are
// reported as MCP error results.
package calendar_tools
