// Package logging provides structured logging helpers for slotfinder.
//
// All packages log through log/slog using the attribute keys defined here so
// that calendar and event identifiers line up across components.
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "scheduling.aggregate")
//	logger.Warn("calendar fetch failed",
//	    logging.CalendarID(id),
//	    logging.Err(err))
//
// User emails are never logged in clear text. Use UserHash or WithAccount,
// which hash the address while still allowing correlation.
package logging
