// Package ics serves local iCalendar files as a read-only scheduling
// provider, so conflicts can be checked and reschedules suggested without
// Google credentials.
//
// Every configured file becomes one calendar. Recurring events are expanded
// with RRULE and EXDATE, and overridden instances (RECURRENCE-ID) replace the
// occurrence they override. Instances get ids of the form
// UID_20250311T090000Z, where the suffix is the original start in UTC.
//
// Files are parsed when the provider is created. PatchEvent always fails with
// ErrReadOnly.
package ics
