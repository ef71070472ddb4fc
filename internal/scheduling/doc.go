// Package scheduling orchestrates conflict checks and reschedule
// suggestions on top of a calendar Provider.
//
// The Service resolves a request-scoped Provider for the caller's account,
// collects busy intervals from every readable calendar concurrently and
// hands them to the pure functions of the availability package.
//
// A calendar that fails or times out while busy intervals are collected is
// logged and skipped. Only failing to list the calendars aborts a request.
package scheduling
