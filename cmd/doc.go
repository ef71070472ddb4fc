// Package cmd implements the command-line interface for slotfinder.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide calendar tools for AI assistants
//   - check: Check a proposed time range for conflicts
//   - suggest: Suggest alternative times for an existing event
//   - apply: Move an event to a new time
//   - auth: Authorize access to Google Calendar
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
package cmd
