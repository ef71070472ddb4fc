// Package resources provides MCP resources for exposing calendar and engine
// data. Resources are read-only data sources that MCP clients can fetch
// before calling a tool, such as the list of calendars that feed the
// availability checks and the effective search settings.
//
// Resources are read for the default account. Tools accept an explicit
// account argument when another account is needed.
package resources
