// Package common provides shared helpers for MCP tool handlers: argument
// extraction, JSON results and the instrumentation wrapper.
package common
