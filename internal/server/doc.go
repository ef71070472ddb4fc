// Package server provides the runtime pieces around the MCP tool server:
// the shared ServerContext handed to tool handlers, Kubernetes style health
// endpoints, the dedicated Prometheus metrics server and the streamable HTTP
// transport.
//
// # Endpoints
//
// The streamable HTTP transport serves:
//   - /mcp: MCP streamable HTTP endpoint
//   - /healthz, /readyz, /healthz/detailed: health endpoints
//
// The metrics server serves /metrics and the same health endpoints on a
// separate port so that operational data never shares a listener with tool
// traffic.
package server
