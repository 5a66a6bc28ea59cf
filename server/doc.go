// Package server is the HTTP listener of whisper-mcp: a Gin engine behind
// a root ServeMux, wrapped in h2c so HTTP/2 clients can hold MCP streams
// without TLS.
//
// Routes:
//
//   - /mcp            streamable MCP transport (guarded)
//   - /v1/transcribe  REST twin of the transcribe tool (guarded)
//   - /health         collaborator reachability
//   - /ready          lifecycle state and pipeline capacity
//   - /info           build metadata
//
// Server-wide middleware (server/middleware) runs recovery, request id,
// CORS, body-size limit and request logging. Guarded routes add bearer
// auth when a JWT secret is configured, then per-caller rate limiting.
package server
