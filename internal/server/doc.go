// Package server exposes testplanner over HTTP.
//
// The REST API lives under /api/v1 and answers with a common envelope:
//
//	{"metadata": {"code": 200, "message": "OK"}, "data": ...}
//
// Request bodies are checked against JSON schemas before they are decoded.
// Domain errors map to status codes: validation 400, authentication 401,
// not found 404, conflicts and invalid plan states 409, platform failures 502.
//
// Handlers resolve their services through the api package registry, so the
// server only depends on the api interfaces. When enabled, the MCP streamable
// HTTP endpoint is mounted at /mcp on the same listener.
package server
