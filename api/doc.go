// Package api provides the HTTP layer of the arXiv search API.
// It uses the Huma framework on a chi router for OpenAPI documentation,
// request validation and a typed handler interface.
//
// # Architecture
//
// - server.go: Huma API configuration and the middleware chain
// - handlers/: Info, search and generate protocol handlers
// - dto/: Request and response shapes plus mappers from domain types
// - middleware/: Request logging, metrics, rate limiting and protocol CORS
//
// # Endpoints
//
//	GET  /                 service status
//	GET  /api              endpoint index
//	GET  /api/search       JSON search results
//	GET  /mcp              protocol usage
//	POST /mcp              metadata or generate request, JSON or text/event-stream
//	OPTIONS /mcp           preflight, 204
//	GET  /metrics          Prometheus metrics
//	GET  /docs             Swagger UI (OpenAPI at /openapi.json)
//
// # Streaming
//
// A generate request streams unless it sets "stream": false or its Accept
// header accepts application/json but not text/event-stream. Each frame is
// written as one event:
//
//	data: {"type":"generate_response","response":"1. ...","done":false}
//
// Only the last frame has done set. Failures after the stream has started
// arrive as a final frame with type "error". Idle streams receive a
// ": heartbeat" comment every MCP_HEARTBEAT_INTERVAL (15s by default).
//
// # Error Handling
//
// Non-streamed errors use the RFC 7807 format produced by Huma:
//
//	{
//	    "status": 400,
//	    "title": "Bad Request",
//	    "detail": "query parameter is required"
//	}
package api
