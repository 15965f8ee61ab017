// ABOUTME: Service information handlers for the Huma API
// ABOUTME: Reports liveness and lists the available endpoints

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Lucasff16/arxiv-api-backend/api/dto/responses"
)

// InfoHandler serves the root and index endpoints
type InfoHandler struct{}

// NewInfoHandler creates a new info handler
func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

// RegisterRoutes registers the info routes
func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getStatus",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Service status",
		Tags:        []string{"Info"},
	}, h.Status)

	huma.Register(api, huma.Operation{
		OperationID: "listEndpoints",
		Method:      http.MethodGet,
		Path:        "/api",
		Summary:     "List API endpoints",
		Tags:        []string{"Info"},
	}, h.Endpoints)
}

// StatusOutput defines the output for the Status operation
type StatusOutput struct {
	Body responses.StatusResponse
}

// Status handles GET /
func (h *InfoHandler) Status(ctx context.Context, _ *struct{}) (*StatusOutput, error) {
	return &StatusOutput{
		Body: responses.StatusResponse{Message: "arXiv search API", Status: "online"},
	}, nil
}

// EndpointsOutput defines the output for the Endpoints operation
type EndpointsOutput struct {
	Body responses.EndpointsResponse
}

// Endpoints handles GET /api
func (h *InfoHandler) Endpoints(ctx context.Context, _ *struct{}) (*EndpointsOutput, error) {
	return &EndpointsOutput{
		Body: responses.EndpointsResponse{
			Message: "arXiv search API",
			Endpoints: map[string]string{
				"search":  "/api/search?query=TERM",
				"mcp":     "/mcp",
				"docs":    "/docs",
				"metrics": "/metrics",
			},
		},
	}, nil
}
