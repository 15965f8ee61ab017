// ABOUTME: Search handler for the Huma API
// ABOUTME: Exposes arXiv search results as structured JSON

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Lucasff16/arxiv-api-backend/api/dto/mappers"
	"github.com/Lucasff16/arxiv-api-backend/api/dto/requests"
	"github.com/Lucasff16/arxiv-api-backend/api/dto/responses"
	"github.com/Lucasff16/arxiv-api-backend/core/interfaces"
)

// SearchHandler handles article search requests
type SearchHandler struct {
	fetcher interfaces.ArticleFetcher
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(fetcher interfaces.ArticleFetcher) *SearchHandler {
	return &SearchHandler{fetcher: fetcher}
}

// RegisterRoutes registers the search route
func (h *SearchHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "searchArticles",
		Method:      http.MethodGet,
		Path:        "/api/search",
		Summary:     "Search arXiv articles",
		Description: "Runs one search against the arXiv export API and returns the parsed result page",
		Tags:        []string{"Search"},
	}, h.Search)
}

// SearchInput defines the input for the Search operation
type SearchInput struct {
	requests.SearchRequest
}

// SearchOutput defines the output for the Search operation
type SearchOutput struct {
	Body responses.SearchResponse
}

// Search handles the GET /api/search endpoint
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, huma.Error400BadRequest("query parameter is required")
	}

	result, err := h.fetcher.Fetch(ctx, input.ToParams())
	if err != nil {
		return nil, toHumaError(err)
	}

	return &SearchOutput{
		Body: mappers.ToSearchResponse(input.Query, result),
	}, nil
}
