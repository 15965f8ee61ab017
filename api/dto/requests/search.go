// ABOUTME: Request DTOs for the article search endpoint
// ABOUTME: Query parameters are forwarded to the arXiv service, which clamps and validates them

package requests

import "github.com/Lucasff16/arxiv-api-backend/core/domain"

// SearchRequest holds the query parameters of GET /api/search
type SearchRequest struct {
	// Query is the search expression, optionally prefixed with an arXiv field such as ti: or au:
	Query string `query:"query" doc:"Search terms, optionally field-prefixed (ti:, au:, cat:)" example:"quantum computing"`

	// Start is the zero-based result offset; negative values are treated as 0
	Start int `query:"start" default:"0" doc:"Zero-based offset into the result set"`

	// MaxResults is the page size; values above the server ceiling are clamped
	MaxResults int `query:"max_results" default:"10" doc:"Number of results to return, clamped to the server ceiling"`

	SortBy    string `query:"sort_by" default:"relevance" doc:"One of relevance, lastUpdatedDate, submittedDate"`
	SortOrder string `query:"sort_order" default:"descending" doc:"One of ascending, descending"`
}

// ToParams converts the request into search parameters
func (r *SearchRequest) ToParams() domain.SearchParams {
	return domain.SearchParams{
		Query:      r.Query,
		Start:      r.Start,
		MaxResults: r.MaxResults,
		SortBy:     r.SortBy,
		SortOrder:  r.SortOrder,
	}
}
