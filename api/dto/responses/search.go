// ABOUTME: Response DTOs for the article search endpoint
// ABOUTME: Mirrors the arXiv result page with explicit nulls for absent article fields

package responses

import "github.com/Lucasff16/arxiv-api-backend/core/domain"

// SearchResponse is the body of GET /api/search
type SearchResponse struct {
	Query        string           `json:"query" doc:"The query as sent upstream"`
	TotalResults int              `json:"total_results" doc:"Total matches reported by arXiv"`
	StartIndex   int              `json:"start_index"`
	ItemsPerPage int              `json:"items_per_page"`
	Articles     []domain.Article `json:"articles"`
}
