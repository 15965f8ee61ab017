// ABOUTME: Mappers for converting search results into API DTOs
// ABOUTME: Guarantees stable JSON shapes for empty and partial results

package mappers

import (
	"strings"

	"github.com/Lucasff16/arxiv-api-backend/api/dto/responses"
	"github.com/Lucasff16/arxiv-api-backend/core/domain"
)

// ToSearchResponse converts a search result into the response DTO
func ToSearchResponse(query string, result *domain.SearchResult) responses.SearchResponse {
	resp := responses.SearchResponse{
		Query:    strings.TrimSpace(query),
		Articles: []domain.Article{},
	}
	if result == nil {
		return resp
	}

	resp.TotalResults = result.TotalResults
	resp.StartIndex = result.StartIndex
	resp.ItemsPerPage = result.ItemsPerPage

	for _, a := range result.Articles {
		if a.Authors == nil {
			a.Authors = []string{}
		}
		if a.Categories == nil {
			a.Categories = []string{}
		}
		resp.Articles = append(resp.Articles, a)
	}

	return resp
}
