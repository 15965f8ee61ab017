// ABOUTME: Search domain models for article queries against the upstream index
// ABOUTME: Holds normalized query parameters and the paginated result envelope

package domain

// Sort fields accepted by the article index
const (
	SortByRelevance       = "relevance"
	SortByLastUpdatedDate = "lastUpdatedDate"
	SortBySubmittedDate   = "submittedDate"

	SortOrderAscending  = "ascending"
	SortOrderDescending = "descending"
)

// SearchParams is a validated and clamped search request
type SearchParams struct {
	Query      string
	Start      int
	MaxResults int
	SortBy     string
	SortOrder  string
}

// SearchResult is the parsed page of articles plus the feed's pagination metadata
type SearchResult struct {
	TotalResults int       `json:"total_results"`
	StartIndex   int       `json:"start_index"`
	ItemsPerPage int       `json:"items_per_page"`
	Articles     []Article `json:"articles"`
}

// ValidSortBy reports whether s is a known sort field
func ValidSortBy(s string) bool {
	switch s {
	case SortByRelevance, SortByLastUpdatedDate, SortBySubmittedDate:
		return true
	}
	return false
}

// ValidSortOrder reports whether s is a known sort direction
func ValidSortOrder(s string) bool {
	return s == SortOrderAscending || s == SortOrderDescending
}
