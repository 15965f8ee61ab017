// ABOUTME: arXiv service queries the export API and parses its Atom feed into articles
// ABOUTME: Provides validation, clamping and result caching independent of the HTTP layer

package arxiv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Lucasff16/arxiv-api-backend/core/domain"
	coreerrors "github.com/Lucasff16/arxiv-api-backend/core/errors"
	"github.com/Lucasff16/arxiv-api-backend/core/interfaces"
	"github.com/Lucasff16/arxiv-api-backend/pkg/metrics"
	"github.com/Lucasff16/arxiv-api-backend/pkg/utils/html"
	"github.com/mmcdole/gofeed/atom"
)

const (
	// DefaultBaseURL is the public arXiv export API endpoint
	DefaultBaseURL = "http://export.arxiv.org/api/query"

	// DefaultMaxResults is used when the caller does not ask for a page size
	DefaultMaxResults = 10

	// DefaultMaxResultsCeiling bounds max_results when Options leaves it unset
	DefaultMaxResultsCeiling = 100

	apiName      = "arxiv"
	openSearchNS = "http://a9.com/-/spec/opensearch/1.1/"
	maxFeedBytes = 10 << 20
	maxQueryLen  = 300
)

// fieldPrefix matches queries that already target an arXiv search field
var fieldPrefix = regexp.MustCompile(`^(ti|au|abs|co|jr|cat|rn|id|all):`)

// Options configures the arXiv service
type Options struct {
	// BaseURL overrides the export API endpoint
	BaseURL string

	// MaxResultsCeiling is the largest page size forwarded upstream
	MaxResultsCeiling int

	// CacheTTL controls how long parsed results are cached; 0 disables caching
	CacheTTL time.Duration
}

// Service fetches articles from arXiv
type Service struct {
	deps interfaces.Dependencies
	opts Options
}

// NewService creates a new arXiv service instance
func NewService(deps interfaces.Dependencies, opts Options) *Service {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.MaxResultsCeiling < 1 {
		opts.MaxResultsCeiling = DefaultMaxResultsCeiling
	}
	return &Service{
		deps: deps,
		opts: opts,
	}
}

// MaxResultsCeiling returns the effective page size ceiling
func (s *Service) MaxResultsCeiling() int {
	return s.opts.MaxResultsCeiling
}

// Normalize validates params, applies defaults and silently clamps the numeric fields
func (s *Service) Normalize(params domain.SearchParams) (domain.SearchParams, error) {
	params.Query = strings.TrimSpace(params.Query)
	if params.Query == "" {
		return params, &coreerrors.ValidationError{Field: "query", Message: "query cannot be empty"}
	}
	if len(params.Query) > maxQueryLen {
		return params, &coreerrors.ValidationError{
			Field:   "query",
			Message: fmt.Sprintf("query cannot exceed %d characters", maxQueryLen),
		}
	}

	if params.Start < 0 {
		params.Start = 0
	}
	if params.MaxResults < 1 {
		params.MaxResults = DefaultMaxResults
	}
	if params.MaxResults > s.opts.MaxResultsCeiling {
		params.MaxResults = s.opts.MaxResultsCeiling
	}

	if params.SortBy == "" {
		params.SortBy = domain.SortByRelevance
	}
	if !domain.ValidSortBy(params.SortBy) {
		return params, &coreerrors.ValidationError{
			Field:   "sort_by",
			Message: "must be one of relevance, lastUpdatedDate, submittedDate",
		}
	}

	if params.SortOrder == "" {
		params.SortOrder = domain.SortOrderDescending
	}
	if !domain.ValidSortOrder(params.SortOrder) {
		return params, &coreerrors.ValidationError{
			Field:   "sort_order",
			Message: "must be one of ascending, descending",
		}
	}

	return params, nil
}

// Fetch performs one search against arXiv. It is the only blocking call on the request path.
func (s *Service) Fetch(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	params, err := s.Normalize(params)
	if err != nil {
		return nil, err
	}

	cacheKey := buildCacheKey(params)
	if cached := s.getCachedResult(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	if s.deps.HTTPClient == nil {
		return nil, errors.New("HTTP client not configured")
	}

	apiURL := s.BuildURL(params)
	start := time.Now()

	resp, err := s.deps.HTTPClient.Get(ctx, apiURL)
	if err != nil {
		metrics.RecordUpstream("transport_error", time.Since(start).Seconds())
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &coreerrors.UpstreamError{Message: err.Error(), API: apiName}
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		metrics.RecordUpstream("bad_status", time.Since(start).Seconds())
		return nil, &coreerrors.UpstreamError{
			StatusCode: resp.StatusCode(),
			Message:    http.StatusText(resp.StatusCode()),
			API:        apiName,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body(), maxFeedBytes))
	if err != nil {
		metrics.RecordUpstream("transport_error", time.Since(start).Seconds())
		return nil, &coreerrors.UpstreamError{Message: "failed to read response: " + err.Error(), API: apiName}
	}

	result, err := parseFeed(body, params)
	if err != nil {
		metrics.RecordUpstream("parse_error", time.Since(start).Seconds())
		return nil, err
	}
	metrics.RecordUpstream("ok", time.Since(start).Seconds())

	if s.deps.Logger != nil {
		s.deps.Logger.Debug("arXiv search completed", map[string]interface{}{
			"query":         params.Query,
			"articles":      len(result.Articles),
			"total_results": result.TotalResults,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
	}

	s.cacheResult(ctx, cacheKey, result)

	return result, nil
}

// BuildURL renders the export API URL for params
func (s *Service) BuildURL(params domain.SearchParams) string {
	searchQuery := params.Query
	if !fieldPrefix.MatchString(searchQuery) {
		searchQuery = "all:" + searchQuery
	}

	values := url.Values{}
	values.Set("search_query", searchQuery)
	values.Set("start", strconv.Itoa(params.Start))
	values.Set("max_results", strconv.Itoa(params.MaxResults))
	values.Set("sortBy", params.SortBy)
	values.Set("sortOrder", params.SortOrder)

	return s.opts.BaseURL + "?" + values.Encode()
}

// parseFeed converts an arXiv Atom document into a SearchResult. The Atom parser is used
// directly because the generic item model drops links with rel="related", which is how
// arXiv marks the PDF.
func parseFeed(content []byte, params domain.SearchParams) (*domain.SearchResult, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, &coreerrors.FormatError{Message: "empty feed content"}
	}

	parser := &atom.Parser{}
	feed, err := parser.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, &coreerrors.FormatError{Message: "failed to parse feed", Err: err}
	}

	// arXiv reports malformed queries as a single entry under its errors namespace
	if len(feed.Entries) == 1 && strings.Contains(feed.Entries[0].ID, "/api/errors") {
		msg := html.StripHTML(feed.Entries[0].Summary)
		if msg == "" {
			msg = "query rejected"
		}
		return nil, &coreerrors.UpstreamError{StatusCode: http.StatusBadRequest, Message: msg, API: apiName}
	}

	result := &domain.SearchResult{
		TotalResults: openSearchInt(feed, "totalResults", len(feed.Entries)),
		StartIndex:   openSearchInt(feed, "startIndex", params.Start),
		ItemsPerPage: openSearchInt(feed, "itemsPerPage", params.MaxResults),
		Articles:     make([]domain.Article, 0, len(feed.Entries)),
	}

	for _, entry := range feed.Entries {
		if entry == nil {
			continue
		}
		result.Articles = append(result.Articles, convertEntryToArticle(entry))
	}

	return result, nil
}

// convertEntryToArticle converts an Atom entry to a domain article
func convertEntryToArticle(entry *atom.Entry) domain.Article {
	article := domain.Article{
		ID:         domain.StringPtr(strings.TrimSpace(entry.ID)),
		Title:      domain.StringPtr(html.StripHTML(entry.Title)),
		Summary:    domain.StringPtr(html.StripHTML(entry.Summary)),
		Published:  domain.StringPtr(strings.TrimSpace(entry.Published)),
		Updated:    domain.StringPtr(strings.TrimSpace(entry.Updated)),
		Authors:    make([]string, 0, len(entry.Authors)),
		Categories: make([]string, 0, len(entry.Categories)),
	}

	for _, author := range entry.Authors {
		if author == nil {
			continue
		}
		if name := html.CollapseWhitespace(author.Name); name != "" {
			article.Authors = append(article.Authors, name)
		}
	}

	for _, category := range entry.Categories {
		if category == nil {
			continue
		}
		if term := strings.TrimSpace(category.Term); term != "" {
			article.Categories = append(article.Categories, term)
		}
	}

	for _, link := range entry.Links {
		if link == nil {
			continue
		}
		href := strings.TrimSpace(link.Href)
		if href == "" {
			continue
		}
		switch {
		case isPDFLink(link):
			if article.PDFURL == nil {
				article.PDFURL = domain.StringPtr(href)
			}
		case link.Rel == "" || link.Rel == "alternate":
			if article.Link == nil {
				article.Link = domain.StringPtr(href)
			}
		}
	}

	if article.Link == nil && article.ID != nil && strings.HasPrefix(*article.ID, "http") {
		article.Link = article.ID
	}

	return article
}

// isPDFLink reports whether link is the entry's full-text PDF
func isPDFLink(link *atom.Link) bool {
	return strings.EqualFold(link.Title, "pdf") || strings.EqualFold(link.Type, "application/pdf")
}

// openSearchInt reads an OpenSearch pagination element from the feed extensions
func openSearchInt(feed *atom.Feed, name string, fallback int) int {
	if feed == nil || feed.Extensions == nil {
		return fallback
	}
	// undeclared namespaces are keyed by their URI instead of a prefix
	for _, key := range []string{"opensearch", openSearchNS} {
		elems := feed.Extensions[key][name]
		if len(elems) == 0 {
			continue
		}
		if v, err := strconv.Atoi(strings.TrimSpace(elems[0].Value)); err == nil {
			return v
		}
	}
	return fallback
}

func buildCacheKey(params domain.SearchParams) string {
	return fmt.Sprintf("arxiv:%d:%d:%s:%s:%s",
		params.Start, params.MaxResults, params.SortBy, params.SortOrder, strings.ToLower(params.Query))
}

// getCachedResult returns a cached result or nil on miss or cache failure
func (s *Service) getCachedResult(ctx context.Context, key string) *domain.SearchResult {
	if s.deps.Cache == nil || s.opts.CacheTTL <= 0 {
		return nil
	}

	data, err := s.deps.Cache.Get(ctx, key)
	if err != nil || data == nil {
		metrics.RecordCacheLookup(false)
		return nil
	}

	var result domain.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		if s.deps.Logger != nil {
			s.deps.Logger.Warn("Discarding unreadable cache entry", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		metrics.RecordCacheLookup(false)
		return nil
	}

	metrics.RecordCacheLookup(true)
	return &result
}

// cacheResult stores a result, ignoring cache errors
func (s *Service) cacheResult(ctx context.Context, key string, result *domain.SearchResult) {
	if s.deps.Cache == nil || s.opts.CacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}

	if err := s.deps.Cache.Set(ctx, key, data, s.opts.CacheTTL); err != nil && s.deps.Logger != nil {
		s.deps.Logger.Warn("Failed to cache search result", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
