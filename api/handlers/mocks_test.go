package handlers

import (
	"context"
	"fmt"
	"sync"

	"github.com/Lucasff16/arxiv-api-backend/core/domain"
)

// mockFetcher is a mock implementation of the article fetcher
type mockFetcher struct {
	fetchFunc func(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error)
	calls     []domain.SearchParams
}

func (m *mockFetcher) Fetch(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	m.calls = append(m.calls, params)
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, params)
	}
	return &domain.SearchResult{}, nil
}

// fetcherWithArticles returns n generated articles for any query
func fetcherWithArticles(n int) *mockFetcher {
	return &mockFetcher{
		fetchFunc: func(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
			articles := make([]domain.Article, n)
			for i := range articles {
				articles[i] = domain.Article{
					ID:         domain.StringPtr(fmt.Sprintf("http://arxiv.org/abs/2401.%05dv1", i+1)),
					Title:      domain.StringPtr(fmt.Sprintf("Paper %d", i+1)),
					Authors:    []string{"A. Author"},
					Categories: []string{"quant-ph"},
				}
			}
			return &domain.SearchResult{
				TotalResults: 100,
				StartIndex:   params.Start,
				ItemsPerPage: params.MaxResults,
				Articles:     articles,
			}, nil
		},
	}
}

// mockLogger records log calls for assertions
type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

func (m *mockLogger) record(level, msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{Level: level, Message: msg, Fields: fields})
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) { m.record("DEBUG", msg, fields) }
func (m *mockLogger) Info(msg string, fields map[string]interface{})  { m.record("INFO", msg, fields) }
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  { m.record("WARN", msg, fields) }
func (m *mockLogger) Error(msg string, fields map[string]interface{}) { m.record("ERROR", msg, fields) }
