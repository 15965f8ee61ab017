// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines the article fetch contract consumed by handlers and the dispatcher

package interfaces

import (
	"context"

	"github.com/Lucasff16/arxiv-api-backend/core/domain"
)

// ArticleFetcher performs one search against the upstream article index.
// Implementations return typed errors from core/errors.
type ArticleFetcher interface {
	Fetch(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error)
}
