// ABOUTME: Builds the application object graph from configuration
// ABOUTME: Selects the cache backend and wires the HTTP client, arXiv service and dispatcher

package main

import (
	"fmt"

	"github.com/Lucasff16/arxiv-api-backend/api/middleware"
	"github.com/Lucasff16/arxiv-api-backend/core/arxiv"
	"github.com/Lucasff16/arxiv-api-backend/core/dispatch"
	"github.com/Lucasff16/arxiv-api-backend/core/interfaces"
	"github.com/Lucasff16/arxiv-api-backend/infrastructure/cache/memory"
	"github.com/Lucasff16/arxiv-api-backend/infrastructure/cache/redis"
	"github.com/Lucasff16/arxiv-api-backend/infrastructure/cache/sqlite"
	stdhttp "github.com/Lucasff16/arxiv-api-backend/infrastructure/http/standard"
	"github.com/Lucasff16/arxiv-api-backend/pkg/config"
)

// app is the wired application
type app struct {
	service    *arxiv.Service
	dispatcher *dispatch.Dispatcher
	closers    []func() error
}

// Close releases backend resources
func (a *app) Close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func buildApp(cfg *config.Config, logger interfaces.Logger) (*app, error) {
	a := &app{}

	cache, closer, err := newCache(cfg, logger)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	transport := &middleware.LoggingRoundTripper{Logger: logger}
	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: stdhttp.NewStandardHTTPClient(cfg.Upstream.Timeout, transport),
		Logger:     logger,
	}

	a.service = arxiv.NewService(deps, arxiv.Options{
		BaseURL:           cfg.Upstream.BaseURL,
		MaxResultsCeiling: cfg.Upstream.MaxResultsCeiling,
		CacheTTL:          cfg.Cache.TTL,
	})
	a.dispatcher = dispatch.New(a.service, logger, dispatch.Options{
		PageSize:       cfg.Protocol.PageSize,
		ProgressFrames: cfg.Protocol.ProgressFrames,
		FetchTimeout:   cfg.Protocol.FetchTimeout,
	})

	return a, nil
}

// newCache returns the configured cache, or a nil cache when caching is disabled.
// A Redis backend that cannot be reached falls back to memory.
func newCache(cfg *config.Config, logger interfaces.Logger) (interfaces.Cache, func() error, error) {
	switch cfg.Cache.Type {
	case config.CacheNone:
		logger.Info("Search cache disabled", nil)
		return nil, nil, nil

	case config.CacheRedis:
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache(), nil, nil
		}
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Cache.Redis.Address,
		})
		return redisCache, redisCache.Close, nil

	case config.CacheSQLite:
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.Cache.SQLite.Path, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite cache: %w", err)
		}
		logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.Cache.SQLite.Path,
		})
		return sqliteCache, sqliteCache.Close, nil

	default:
		logger.Info("Using memory cache", nil)
		return memory.NewMemoryCache(), nil, nil
	}
}
