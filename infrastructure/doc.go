// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package: caching, upstream HTTP and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: Process-local cache on patrickmn/go-cache
// - cache/redis: Shared cache on go-redis
// - cache/sqlite: File-backed cache on mattn/go-sqlite3
// - http/standard: net/http client with retry for transient upstream failures
// - logger/standard: logrus logger with optional lumberjack file rotation
//
// # Cache Implementations
//
// Every cache returns interfaces.ErrCacheMiss for absent or expired keys:
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "key", []byte("value"), 10*time.Minute)
//	value, err := cache.Get(ctx, "key")
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{Address: "localhost:6379"})
//
//	cache, err := sqlite.NewSQLiteCache("cache.db", logger)
//	defer cache.Close()
//
// # HTTP Client
//
// Transport errors and 5xx answers are retried with a short backoff:
//
//	client := standard.NewStandardHTTPClient(30*time.Second, nil)
//	resp, err := client.Get(ctx, "http://export.arxiv.org/api/query?search_query=all:graphs")
//	if err != nil {
//	    return err
//	}
//	defer resp.Body().Close()
//
// # Logger
//
//	logger, err := standard.New(standard.Options{Level: "debug", Format: "json"})
//	logger.Info("Search completed", map[string]interface{}{
//	    "query":    "graphs",
//	    "articles": 5,
//	})
package infrastructure
