// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, upstream, protocol, cache and logging settings

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// Cache backends
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheSQLite = "sqlite"
	CacheNone   = "none"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Log contains logger configuration
	Log LogConfig

	// Upstream contains arXiv export API configuration
	Upstream UpstreamConfig

	// Protocol contains generate protocol configuration
	Protocol ProtocolConfig

	// Cache contains cache configuration
	Cache CacheConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `env:"PORT,default=8000"`

	// RateLimit is the sustained requests per second allowed per client
	RateLimit float64 `env:"RATE_LIMIT,default=10"`

	// RateBurst is the burst size allowed per client
	RateBurst int `env:"RATE_BURST,default=20"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `env:"LOG_LEVEL,default=info"`
	Format string `env:"LOG_FORMAT,default=text"`
	File   string `env:"LOG_FILE"`
}

// UpstreamConfig holds arXiv export API configuration
type UpstreamConfig struct {
	// BaseURL is the export API query endpoint
	BaseURL string `env:"ARXIV_BASE_URL,default=http://export.arxiv.org/api/query"`

	// Timeout bounds one upstream request
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT,default=30s"`

	// MaxResultsCeiling is the largest max_results forwarded upstream
	MaxResultsCeiling int `env:"MAX_RESULTS_CEILING,default=100"`
}

// ProtocolConfig holds generate protocol configuration
type ProtocolConfig struct {
	// PageSize is the number of articles fetched per generate request
	PageSize int `env:"MCP_PAGE_SIZE,default=5"`

	// ProgressFrames enables advisory frames around the upstream fetch
	ProgressFrames bool `env:"MCP_PROGRESS_FRAMES,default=true"`

	// FetchTimeout bounds a generate request's upstream fetch, retries included
	FetchTimeout time.Duration `env:"MCP_FETCH_TIMEOUT,default=45s"`

	// HeartbeatInterval is the keep-alive period of event streams; 0 disables heartbeats
	HeartbeatInterval time.Duration `env:"MCP_HEARTBEAT_INTERVAL,default=15s"`
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite/none)
	Type string `env:"CACHE_TYPE,default=memory"`

	// TTL is how long search results stay cached
	TTL time.Duration `env:"CACHE_TTL,default=10m"`

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string `env:"REDIS_ADDRESS,default=localhost:6379"`

	// Password is the Redis authentication password
	Password string `env:"REDIS_PASSWORD"`

	// DB is the Redis database number
	DB int `env:"REDIS_DB,default=0"`
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string `env:"SQLITE_PATH,default=cache.db"`
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := envdecode.StrictDecode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}
	cfg.Cache.Type = strings.ToLower(strings.TrimSpace(cfg.Cache.Type))

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535, got %q", c.Server.Port)
	}

	if c.Server.RateLimit <= 0 {
		return errors.New("rate limit must be positive")
	}
	if c.Server.RateBurst < 1 {
		return errors.New("rate burst must be at least 1")
	}

	if u, err := url.Parse(c.Upstream.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid arXiv base URL %q", c.Upstream.BaseURL)
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream timeout must be positive")
	}
	if c.Upstream.MaxResultsCeiling < 1 {
		return errors.New("max results ceiling must be at least 1")
	}

	if c.Protocol.PageSize < 1 || c.Protocol.PageSize > c.Upstream.MaxResultsCeiling {
		return fmt.Errorf("protocol page size must be between 1 and %d", c.Upstream.MaxResultsCeiling)
	}
	if c.Protocol.FetchTimeout <= 0 {
		return errors.New("protocol fetch timeout must be positive")
	}
	if c.Protocol.HeartbeatInterval < 0 {
		return errors.New("heartbeat interval cannot be negative")
	}

	switch c.Cache.Type {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	case CacheSQLite:
		if c.Cache.SQLite.Path == "" {
			return errors.New("sqlite path cannot be empty when using sqlite cache")
		}
	default:
		return errors.New("cache type must be 'memory', 'redis', 'sqlite' or 'none'")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	return nil
}
