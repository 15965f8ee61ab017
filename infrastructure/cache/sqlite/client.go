// ABOUTME: SQLite-based cache implementation for persistent caching
// ABOUTME: Provides a file-based search result cache that survives application restarts

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Lucasff16/arxiv-api-backend/core/interfaces"
)

const (
	// DefaultCleanupInterval is how often expired rows are deleted
	DefaultCleanupInterval = 5 * time.Minute

	maxKeyLength = 1024

	// expiry value for rows stored without a TTL
	noExpiry int64 = 1<<63 - 1
)

// Client implements the Cache interface using SQLite
type Client struct {
	db       *sql.DB
	filePath string
	logger   interfaces.Logger

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSQLiteCache creates a new SQLite cache client. logger may be nil.
func NewSQLiteCache(filePath string, logger interfaces.Logger) (*Client, error) {
	return NewSQLiteCacheWithCleanup(filePath, logger, DefaultCleanupInterval)
}

// NewSQLiteCacheWithCleanup creates a client that purges expired rows every interval
func NewSQLiteCacheWithCleanup(filePath string, logger interfaces.Logger, interval time.Duration) (*Client, error) {
	if filePath == "" {
		filePath = "cache.db"
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	client := &Client{
		db:       db,
		filePath: filePath,
		logger:   logger,
		stop:     make(chan struct{}),
	}

	if err := client.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	client.wg.Add(1)
	go client.cleanupRoutine(interval)

	return client, nil
}

// initSchema creates the cache table if it doesn't exist
func (c *Client) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS cache (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			expiry INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_expiry ON cache(expiry);
	`

	_, err := c.db.Exec(query)
	return err
}

func validateKey(key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return fmt.Errorf("key too long (max %d bytes)", maxKeyLength)
	}
	return nil
}

// Get retrieves a value from the cache
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var value []byte
	query := "SELECT value FROM cache WHERE key = ? AND expiry > ?"
	err := c.db.QueryRowContext(ctx, query, key, time.Now().UnixNano()).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get value: %w", err)
	}

	return value, nil
}

// Set stores a value in the cache with TTL; zero means no expiration
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if len(value) == 0 {
		return errors.New("value cannot be empty")
	}

	expiry := noExpiry
	if ttl > 0 {
		expiry = time.Now().Add(ttl).UnixNano()
	}

	query := `
		INSERT OR REPLACE INTO cache (key, value, expiry)
		VALUES (?, ?, ?)
	`
	if _, err := c.db.ExecContext(ctx, query, key, value, expiry); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	return nil
}

// Delete removes a value from the cache
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if _, err := c.db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}

	return nil
}

// cleanupRoutine periodically removes expired entries until Close is called
func (c *Client) cleanupRoutine(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if removed, err := c.cleanup(); err != nil && c.logger != nil {
				c.logger.Warn("SQLite cache cleanup failed", map[string]interface{}{
					"file":  c.filePath,
					"error": err.Error(),
				})
			} else if removed > 0 && c.logger != nil {
				c.logger.Debug("SQLite cache cleanup", map[string]interface{}{
					"file":    c.filePath,
					"removed": removed,
				})
			}
		}
	}
}

// cleanup removes expired entries
func (c *Client) cleanup() (int64, error) {
	res, err := c.db.Exec("DELETE FROM cache WHERE expiry <= ?", time.Now().UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of rows, including expired ones not yet purged
func (c *Client) Count(ctx context.Context) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cache").Scan(&count)
	return count, err
}

// Close stops the cleanup routine and closes the database connection
func (c *Client) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	c.wg.Wait()
	return c.db.Close()
}
