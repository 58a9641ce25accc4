// backend/scraper/http_cache.go
package scraper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/purell"
	_ "modernc.org/sqlite"
)

// ErrCacheMiss is returned by Cache.Get when no live entry exists for a URL.
var ErrCacheMiss = errors.New("http cache miss")

// Cache stores HTTP responses keyed by URL.
type Cache interface {
	Get(ctx context.Context, rawURL string) (*Response, error)
	Set(ctx context.Context, rawURL string, resp *Response, ttl time.Duration) error
}

// SQLiteCache is an on-disk Cache. Expired entries are removed when they are read.
type SQLiteCache struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteCache opens (or creates) the cache database at path.
func OpenSQLiteCache(path string) (*SQLiteCache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open http cache %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS http_responses (
		cache_key TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		body BLOB,
		fetched_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create http cache table: %w", err)
	}

	return &SQLiteCache{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

func (c *SQLiteCache) Get(ctx context.Context, rawURL string) (*Response, error) {
	key, err := cacheKey(rawURL)
	if err != nil {
		return nil, err
	}

	var (
		resp      Response
		fetchedAt int64
		expiresAt int64
	)
	err = c.db.QueryRowContext(ctx, `
		SELECT url, status_code, content_type, body, fetched_at, expires_at
		FROM http_responses WHERE cache_key = ?`, key,
	).Scan(&resp.URL, &resp.StatusCode, &resp.ContentType, &resp.Body, &fetchedAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read http cache entry for %s: %w", rawURL, err)
	}

	if c.now().Unix() >= expiresAt {
		if _, err := c.db.ExecContext(ctx, `DELETE FROM http_responses WHERE cache_key = ?`, key); err != nil {
			log.Printf("WARN Scraper: failed to delete expired cache entry for %s: %v", rawURL, err)
		}
		return nil, ErrCacheMiss
	}

	resp.FetchedAt = time.Unix(fetchedAt, 0).UTC()
	resp.FromCache = true
	return &resp, nil
}

func (c *SQLiteCache) Set(ctx context.Context, rawURL string, resp *Response, ttl time.Duration) error {
	key, err := cacheKey(rawURL)
	if err != nil {
		return err
	}
	fetchedAt := resp.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = c.now()
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO http_responses (cache_key, url, status_code, content_type, body, fetched_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			url = excluded.url,
			status_code = excluded.status_code,
			content_type = excluded.content_type,
			body = excluded.body,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at`,
		key, rawURL, resp.StatusCode, resp.ContentType, resp.Body,
		fetchedAt.Unix(), fetchedAt.Add(ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write http cache entry for %s: %w", rawURL, err)
	}
	return nil
}

const cacheKeyFlags = purell.FlagsSafe |
	purell.FlagsUsuallySafeNonGreedy |
	purell.FlagRemoveDirectoryIndex |
	purell.FlagRemoveFragment |
	purell.FlagSortQuery

// cacheKey normalizes a URL so that equivalent requests share an entry.
func cacheKey(rawURL string) (string, error) {
	key, err := purell.NormalizeURLString(rawURL, cacheKeyFlags)
	if err != nil {
		return "", fmt.Errorf("failed to normalize url %q: %w", rawURL, err)
	}
	return key, nil
}
