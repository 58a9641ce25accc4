// backend/scraper/client.go
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response is a fetched (or cached) HTTP response body.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	FetchedAt   time.Time
	FromCache   bool
}

// Client performs GET requests through a response cache.
type Client struct {
	http  *resty.Client
	cache Cache
	ttl   time.Duration
	now   func() time.Time
}

type ClientOptions struct {
	Timeout   time.Duration
	UserAgent string
	// How long a stored response is served without revalidation.
	CacheTTL time.Duration
}

// NewClient builds a Client. cache may be nil, in which case every request goes to the network.
func NewClient(cache Cache, opts ClientOptions) *Client {
	client := resty.New()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "vacancies-pipeline/1.0"
	}
	client.SetHeader("User-Agent", userAgent)

	return &Client{
		http:  client,
		cache: cache,
		ttl:   opts.CacheTTL,
		now:   time.Now,
	}
}

// Get returns the body of url, from the cache when a live entry exists.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, url)
		if err == nil {
			log.Printf("Scraper: served %s from cache (fetched %s)", url, cached.FetchedAt.Format(time.RFC3339))
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("WARN Scraper: cache lookup failed for %s: %v", url, err)
		}
	}

	log.Printf("Scraper: fetching %s", url)
	res, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("failed to get %s: received status code %d", url, res.StatusCode())
	}

	resp := &Response{
		URL:         url,
		StatusCode:  res.StatusCode(),
		ContentType: res.Header().Get("Content-Type"),
		Body:        res.Body(),
		FetchedAt:   c.now().UTC(),
	}
	if c.cache != nil && c.ttl > 0 {
		if err := c.cache.Set(ctx, url, resp, c.ttl); err != nil {
			log.Printf("WARN Scraper: failed to cache response for %s: %v", url, err)
		}
	}
	return resp, nil
}
