package scraper

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *SQLiteCache {
	t.Helper()
	cache, err := OpenSQLiteCache(filepath.Join(t.TempDir(), "cache", "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestSQLiteCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := openTestCache(t)
	fetched := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return fetched.Add(time.Hour) }

	_, err := cache.Get(ctx, "http://example.org/a")
	require.ErrorIs(t, err, ErrCacheMiss)

	err = cache.Set(ctx, "http://example.org/a", &Response{
		URL:         "http://example.org/a",
		StatusCode:  200,
		ContentType: "application/json",
		Body:        []byte(`{"value":[]}`),
		FetchedAt:   fetched,
	}, 7*24*time.Hour)
	require.NoError(t, err)

	got, err := cache.Get(ctx, "http://example.org/a")
	require.NoError(t, err)
	assert.True(t, got.FromCache)
	assert.Equal(t, 200, got.StatusCode)
	assert.Equal(t, "application/json", got.ContentType)
	assert.Equal(t, `{"value":[]}`, string(got.Body))
	assert.True(t, fetched.Equal(got.FetchedAt))
}

func TestSQLiteCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache := openTestCache(t)
	fetched := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, cache.Set(ctx, "http://example.org/a", &Response{
		StatusCode: 200, Body: []byte("x"), FetchedAt: fetched,
	}, 7*24*time.Hour))

	cache.now = func() time.Time { return fetched.Add(6 * 24 * time.Hour) }
	_, err := cache.Get(ctx, "http://example.org/a")
	require.NoError(t, err)

	cache.now = func() time.Time { return fetched.Add(7 * 24 * time.Hour) }
	_, err = cache.Get(ctx, "http://example.org/a")
	require.ErrorIs(t, err, ErrCacheMiss)

	// The expired entry is gone even if the clock goes back.
	cache.now = func() time.Time { return fetched }
	_, err = cache.Get(ctx, "http://example.org/a")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheKeyNormalization(t *testing.T) {
	a, err := cacheKey("HTTP://Example.org/items?b=2&a=1#frag")
	require.NoError(t, err)
	b, err := cacheKey("http://example.org/items?a=1&b=2")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := cacheKey("http://example.org/Items?a=1&b=2")
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "paths are case sensitive")

	equivalent := [][2]string{
		{"http://open.statswales.gov.wales:80/dataset/hous1401", "http://open.statswales.gov.wales/dataset/hous1401"},
		{"https://statswales.gov.wales:443/Catalogue", "https://statswales.gov.wales/Catalogue"},
		{"http://open.statswales.gov.wales/dataset/./hous1401", "http://open.statswales.gov.wales/dataset/hous1401"},
		{"http://open.statswales.gov.wales/en-gb/../dataset/hous1401", "http://open.statswales.gov.wales/dataset/hous1401"},
	}
	for _, pair := range equivalent {
		x, err := cacheKey(pair[0])
		require.NoError(t, err)
		y, err := cacheKey(pair[1])
		require.NoError(t, err)
		assert.Equal(t, y, x, "%s should share a key with %s", pair[0], pair[1])
	}

	_, err = cacheKey("http://[::1")
	assert.Error(t, err)
}
