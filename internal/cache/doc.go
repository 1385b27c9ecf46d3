// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

// doc.go provides a Valkey-backed cache for generated documents: the
// sitemap XML served at /sitemap.xml and the pre-render route list.
// Generation hits the database twice, so results are kept warm for a
// short TTL and invalidated whenever content or categories change.
// Staleness is bounded by the TTL, nothing else.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// docKeyPrefix namespaces generated-document keys in Valkey.
	docKeyPrefix = "doc:"

	// DefaultDocTTL is how long a generated document stays cached.
	DefaultDocTTL = 10 * time.Minute
)

// DocCache manages generated-document caching in Valkey.
type DocCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDocCache creates a document cache backed by the given Valkey client.
func NewDocCache(client *redis.Client, ttl time.Duration) *DocCache {
	if ttl == 0 {
		ttl = DefaultDocTTL
	}
	return &DocCache{client: client, ttl: ttl}
}

// Get retrieves a cached document. Returns false on miss or error.
func (dc *DocCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := dc.client.Get(ctx, docKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("doc cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("doc cache hit", "key", key)
	return val, true
}

// Set stores a generated document with the configured TTL.
func (dc *DocCache) Set(ctx context.Context, key string, doc []byte) {
	if err := dc.client.Set(ctx, docKeyPrefix+key, doc, dc.ttl).Err(); err != nil {
		slog.Warn("doc cache set error", "key", key, "error", err)
	}
}

// Invalidate removes cached documents. Called on content and category
// writes, since any of them can change the enumerated paths.
func (dc *DocCache) Invalidate(ctx context.Context, keys ...string) {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = docKeyPrefix + k
	}
	if err := dc.client.Del(ctx, full...).Err(); err != nil {
		slog.Warn("doc cache invalidate error", "error", err)
		return
	}
	slog.Debug("doc cache invalidated", "keys", keys)
}

// SitemapKey returns the cache key for the sitemap XML document.
func SitemapKey() string {
	return "sitemap"
}

// RoutesKey returns the cache key for the pre-render route list.
func RoutesKey() string {
	return "routes"
}
