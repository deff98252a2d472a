// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed full-page HTML cache (L2).
// Composed site pages are stored per project and request path so repeat
// visits skip the page, snippet and composition work. Pipeline writes
// clear everything cached for the affected project.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute

	// scanBatch is the COUNT hint for SCAN during invalidation.
	scanBatch = 100
)

// PageCache manages full-page HTML caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// PageKey returns the cache key of one project path.
func PageKey(projectID uuid.UUID, path string) string {
	return pageKeyPrefix + projectID.String() + ":" + path
}

// projectPattern matches every cached page of a project. UUIDs contain no
// glob metacharacters, so the pattern cannot over-match.
func projectPattern(projectID uuid.UUID) string {
	return pageKeyPrefix + projectID.String() + ":*"
}

// Get retrieves cached HTML for a project path.
func (pc *PageCache) Get(ctx context.Context, projectID uuid.UUID, path string) ([]byte, bool) {
	key := PageKey(projectID, path)
	val, err := pc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a project path with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, projectID uuid.UUID, path string, html []byte) {
	key := PageKey(projectID, path)
	if err := pc.client.Set(ctx, key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidateProject removes every cached page of a project and returns
// how many keys were deleted.
func (pc *PageCache) InvalidateProject(ctx context.Context, projectID uuid.UUID) int {
	return pc.deleteMatching(ctx, projectPattern(projectID))
}

// InvalidateAll removes all cached pages of every project.
func (pc *PageCache) InvalidateAll(ctx context.Context) int {
	return pc.deleteMatching(ctx, pageKeyPrefix+"*")
}

func (pc *PageCache) deleteMatching(ctx context.Context, pattern string) int {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			slog.Warn("page cache scan error", "pattern", pattern, "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "pattern", pattern, "error", err)
			} else {
				deleted += len(keys)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache invalidated", "pattern", pattern, "deleted", deleted)
	}
	return deleted
}
