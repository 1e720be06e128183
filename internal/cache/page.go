// page.go provides a Valkey-backed response cache keyed by logical
// path. Public endpoints store their rendered JSON here so repeat reads
// never hit the GitHub API; mutations invalidate the affected paths.
package cache

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached responses.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a cached response stays fresh. The TTL
	// is a backstop only: mutations invalidate their paths immediately.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages cached responses in Valkey. All operations are
// best-effort: a cache failure degrades to a repository read, never to
// a request failure.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves the cached response for a logical path.
func (pc *PageCache) Get(ctx context.Context, path string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+path).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "path", path, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "path", path)
	return val, true
}

// Set stores a rendered response for a logical path with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, path string, body []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+path, body, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "path", path, "error", err)
	}
}

// Invalidate removes the cached responses for the given logical paths
// and everything nested under them, so "/posts" also clears
// "/posts/some-slug". Satisfies the stores' invalidation hook.
func (pc *PageCache) Invalidate(ctx context.Context, paths ...string) {
	for _, path := range paths {
		if err := pc.client.Del(ctx, pageKeyPrefix+path).Err(); err != nil {
			slog.Warn("page cache invalidate error", "path", path, "error", err)
		}
		pc.deleteByPattern(ctx, pageKeyPrefix+strings.TrimSuffix(path, "/")+"/*")
		slog.Debug("page cache invalidated", "path", path)
	}
}

// InvalidateAll removes every cached response.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	pc.deleteByPattern(ctx, pageKeyPrefix+"*")
}

// deleteByPattern scans for matching keys and deletes them in batches.
func (pc *PageCache) deleteByPattern(ctx context.Context, pattern string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "pattern", pattern, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("page cache cleared", "pattern", pattern, "deleted", deleted)
	}
}
