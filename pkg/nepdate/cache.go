package nepdate

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/nepdate/pkg/observability"
)

// Cache memoizes successful conversions made through another [Doer] for
// the lifetime of the Cache. Entries never expire and are only dropped by
// [Cache.Clear]. Failures are not stored, so a failed date is fetched
// again on the next call.
//
// Cache is safe for concurrent use. The lock is not held across the
// network call. Concurrent misses on the same key share one call to next.
// That call ignores cancellation of any single caller (the client timeout
// still bounds it); a caller whose ctx ends gets a CANCELED failure.
type Cache struct {
	next   Doer
	logger *log.Logger
	flight singleflight.Group

	mu      sync.Mutex
	entries map[string]Date
}

// NewCache wraps next with an empty cache.
func NewCache(next Doer) *Cache {
	return &Cache{
		next:    next,
		logger:  discardLogger(),
		entries: make(map[string]Date),
	}
}

// WithLogger sets the logger used for hit/miss tracing and returns c.
func (c *Cache) WithLogger(l *log.Logger) *Cache {
	c.logger = loggerOr(l)
	return c
}

// Key returns the cache key for one conversion request.
func Key(dir Direction, date Date) string {
	return fmt.Sprintf("%s-%d-%d-%d", dir, date.Year, date.Month, date.Day)
}

// Do returns the stored result for (dir, date) or fetches and stores it.
func (c *Cache) Do(ctx context.Context, dir Direction, date Date) Result {
	key := Key(dir, date)
	hooks := observability.Cache()

	c.mu.Lock()
	cached, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		hooks.OnCacheHit(ctx, string(dir))
		c.logger.Debug("cache hit", "key", key)
		return OK(cached)
	}
	hooks.OnCacheMiss(ctx, string(dir))

	// The shared call outlives any one caller; each caller stops waiting
	// when its own ctx ends.
	detached := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(key, func() (any, error) {
		res := c.next.Do(detached, dir, date)
		if got, ok := res.Value(); ok {
			c.mu.Lock()
			c.entries[key] = got
			size := len(c.entries)
			c.mu.Unlock()
			hooks.OnCacheSet(detached, string(dir), size)
		}
		return res, nil
	})

	select {
	case r := <-ch:
		if r.Shared {
			c.logger.Debug("cache miss shared", "key", key)
		}
		return r.Val.(Result)
	case <-ctx.Done():
		return Fail(canceled(ctx.Err()))
	}
}

// Convert is the error-returning form of [Cache.Do].
func (c *Cache) Convert(ctx context.Context, dir Direction, date Date) (Date, error) {
	return c.Do(ctx, dir, date).Unwrap()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Size returns the number of distinct cached requests.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
