// Package cache provides a process-wide TTL cache for analysis results.
// Entries expire lazily on read and are also swept periodically in the
// background.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/devstory/internal/model"
	"github.com/maxbolgarin/logze/v2"
)

const (
	// DefaultTTL is how long an analysis result stays fresh
	DefaultTTL = 5 * time.Minute

	// DefaultSweepInterval is how often expired entries are removed proactively
	DefaultSweepInterval = 10 * time.Minute
)

// Key builds a cache key from the repository URL and the commit limit. Both
// parts participate so a truncated result is never served to a request with a
// different or absent limit.
func Key(repoURL string, maxCommits int) string {
	limit := "all"
	if maxCommits > 0 {
		limit = strconv.Itoa(maxCommits)
	}
	return "repo:" + repoURL + ":" + limit
}

type entry[T any] struct {
	data      T
	timestamp time.Time
	expiresAt time.Time
}

// Cache is an in-memory TTL cache. It is safe for concurrent use.
type Cache[T any] struct {
	entries *abstract.SafeMap[string, entry[T]]
	ttl     time.Duration
	log     logze.Logger
}

// New creates a cache with the given TTL; ttl <= 0 means DefaultTTL
func New[T any](ttl time.Duration) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[T]{
		entries: abstract.NewSafeMap[string, entry[T]](),
		ttl:     ttl,
		log:     logze.With("component", "cache"),
	}
}

// Get returns the cached value for key if present and not expired. Expired
// entries are deleted on read.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T

	e, ok := c.entries.Lookup(key)
	if !ok {
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		c.entries.Delete(key)
		return zero, false
	}
	return e.data, true
}

// Set stores a value under key with the default TTL
func (c *Cache[T]) Set(key string, data T) {
	c.SetTTL(key, data, c.ttl)
}

// SetTTL stores a value under key with an explicit TTL
func (c *Cache[T]) SetTTL(key string, data T, ttl time.Duration) {
	now := time.Now()
	c.entries.Set(key, entry[T]{
		data:      data,
		timestamp: now,
		expiresAt: now.Add(ttl),
	})
}

// Delete removes a single entry
func (c *Cache[T]) Delete(key string) {
	c.entries.Delete(key)
}

// Clear removes all entries
func (c *Cache[T]) Clear() {
	c.entries.Clear()
}

// Stats reports total, valid and expired entry counts
func (c *Cache[T]) Stats() model.CacheStats {
	now := time.Now()
	stats := model.CacheStats{}
	c.entries.Range(func(_ string, e entry[T]) bool {
		stats.Total++
		if now.After(e.expiresAt) {
			stats.Expired++
		} else {
			stats.Valid++
		}
		return true
	})
	return stats
}

// Cleanup removes expired entries and returns how many were dropped
func (c *Cache[T]) Cleanup() int {
	now := time.Now()
	var expired []string
	c.entries.Range(func(key string, e entry[T]) bool {
		if now.After(e.expiresAt) {
			expired = append(expired, key)
		}
		return true
	})
	for _, key := range expired {
		c.entries.Delete(key)
	}
	return len(expired)
}

// StartSweeper runs periodic cleanup until ctx is cancelled
func (c *Cache[T]) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if dropped := c.Cleanup(); dropped > 0 {
					c.log.Debug("swept expired cache entries", "dropped", dropped)
				}
			}
		}
	}()
}
