package cache

import (
	"context"
	"sync"
	"time"

	"querybridge/internal/translator"
)

type memoryEntry struct {
	result    *translator.Result
	writtenAt time.Time
}

// MemoryCache is a size-bounded in-memory TTL cache. Results are immutable
// once produced, so entries share the stored pointer.
type MemoryCache struct {
	mu         sync.RWMutex
	items      map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache creates an in-memory cache. A non-positive ttl defaults to
// one hour; a non-positive maxEntries defaults to 10000.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &MemoryCache{
		items:      make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the stored result, treating entries past the TTL as absent
// and evicting them as a side effect.
func (c *MemoryCache) Get(_ context.Context, key Key) (*translator.Result, bool, error) {
	fp := key.Fingerprint()

	c.mu.RLock()
	entry, ok := c.items[fp]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if c.expired(entry, c.now()) {
		c.mu.Lock()
		if e, exists := c.items[fp]; exists && c.expired(e, c.now()) {
			delete(c.items, fp)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	return entry.result, true, nil
}

// Set stores a result, evicting expired then oldest entries when at capacity.
func (c *MemoryCache) Set(_ context.Context, key Key, result *translator.Result) error {
	fp := key.Fingerprint()
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[fp]; !exists && len(c.items) >= c.maxEntries {
		c.evictExpiredLocked(now)
		if len(c.items) >= c.maxEntries {
			c.evictOldestLocked()
		}
	}

	c.items[fp] = memoryEntry{result: result, writtenAt: now}
	return nil
}

// EvictExpired removes every expired entry and reports how many were removed.
func (c *MemoryCache) EvictExpired(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictExpiredLocked(c.now()), nil
}

// Stats counts active and expired entries without evicting.
func (c *MemoryCache) Stats(_ context.Context) (Stats, error) {
	now := c.now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{TotalEntries: len(c.items), TTL: c.ttl}
	for _, entry := range c.items {
		if c.expired(entry, now) {
			stats.ExpiredEntries++
		} else {
			stats.ActiveEntries++
		}
	}
	return stats, nil
}

// Clear removes all items. Useful for tests or manual resets.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]memoryEntry)
	c.mu.Unlock()
}

func (c *MemoryCache) Close() error {
	return nil
}

func (c *MemoryCache) expired(entry memoryEntry, now time.Time) bool {
	return now.Sub(entry.writtenAt) >= c.ttl
}

func (c *MemoryCache) evictExpiredLocked(now time.Time) int {
	removed := 0
	for fp, entry := range c.items {
		if c.expired(entry, now) {
			delete(c.items, fp)
			removed++
		}
	}
	return removed
}

func (c *MemoryCache) evictOldestLocked() {
	var oldestKey string
	var oldestTime time.Time
	for fp, entry := range c.items {
		if oldestKey == "" || entry.writtenAt.Before(oldestTime) {
			oldestKey = fp
			oldestTime = entry.writtenAt
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
