package metrics

import (
	"sync"
	"time"

	"munibond/internal/query"
)

// Cache memoizes metric results keyed by (metric name, evaluator
// identity, snapshot version). Invalidation is explicit: replacing a
// snapshot invalidates its entries; a TTL additionally ages entries
// out when configured. There is no implicit global state; a fresh
// Cache starts empty.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration // 0 disables expiry
	entries map[cacheKey]cacheEntry

	now func() time.Time // test hook
}

type cacheKey struct {
	metric    string
	evaluator string
	snapshot  string
}

type cacheEntry struct {
	table    *query.Table
	storedAt time.Time
}

// NewCache creates a cache. ttl == 0 means entries live until
// explicitly invalidated.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[cacheKey]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the memoized table for the key, if present and fresh.
func (c *Cache) Get(metric, evaluator, snapshotVersion string) (*query.Table, bool) {
	c.mu.RLock()
	entry, ok := c.entries[cacheKey{metric, evaluator, snapshotVersion}]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.storedAt) > c.ttl {
		return nil, false
	}
	return entry.table, true
}

// Put stores a computed table.
func (c *Cache) Put(metric, evaluator, snapshotVersion string, table *query.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{metric, evaluator, snapshotVersion}] = cacheEntry{
		table:    table,
		storedAt: c.now(),
	}
}

// InvalidateSnapshot drops every entry computed from the given
// snapshot version, across all metrics and evaluators.
func (c *Cache) InvalidateSnapshot(snapshotVersion string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.snapshot == snapshotVersion {
			delete(c.entries, k)
		}
	}
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}

// Len reports the number of live entries (expired entries included
// until their next Get).
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
