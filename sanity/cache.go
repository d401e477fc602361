package sanity

import (
	"sync"
	"time"
)

// ResponseCache keeps raw query results in memory for a fixed TTL.
// Only successful responses are stored.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	body    []byte
	fetched time.Time
}

// NewResponseCache creates a cache whose entries expire after ttl.
// A non-positive ttl disables caching.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{entries: make(map[string]cacheEntry), ttl: ttl}
}

func (c *ResponseCache) enabled() bool {
	return c != nil && c.ttl > 0
}

// Get returns the cached body for key if it is still fresh.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	if !c.enabled() {
		return nil, false
	}
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Since(e.fetched) >= c.ttl {
		return nil, false
	}
	return e.body, true
}

// Set stores body under key.
func (c *ResponseCache) Set(key string, body []byte) {
	if !c.enabled() {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{body: body, fetched: time.Now()}
	c.mu.Unlock()
}

// Invalidate clears every entry so the next read goes to the endpoint.
func (c *ResponseCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len reports the number of stored entries, fresh or not.
func (c *ResponseCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
