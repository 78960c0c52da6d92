package radar

import (
	"sync"
	"time"
)

type cacheEntry struct {
	frame    *Frame
	storedAt time.Time
}

// Cache is a concurrency-safe in-memory cache of decoded tile frames,
// keyed by tile position. It keeps refresh cycles from re-downloading the
// same tile while the location has not moved.
type Cache struct {
	mu sync.RWMutex

	entries map[string]cacheEntry

	// retention configuration
	maxEntries int           // max number of cached frames
	maxAge     time.Duration // max age before an entry is considered stale
}

// NewCache creates a Cache with optional limits. maxEntries <= 0 means
// unlimited; maxAge <= 0 disables age-based expiry.
func NewCache(maxEntries int, maxAge time.Duration) *Cache {
	return &Cache{
		entries:    make(map[string]cacheEntry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
	}
}

// Put stores a decoded frame and enforces retention by count.
func (c *Cache) Put(key string, f *Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{frame: f, storedAt: time.Now()}

	if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		// Evict the oldest entries until we are back under the limit.
		for len(c.entries) > c.maxEntries {
			oldestKey := ""
			var oldestAt time.Time
			for k, e := range c.entries {
				if oldestKey == "" || e.storedAt.Before(oldestAt) {
					oldestKey = k
					oldestAt = e.storedAt
				}
			}
			delete(c.entries, oldestKey)
		}
	}
}

// Get returns a cached frame if present and not expired.
func (c *Cache) Get(key string) (*Frame, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.maxAge > 0 && time.Since(e.storedAt) > c.maxAge {
		return nil, false
	}
	return e.frame, true
}

// Len returns the number of cached frames, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
