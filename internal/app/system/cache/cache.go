// internal/app/system/cache/cache.go
//
// Package cache is the short-TTL read-through cache used by the dashboard
// change indicators. Entries are keyed by a digest of the college id plus
// a normalized filter signature so that equivalent filter payloads share
// an entry.
package cache

import (
	"encoding/hex"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Cache is an in-process TTL cache. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time
}

// New creates a cache whose entries live for ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key, or false if absent or expired.
// Expired entries are removed lazily on read.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the cache's TTL.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Key builds a cache key from the college id and the normalized filter
// signature parts. The blake2b digest keeps keys fixed-length regardless
// of how many filters are active.
func Key(collegeID string, parts ...string) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(collegeID))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
