// Package cache provides the TTL response cache used by the read-through
// proxies in front of the upstream adapters.
package cache

import (
	"context"
	"sync"
	"time"
)

// GenericCacheInterface defines generic cache operations
type GenericCacheInterface interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context)
}

type cacheEntry struct {
	Data      []byte
	ExpiresAt time.Time
}

// MemoryCache is an in-process TTL cache. Expired entries behave as misses
// immediately; the janitor only exists for memory hygiene and is driven
// externally by the scheduler so tests never leak tickers.
type MemoryCache struct {
	data  map[string]cacheEntry
	mutex sync.RWMutex
	now   func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]cacheEntry),
		now:  time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mutex.RLock()
	entry, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, false
	}

	if c.now().After(entry.ExpiresAt) {
		// Evict lazily so a stale entry cannot be observed again.
		c.mutex.Lock()
		if current, ok := c.data[key]; ok && c.now().After(current.ExpiresAt) {
			delete(c.data, key)
		}
		c.mutex.Unlock()
		return nil, false
	}

	return entry.Data, true
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if value == nil {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheEntry{
		Data:      value,
		ExpiresAt: c.now().Add(ttl),
	}
}

func (c *MemoryCache) Delete(ctx context.Context, key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
}

func (c *MemoryCache) Clear(ctx context.Context) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]cacheEntry)
}

// RemoveExpiredEntries drops every entry whose TTL has elapsed. Called
// periodically by the maintenance scheduler.
func (c *MemoryCache) RemoveExpiredEntries() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, entry := range c.data {
		if now.After(entry.ExpiresAt) {
			delete(c.data, key)
		}
	}
}

// Len returns the number of live plus not-yet-swept entries, for the debug
// endpoint.
func (c *MemoryCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.data)
}
