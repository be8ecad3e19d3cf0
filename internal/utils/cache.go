package utils

import (
	"log"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem wraps cached data with its expiry.
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// ViewCache is the process-local view cache. Keys are view paths
// ("/complaints", "/c/<ref>", "/dashboard"), so mutating workflow operations
// can invalidate exactly the pages they made stale.
type ViewCache struct {
	lruCache *lru.Cache[string, CacheItem]
}

var (
	cacheInstance *ViewCache
	cacheOnce     sync.Once
)

// GetCache returns the singleton cache instance.
func GetCache() *ViewCache {
	cacheOnce.Do(func() {
		l, err := lru.New[string, CacheItem](500)
		if err != nil {
			log.Fatalf("Failed to create LRU cache: %v", err)
		}
		cacheInstance = &ViewCache{lruCache: l}
	})
	return cacheInstance
}

// Set stores data under key with a TTL.
func (c *ViewCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Get returns the cached data, or nil when absent or expired.
func (c *ViewCache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}
	return val.Data
}

// Invalidate drops a single cached view path.
func (c *ViewCache) Invalidate(path string) {
	c.lruCache.Remove(path)
}

// InvalidatePrefix drops every cached view whose path starts with prefix,
// covering list pages with query-string variants.
func (c *ViewCache) InvalidatePrefix(prefix string) {
	for _, key := range c.lruCache.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lruCache.Remove(key)
		}
	}
}
