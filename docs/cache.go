// ABOUTME: In-memory page cache that wraps markdown rendering with sha256-keyed caching.
// ABOUTME: Supports TTL-based expiry, concurrent access, and manual cache clearing.
package docs

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// RenderFunc is the signature for the markdown rendering function the cache wraps.
type RenderFunc func(markdown []byte) (Rendered, error)

// cacheEntry holds a single cached page with its creation timestamp.
type cacheEntry struct {
	page      Rendered
	createdAt time.Time
}

// PageCache wraps a rendering function with an in-memory cache.
// Cache keys are derived from the sha256 hash of the markdown content.
// Entries expire after the configured TTL.
type PageCache struct {
	renderFn RenderFunc
	ttl      time.Duration
	entries  map[string]*cacheEntry
	mu       sync.RWMutex
}

// NewPageCache creates a PageCache wrapping the given rendering function.
func NewPageCache(renderFn RenderFunc, ttl time.Duration) *PageCache {
	return &PageCache{
		renderFn: renderFn,
		ttl:      ttl,
		entries:  make(map[string]*cacheEntry),
	}
}

// Render returns the cached page for markdown when available and not
// expired. Errors are never cached.
func (c *PageCache) Render(markdown []byte) (Rendered, error) {
	key := cacheKey(markdown)

	c.mu.RLock()
	if entry, ok := c.entries[key]; ok {
		if time.Since(entry.createdAt) < c.ttl {
			page := entry.page
			c.mu.RUnlock()
			return page, nil
		}
	}
	c.mu.RUnlock()

	page, err := c.renderFn(markdown)
	if err != nil {
		return Rendered{}, err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{
		page:      page,
		createdAt: time.Now(),
	}
	c.mu.Unlock()

	return page, nil
}

// Len returns the number of entries currently in the cache (including expired ones).
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *PageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func cacheKey(markdown []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(markdown))
}
