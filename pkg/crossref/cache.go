package crossref

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CacheEntry is a stored response representation.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry's TTL has passed.
func (e *CacheEntry) Expired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Cache is the storage collaborator used for response caching and
// rate-limit state. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// MemoryCache is an in-memory Cache with a bounded size. When full, the
// entry closest to expiry is evicted.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	maxSize int
}

// NewMemoryCache creates a new memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get retrieves an entry, removing it if expired.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if entry.Expired() {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return entry, nil
}

// Set stores an entry, evicting the soonest-to-expire entry when full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry

	return nil
}

// evictOldest removes the entry with the earliest expiry. Caller holds the lock.
func (c *MemoryCache) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
	)

	for key, entry := range c.entries {
		if oldestKey == "" || entry.ExpiresAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*CacheEntry)

	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	return ok && !entry.Expired()
}

// Cleanup removes expired entries. Intended to be called periodically.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.Expired() {
			delete(c.entries, key)
		}
	}
}

// CacheManager wraps a Cache with key derivation and TTL policy for HTTP
// response caching.
type CacheManager struct {
	cache  Cache
	ttl    time.Duration
	logger Logger
}

// NewCacheManager creates a manager over cache with the given default TTL.
// A non-positive ttl falls back to 1200 seconds.
func NewCacheManager(cache Cache, ttl time.Duration, logger Logger) *CacheManager {
	if ttl <= 0 {
		ttl = 1200 * time.Second
	}

	return &CacheManager{
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// TTL returns the configured default TTL.
func (m *CacheManager) TTL() time.Duration {
	return m.ttl
}

// GetCacheKey derives a stable key from a request's method, path, and query.
// url.Values.Encode sorts keys, so semantically equal requests share a key.
func (m *CacheManager) GetCacheKey(method, path string, query url.Values) string {
	var encoded string
	if query != nil {
		encoded = query.Encode()
	}

	sum := sha256.Sum256([]byte(method + " " + path + "?" + encoded))

	return "crossref:response:" + hex.EncodeToString(sum[:])
}

// Get retrieves a cached entry, degrading to a miss on storage errors.
func (m *CacheManager) Get(ctx context.Context, key string) (*CacheEntry, bool) {
	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	return entry, true
}

// Store caches data under key, honoring Cache-Control from the response
// headers. no-store suppresses caching entirely; max-age below the default
// TTL shortens the entry's life. Storage failures are logged and swallowed.
func (m *CacheManager) Store(ctx context.Context, key string, data []byte, headers http.Header) {
	directives := parseCacheControl(headers.Get("Cache-Control"))
	if directives.noStore {
		return
	}

	ttl := m.ttl
	if directives.maxAge != nil && *directives.maxAge < ttl {
		ttl = *directives.maxAge
	}

	if ttl <= 0 {
		return
	}

	entry := &CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
		ETag:      headers.Get("ETag"),
	}

	err := m.cache.Set(ctx, key, entry)
	if err != nil && m.logger != nil {
		m.logger.Warn("response cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Refresh extends the life of an existing entry after a 304 revalidation.
func (m *CacheManager) Refresh(ctx context.Context, key string, entry *CacheEntry) {
	entry.ExpiresAt = time.Now().Add(m.ttl)

	err := m.cache.Set(ctx, key, entry)
	if err != nil && m.logger != nil {
		m.logger.Warn("response cache refresh failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// cacheDirectives holds the Cache-Control directives the client honors.
type cacheDirectives struct {
	noStore bool
	noCache bool
	maxAge  *time.Duration
}

// parseCacheControl extracts the directives this client cares about.
func parseCacheControl(header string) cacheDirectives {
	var directives cacheDirectives

	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)

		switch {
		case part == "no-store":
			directives.noStore = true
		case part == "no-cache":
			directives.noCache = true
		case strings.HasPrefix(part, "max-age="):
			value := strings.Trim(strings.TrimPrefix(part, "max-age="), "\"")
			if seconds, err := strconv.Atoi(value); err == nil {
				maxAge := time.Duration(seconds) * time.Second
				directives.maxAge = &maxAge
			}
		}
	}

	return directives
}
