package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/use-agent/offerpage/models"
)

// entry holds a cached payload with its creation timestamp.
type entry struct {
	payload   *models.RawOfferPayload
	createdAt time.Time
}

// Cache is a small in-memory TTL cache for scraped offer payloads.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// New creates a Cache holding at most maxEntries payloads for ttl each.
// A background goroutine evicts expired entries every ttl/2 (at least
// once a minute).
func New(maxEntries int, ttl time.Duration) *Cache {
	c := newCache(maxEntries, ttl)
	go c.cleanupLoop()
	return c
}

func newCache(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Key normalizes a target URL into a cache key.
func Key(targetURL string) string {
	return strings.TrimSpace(targetURL)
}

// Get returns the payload stored under key if it is younger than the TTL.
func (c *Cache) Get(key string) (*models.RawOfferPayload, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.createdAt) > c.ttl {
		return nil, false
	}
	return e.payload, true
}

// Set stores a payload. If the cache is at capacity, a random entry is
// evicted to make room.
func (c *Cache) Set(key string, payload *models.RawOfferPayload) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict one random entry if at capacity (map iteration is random in Go).
	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		payload:   payload,
		createdAt: c.now(),
	}
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *Cache) cleanupLoop() {
	interval := c.ttl / 2
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		c.evictExpired()
	}
}

func (c *Cache) evictExpired() {
	cutoff := c.now().Add(-c.ttl)
	c.mu.Lock()
	for k, e := range c.store {
		if e.createdAt.Before(cutoff) {
			delete(c.store, k)
		}
	}
	c.mu.Unlock()
}
