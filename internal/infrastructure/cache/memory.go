package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/macrolens/foodcore/internal/domain"
)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

// cacheEntry is a stored snapshot with the time it was written and its TTL
type cacheEntry struct {
	Data      []byte
	Timestamp time.Time
	TTL       time.Duration
}

func (e cacheEntry) expired(now time.Time) bool {
	return now.Sub(e.Timestamp) >= e.TTL
}

// MemoryCache is a thread-safe in-memory cache with TTL support.
// Entries expire lazily on read; nothing is evicted in the background.
type MemoryCache struct {
	data  map[string]cacheEntry
	mutex sync.RWMutex
	now   Clock
}

// Option configures a MemoryCache
type Option func(*MemoryCache)

// WithClock overrides the wall clock used for expiry checks
func WithClock(clock Clock) Option {
	return func(c *MemoryCache) {
		c.now = clock
	}
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(opts ...Option) *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]cacheEntry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.data[key]
	if !exists || entry.expired(c.now()) {
		return nil, domain.ErrCacheMiss
	}

	return entry.Data, nil
}

// Set stores a value in the cache with TTL, overwriting any previous entry
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	// copy so callers can reuse their buffer
	snapshot := make([]byte, len(value))
	copy(snapshot, value)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheEntry{
		Data:      snapshot,
		Timestamp: c.now(),
		TTL:       ttl,
	}

	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Invalidate removes every key with the given prefix
func (c *MemoryCache) Invalidate(ctx context.Context, prefix string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if prefix == "" {
		c.data = make(map[string]cacheEntry)
		return nil
	}
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
	return nil
}

// Size returns the number of stored entries, expired ones included
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}
