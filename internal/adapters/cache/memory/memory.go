package memory

import (
	"context"
	"sync"
	"time"

	"trendflow/internal/core/port"
)

var _ port.CachePort = (*Cache)(nil)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is an in-process time-windowed cache. Expired entries are lazily
// evicted on access, no background sweep. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	return e.value, true
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}

	return nil
}

func (c *Cache) Ping(_ context.Context) string {
	return "up"
}

// Len reports the number of stored entries, expired ones included until
// their next access.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
