package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	catalogapp "github.com/trycco/storefront/internal/application/catalog"
)

// InMemoryLandingCache keeps the landing page in process memory. Each
// instance has its own copy, so it suits single-instance deployments.
type InMemoryLandingCache struct {
	mu        sync.RWMutex
	landing   *catalogapp.Landing
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time

	hits   int64
	misses int64
}

func NewInMemoryLandingCache(ttl time.Duration) *InMemoryLandingCache {
	if ttl <= 0 {
		ttl = defaultLandingTTL
	}
	return &InMemoryLandingCache{ttl: ttl, now: time.Now}
}

func (c *InMemoryLandingCache) Get(_ context.Context) (*catalogapp.Landing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.landing == nil || c.now().After(c.expiresAt) {
		atomic.AddInt64(&c.misses, 1)
		return nil, nil
	}
	atomic.AddInt64(&c.hits, 1)
	return c.landing, nil
}

func (c *InMemoryLandingCache) Set(_ context.Context, landing *catalogapp.Landing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.landing = landing
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

func (c *InMemoryLandingCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.landing = nil
	return nil
}

// Stats returns the hit and miss counts.
func (c *InMemoryLandingCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

var _ catalogapp.LandingCache = (*InMemoryLandingCache)(nil)
