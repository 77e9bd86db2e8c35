package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Jigar634859/skyportal/internal/domain"
)

// MemoryCache is the in-process flight list cache used when no Redis is
// configured.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	flights []domain.Flight
	expires time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now}
}

func (c *MemoryCache) GetFlights(context.Context) ([]domain.Flight, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flights == nil || !c.now().Before(c.expires) {
		return nil, nil
	}
	return append([]domain.Flight(nil), c.flights...), nil
}

func (c *MemoryCache) SetFlights(_ context.Context, flights []domain.Flight) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flights = append(make([]domain.Flight, 0, len(flights)), flights...)
	c.expires = c.now().Add(c.ttl)
	return nil
}

func (c *MemoryCache) InvalidateFlights(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flights = nil
	return nil
}
