package inflation

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

// CachedSource keeps the last successful series for ttl. Concurrent misses
// share a single upstream request. When a refresh fails and an older series
// exists, the older series is served.
type CachedSource struct {
	source Source
	ttl    time.Duration
	logger *log.Logger
	group  singleflight.Group
	now    func() time.Time

	mu        sync.RWMutex
	points    []model.ValuePoint
	fetchedAt time.Time
}

// NewCachedSource wraps source with a TTL cache.
func NewCachedSource(source Source, ttl time.Duration, logger *log.Logger) *CachedSource {
	return &CachedSource{
		source: source,
		ttl:    ttl,
		logger: logger.WithPrefix("cpi"),
		now:    time.Now,
	}
}

func (c *CachedSource) Series(ctx context.Context) ([]model.ValuePoint, error) {
	c.mu.RLock()
	points, fetchedAt := c.points, c.fetchedAt
	c.mu.RUnlock()

	if points != nil && c.now().Sub(fetchedAt) < c.ttl {
		return points, nil
	}

	// Waiters share the fetch; it outlives the caller that started it.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do("series", func() (any, error) {
		fresh, err := c.source.Series(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.points, c.fetchedAt = fresh, c.now()
		c.mu.Unlock()
		c.logger.Debug("cpi series refreshed", "points", len(fresh))
		return fresh, nil
	})
	if err != nil {
		if points != nil {
			c.logger.Warn("cpi refresh failed, serving cached series", "err", err, "age", c.now().Sub(fetchedAt))
			return points, nil
		}
		return nil, err
	}

	return v.([]model.ValuePoint), nil
}
