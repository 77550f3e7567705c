package platform

import (
	"context"
	"sync"
	"time"

	"github.com/mj1618/nirctl/internal/model"
)

// SnapshotCache is an Enumerator that reuses a snapshot for a short TTL.
type SnapshotCache struct {
	mu       sync.Mutex
	inner    Enumerator
	ttl      time.Duration
	windows  []model.Window
	taken    time.Time
	now      func() time.Time
	hasEntry bool
}

// NewSnapshotCache wraps inner. A ttl of 0 disables caching.
func NewSnapshotCache(inner Enumerator, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{inner: inner, ttl: ttl, now: time.Now}
}

// Enumerate returns the cached snapshot if within TTL, otherwise reads fresh.
// Callers get their own copy of the slice.
func (c *SnapshotCache) Enumerate(ctx context.Context) ([]model.Window, error) {
	if c.ttl == 0 {
		return c.inner.Enumerate(ctx)
	}

	c.mu.Lock()
	if c.hasEntry && c.now().Sub(c.taken) < c.ttl {
		out := append([]model.Window(nil), c.windows...)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	windows, err := c.inner.Enumerate(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.windows = windows
	c.taken = c.now()
	c.hasEntry = true
	c.mu.Unlock()

	return append([]model.Window(nil), windows...), nil
}

// Invalidate drops the cached snapshot.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.windows = nil
	c.hasEntry = false
}
