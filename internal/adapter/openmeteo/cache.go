package openmeteo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/couchcryptid/weather-alert-service/internal/domain"
	"github.com/couchcryptid/weather-alert-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// CachedProvider wraps a WeatherProvider with an in-memory LRU cache whose
// entries expire after ttl. Failed fetches are never cached.
type CachedProvider struct {
	inner   domain.WeatherProvider
	cache   *lruCache
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a provider.
func NewCachedProvider(inner domain.WeatherProvider, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
	}
}

func (c *CachedProvider) Fetch(ctx context.Context, coord domain.Coordinate, days int) (domain.Snapshot, error) {
	key := fmt.Sprintf("%.4f,%.4f|%d", coord.Latitude, coord.Longitude, days)
	now := c.clock.Now()
	if snap, storedAt, ok := c.cache.get(key); ok && now.Sub(storedAt) < c.ttl {
		c.metrics.ProviderCache.WithLabelValues("hit").Inc()
		return snap, nil
	}
	c.metrics.ProviderCache.WithLabelValues("miss").Inc()

	snap, err := c.inner.Fetch(ctx, coord, days)
	if err != nil {
		return snap, err
	}
	c.cache.put(key, snap, now)
	return snap, nil
}

// CheckReadiness delegates to the wrapped provider when it reports readiness.
func (c *CachedProvider) CheckReadiness(ctx context.Context) error {
	if rc, ok := c.inner.(interface{ CheckReadiness(context.Context) error }); ok {
		return rc.CheckReadiness(ctx)
	}
	return nil
}

// lruCache is a thread-safe LRU cache of snapshots keyed by request.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key      string
	value    domain.Snapshot
	storedAt time.Time
	prev     *entry
	next     *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.Snapshot, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.Snapshot{}, time.Time{}, false
	}
	c.moveToFront(e)
	return e.value, e.storedAt, true
}

func (c *lruCache) put(key string, value domain.Snapshot, storedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.storedAt = storedAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, storedAt: storedAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) unlink(e *entry) {
	if e.prev == nil {
		c.head = e.next
	} else {
		e.prev.next = e.next
	}
	if e.next == nil {
		c.tail = e.prev
	} else {
		e.next.prev = e.prev
	}
}

func (c *lruCache) evictTail() {
	if victim := c.tail; victim != nil {
		c.unlink(victim)
		delete(c.entries, victim.key)
	}
}
