// Package cache is the process-wide TTL cache that sits in front of the
// document store. Expiry is lazy: an entry is checked when it is read and
// evicted then, nothing sweeps in the background.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/prometheus/client_golang/prometheus"
)

const defaultCapacity = 10_000

var Requests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "restaurant_cache_requests_total",
		Help: "Cache lookups by result",
	},
	[]string{"result"},
)

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.storedAt) >= e.ttl
}

// EntryInfo is the diagnostic view of one key.
type EntryInfo struct {
	Key       string        `json:"key"`
	Age       time.Duration `json:"age"`
	Remaining time.Duration `json:"remaining"`
	Expired   bool          `json:"expired"`
}

type Option func(*TTLCache)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *TTLCache) { c.now = now }
}

func WithCapacity(n uint64) Option {
	return func(c *TTLCache) { c.capacity = n }
}

type TTLCache struct {
	mu       sync.Mutex
	items    *ttlcache.Cache[string, entry]
	now      func() time.Time
	capacity uint64
}

func New(opts ...Option) *TTLCache {
	c := &TTLCache{now: time.Now, capacity: defaultCapacity}
	for _, opt := range opts {
		opt(c)
	}
	// Start() is never called: no cleanup goroutine.
	c.items = ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, entry](),
		ttlcache.WithCapacity[string, entry](c.capacity),
	)
	return c
}

// Set stores value under key; the expiry is fixed at insertion time.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	// ttlcache keeps no expiry of its own; entry.expired against c.now is the
	// only clock, so stale entries stay visible to Get and Info.
	c.items.Set(key, entry{value: value, storedAt: c.now(), ttl: ttl}, ttlcache.NoTTL)
}

// Get returns the value and true while the entry is fresh. A stale entry is
// evicted and reported as a miss.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := c.items.Get(key)
	if item == nil {
		Requests.WithLabelValues("miss").Inc()
		return nil, false
	}
	e := item.Value()
	if e.expired(c.now()) {
		c.items.Delete(key)
		Requests.WithLabelValues("miss").Inc()
		return nil, false
	}
	Requests.WithLabelValues("hit").Inc()
	return e.value, true
}

func (c *TTLCache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Invalidate removes key; absent keys are fine.
func (c *TTLCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Delete(key)
}

func (c *TTLCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.DeleteAll()
}

// Info lists every stored key with its age and remaining TTL. It never
// evicts, stale entries are simply flagged.
func (c *TTLCache) Info() []EntryInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	items := c.items.Items()
	out := make([]EntryInfo, 0, len(items))
	for key, item := range items {
		e := item.Value()
		age := now.Sub(e.storedAt)
		remaining := e.ttl - age
		if remaining < 0 {
			remaining = 0
		}
		out = append(out, EntryInfo{
			Key:       key,
			Age:       age,
			Remaining: remaining,
			Expired:   e.expired(now),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Lookup is Get with a type assertion; a value of the wrong type is a miss.
func Lookup[T any](c *TTLCache, key string) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
