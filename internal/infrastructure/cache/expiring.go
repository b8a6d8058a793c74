// Package cache provides the process-wide TTL caches used by the retrieval
// layer: an in-memory expiring store, a size-bounded memoizing wrapper for
// pure functions, and a Redis-backed store implementing the same contract.
// Instances are constructed once at startup and injected into consumers so
// tests can isolate state with fresh instances.
package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is the expiry applied to retrieval-layer cache entries.
const DefaultTTL = 86400 * time.Second

// Clock returns the current time. Injected into cache constructors so TTL
// behaviour is deterministic under test.
type Clock func() time.Time

// TTLStore is the contract the retrieval layer depends on. Both the
// in-memory Expiring store and the Redis store satisfy it; lookups that fail
// for infrastructure reasons are reported as misses, never as errors.
type TTLStore[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Put(ctx context.Context, key string, value V)
}

type entry[V any] struct {
	storedAt time.Time
	value    V
}

// Expiring is an in-memory time-bounded key-value store. A stored value is
// returned unchanged while now-storedAt < ttl and treated as absent
// afterwards. Expired entries are not removed on read (lazy invalidation);
// the store grows until externally bounded. Safe for concurrent use.
type Expiring[V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     Clock
	entries map[string]entry[V]
}

// ExpiringOption configures an Expiring store.
type ExpiringOption[V any] func(*Expiring[V])

// WithClock overrides the time source, for deterministic TTL tests.
func WithClock[V any](now Clock) ExpiringOption[V] {
	return func(c *Expiring[V]) {
		if now != nil {
			c.now = now
		}
	}
}

// NewExpiring constructs an Expiring store with the given TTL. A ttl <= 0
// falls back to DefaultTTL.
func NewExpiring[V any](ttl time.Duration, opts ...ExpiringOption[V]) *Expiring[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Expiring[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key and true while the entry is fresh.
// It returns the zero value and false if the key was never stored or the
// entry has expired. The expired entry is left in place.
func (c *Expiring[V]) Get(_ context.Context, key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value under key with the current timestamp, replacing any
// previous entry.
func (c *Expiring[V]) Put(_ context.Context, key string, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{storedAt: c.now(), value: value}
	c.mu.Unlock()
}

// Len returns the number of entries currently held, including expired ones
// that have not been overwritten.
func (c *Expiring[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
