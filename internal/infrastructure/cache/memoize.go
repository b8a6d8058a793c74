package cache

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultMemoizerSize bounds a Memoizer when no explicit size is given.
const DefaultMemoizerSize = 128

// Memoizer caches the results of a pure function under a TTL and a size
// bound. On insertion beyond the bound the single entry with the oldest
// timestamp is evicted (linear scan; ties are implementation-defined, which
// is acceptable because timestamps are near-unique at sub-millisecond
// resolution). Concurrent loads of the same key are collapsed into one call.
type Memoizer[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	now     Clock
	entries map[K]entry[V]
	group   singleflight.Group
}

// MemoizerOption configures a Memoizer.
type MemoizerOption[K comparable, V any] func(*Memoizer[K, V])

// WithMemoizerClock overrides the time source.
func WithMemoizerClock[K comparable, V any](now Clock) MemoizerOption[K, V] {
	return func(m *Memoizer[K, V]) {
		if now != nil {
			m.now = now
		}
	}
}

// WithMaxSize overrides the entry bound.
func WithMaxSize[K comparable, V any](n int) MemoizerOption[K, V] {
	return func(m *Memoizer[K, V]) {
		if n > 0 {
			m.maxSize = n
		}
	}
}

// NewMemoizer constructs a Memoizer with the given TTL. A ttl <= 0 falls
// back to DefaultTTL.
func NewMemoizer[K comparable, V any](ttl time.Duration, opts ...MemoizerOption[K, V]) *Memoizer[K, V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memoizer[K, V]{
		ttl:     ttl,
		maxSize: DefaultMemoizerSize,
		now:     time.Now,
		entries: make(map[K]entry[V]),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do returns the cached value for key when fresh, otherwise calls load,
// caches a successful result, and returns it. Load errors are returned to
// the caller and never cached.
func (m *Memoizer[K, V]) Do(key K, load func() (V, error)) (V, error) {
	m.mu.Lock()
	if e, ok := m.entries[key]; ok && m.now().Sub(e.storedAt) < m.ttl {
		m.mu.Unlock()
		return e.value, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do(fmt.Sprintf("%v", key), func() (interface{}, error) {
		value, loadErr := load()
		if loadErr != nil {
			return nil, loadErr
		}
		m.store(key, value)
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

func (m *Memoizer[K, V]) store(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry[V]{storedAt: m.now(), value: value}
	if len(m.entries) > m.maxSize {
		m.evictOldestLocked()
	}
}

// evictOldestLocked removes the single entry with the oldest timestamp.
func (m *Memoizer[K, V]) evictOldestLocked() {
	var (
		oldestKey K
		oldestAt  time.Time
		found     bool
	)
	for k, e := range m.entries {
		if !found || e.storedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.storedAt
			found = true
		}
	}
	if found {
		delete(m.entries, oldestKey)
	}
}

// Len returns the number of cached entries, including stale ones.
func (m *Memoizer[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
