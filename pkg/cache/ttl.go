// Package cache provides a generic, thread-safe TTL store with per-entry
// expiry. Expiry is enforced lazily on read, with a background reaper
// bounding memory growth; readers never observe an expired entry.
package cache

import (
	"context"
	"sync"
	"time"
)

// EvictCallback is invoked when an entry expires or is explicitly deleted
// after having expired. It runs outside the store lock.
type EvictCallback[V any] func(key string, value V)

type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiry
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// TTL is a thread-safe store whose entries carry individual lifetimes.
type TTL[V any] struct {
	mu      sync.RWMutex
	items   map[string]*entry[V]
	evictFn EvictCallback[V]

	shutdown chan struct{}
	once     sync.Once
}

// Option configures a TTL store.
type Option[V any] func(*TTL[V])

// WithEvictCallback registers a callback for expired entries.
func WithEvictCallback[V any](fn EvictCallback[V]) Option[V] {
	return func(c *TTL[V]) { c.evictFn = fn }
}

// NewTTL creates a TTL store and starts its reaper. The reaper stops when
// ctx is cancelled or Close is called.
func NewTTL[V any](ctx context.Context, reapInterval time.Duration, opts ...Option[V]) *TTL[V] {
	if reapInterval <= 0 {
		reapInterval = time.Minute
	}
	c := &TTL[V]{
		items:    make(map[string]*entry[V]),
		shutdown: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.reap(ctx, reapInterval)
	return c
}

// Set stores value under key with the given lifetime. A non-positive ttl
// stores the entry without expiry.
func (c *TTL[V]) Set(key string, value V, ttl time.Duration) {
	e := &entry[V]{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = e
	c.mu.Unlock()
}

// Get retrieves the value under key. An expired-but-not-yet-reaped entry
// reads as absent and is removed.
func (c *TTL[V]) Get(key string) (V, bool) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if e.expired(now) {
		c.expire(key, now)
		return zero, false
	}
	return e.value, true
}

// Touch extends the lifetime of an existing, unexpired entry. It reports
// whether the entry was present.
func (c *TTL[V]) Touch(key string, ttl time.Duration) bool {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok || e.expired(now) {
		return false
	}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	return true
}

// Delete removes the entry under key, reporting whether it was present and
// unexpired. Deleting an absent key is not an error. An expired entry is
// evicted through the callback, not returned.
func (c *TTL[V]) Delete(key string) (V, bool) {
	now := time.Now()
	c.mu.Lock()
	e, ok := c.items[key]
	if ok {
		delete(c.items, key)
	}
	c.mu.Unlock()

	var zero V
	if !ok {
		return zero, false
	}
	if e.expired(now) {
		if c.evictFn != nil {
			c.evictFn(key, e.value)
		}
		return zero, false
	}
	return e.value, true
}

// Range calls fn for every live entry. Expired entries are skipped, not
// evicted; the reaper owns eviction.
func (c *TTL[V]) Range(fn func(key string, value V) bool) {
	now := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, e := range c.items {
		if e.expired(now) {
			continue
		}
		if !fn(k, e.value) {
			return
		}
	}
}

// Len returns the number of live entries.
func (c *TTL[V]) Len() int {
	now := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, e := range c.items {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

// Close stops the reaper. Idempotent.
func (c *TTL[V]) Close() {
	c.once.Do(func() { close(c.shutdown) })
}

func (c *TTL[V]) expire(key string, now time.Time) {
	c.mu.Lock()
	e, ok := c.items[key]
	if ok && e.expired(now) {
		delete(c.items, key)
	} else {
		ok = false
	}
	c.mu.Unlock()

	if ok && c.evictFn != nil {
		c.evictFn(key, e.value)
	}
}

func (c *TTL[V]) reap(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.shutdown:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *TTL[V]) sweep() {
	now := time.Now()
	type evicted[V any] struct {
		key   string
		value V
	}
	var gone []evicted[V]

	c.mu.Lock()
	for k, e := range c.items {
		if e.expired(now) {
			delete(c.items, k)
			gone = append(gone, evicted[V]{key: k, value: e.value})
		}
	}
	c.mu.Unlock()

	if c.evictFn != nil {
		for _, g := range gone {
			c.evictFn(g.key, g.value)
		}
	}
}
