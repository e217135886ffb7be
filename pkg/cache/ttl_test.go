package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, reap time.Duration, opts ...Option[int]) *TTL[int] {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	c := NewTTL(ctx, reap, opts...)
	t.Cleanup(c.Close)
	return c
}

func TestSetGet(t *testing.T) {
	c := newStore(t, time.Minute)

	c.Set("a", 1, time.Minute)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 2, time.Minute)
	v, _ = c.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c := newStore(t, 10*time.Millisecond)

	c.Set("pinned", 7, 0)
	time.Sleep(50 * time.Millisecond)
	v, ok := c.Get("pinned")
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestLazyExpiry(t *testing.T) {
	// Long reap interval so expiry is enforced on read, not by the reaper.
	c := newStore(t, time.Hour)

	c.Set("a", 1, 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTouchExtendsLifetime(t *testing.T) {
	c := newStore(t, time.Hour)

	c.Set("a", 1, 60*time.Millisecond)
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		require.True(t, c.Touch("a", 60*time.Millisecond))
	}
	_, ok := c.Get("a")
	assert.True(t, ok)

	assert.False(t, c.Touch("missing", time.Minute))

	time.Sleep(90 * time.Millisecond)
	assert.False(t, c.Touch("a", time.Minute))
}

func TestDelete(t *testing.T) {
	c := newStore(t, time.Minute)

	c.Set("a", 1, time.Minute)
	v, ok := c.Delete("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Delete("a")
	assert.False(t, ok)
}

func TestDeleteExpiredEvicts(t *testing.T) {
	var evicted []string
	c := newStore(t, time.Hour, WithEvictCallback(func(key string, _ int) {
		evicted = append(evicted, key)
	}))

	c.Set("a", 1, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Delete("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, evicted)
}

func TestReaperEvicts(t *testing.T) {
	var mu sync.Mutex
	var evicted []string
	c := newStore(t, 10*time.Millisecond, WithEvictCallback(func(key string, _ int) {
		mu.Lock()
		evicted = append(evicted, key)
		mu.Unlock()
	}))

	c.Set("a", 1, 15*time.Millisecond)
	c.Set("b", 2, time.Minute)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(evicted) == 1 && evicted[0] == "a"
	}, time.Second, 5*time.Millisecond)

	_, ok := c.Get("b")
	assert.True(t, ok)
}

func TestRangeSkipsExpired(t *testing.T) {
	c := newStore(t, time.Hour)

	c.Set("live", 1, time.Minute)
	c.Set("dead", 2, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	var keys []string
	c.Range(func(key string, _ int) bool {
		keys = append(keys, key)
		return true
	})
	assert.Equal(t, []string{"live"}, keys)
}

func TestRangeEarlyStop(t *testing.T) {
	c := newStore(t, time.Minute)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	visits := 0
	c.Range(func(string, int) bool {
		visits++
		return false
	})
	assert.Equal(t, 1, visits)
}

func TestConcurrentAccess(t *testing.T) {
	c := newStore(t, 10*time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n))
			for j := 0; j < 200; j++ {
				c.Set(key, j, time.Millisecond)
				c.Get(key)
				c.Touch(key, time.Millisecond)
			}
		}(i)
	}
	wg.Wait()
}
