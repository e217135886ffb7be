package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prometheus/client_golang/prometheus"
)

func TestProcessesSubmittedWork(t *testing.T) {
	var processed atomic.Int64
	p := NewPool(2, 16, func(_ context.Context, n int) error {
		processed.Add(int64(n))
		return nil
	})
	require.NoError(t, p.Start(context.Background()))
	defer func() { _ = p.Stop(time.Second) }()

	for i := 1; i <= 5; i++ {
		require.NoError(t, p.Submit(i))
	}
	require.Eventually(t, func() bool {
		return processed.Load() == 15
	}, time.Second, 5*time.Millisecond)

	stats := p.Stats()
	assert.Equal(t, int64(5), stats.Submitted)
	assert.Equal(t, int64(5), stats.Processed)
	assert.Equal(t, int64(0), stats.Failed)
}

func TestSubmitBeforeStart(t *testing.T) {
	p := NewPool(1, 4, func(context.Context, int) error { return nil })
	assert.ErrorIs(t, p.Submit(1), ErrPoolNotStarted)
}

func TestSubmitAfterStop(t *testing.T) {
	p := NewPool(1, 4, func(context.Context, int) error { return nil })
	require.NoError(t, p.Start(context.Background()))
	require.NoError(t, p.Stop(time.Second))
	assert.ErrorIs(t, p.Submit(1), ErrPoolStopped)
}

func TestDoubleStart(t *testing.T) {
	p := NewPool(1, 4, func(context.Context, int) error { return nil })
	require.NoError(t, p.Start(context.Background()))
	defer func() { _ = p.Stop(time.Second) }()
	assert.ErrorIs(t, p.Start(context.Background()), ErrPoolAlreadyStarted)
}

func TestQueueFullDropsWork(t *testing.T) {
	release := make(chan struct{})
	p := NewPool(1, 1, func(context.Context, int) error {
		<-release
		return nil
	})
	require.NoError(t, p.Start(context.Background()))
	defer func() {
		close(release)
		_ = p.Stop(time.Second)
	}()

	// First item occupies the worker, second fills the queue; eventually a
	// submit must be dropped.
	var dropped bool
	for i := 0; i < 4; i++ {
		if err := p.Submit(i); err != nil {
			require.ErrorIs(t, err, ErrQueueFull)
			dropped = true
			break
		}
	}
	require.True(t, dropped)
	assert.Positive(t, p.Stats().Dropped)
}

func TestFailedWorkCounts(t *testing.T) {
	p := NewPool(1, 4, func(context.Context, int) error { return assert.AnError })
	require.NoError(t, p.Start(context.Background()))
	defer func() { _ = p.Stop(time.Second) }()

	require.NoError(t, p.Submit(1))
	require.Eventually(t, func() bool {
		return p.Stats().Failed == 1
	}, time.Second, 5*time.Millisecond)
}

func TestStopDrainsInFlight(t *testing.T) {
	var mu sync.Mutex
	var done []int
	p := NewPool(2, 16, func(_ context.Context, n int) error {
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		done = append(done, n)
		mu.Unlock()
		return nil
	})
	require.NoError(t, p.Start(context.Background()))

	for i := 0; i < 6; i++ {
		require.NoError(t, p.Submit(i))
	}
	require.NoError(t, p.Stop(2*time.Second))

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, done, 6)
}

func TestStopTimeout(t *testing.T) {
	block := make(chan struct{})
	p := NewPool(1, 4, func(context.Context, int) error {
		<-block
		return nil
	})
	require.NoError(t, p.Start(context.Background()))
	require.NoError(t, p.Submit(1))

	err := p.Stop(20 * time.Millisecond)
	assert.ErrorIs(t, err, ErrStopTimeout)
	close(block)
}

func TestStopIdempotent(t *testing.T) {
	p := NewPool(1, 4, func(context.Context, int) error { return nil })
	require.NoError(t, p.Start(context.Background()))
	require.NoError(t, p.Stop(time.Second))
	require.NoError(t, p.Stop(time.Second))
}

func TestContextCancelStopsWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var processed atomic.Int64
	p := NewPool(1, 4, func(context.Context, int) error {
		processed.Add(1)
		return nil
	})
	require.NoError(t, p.Start(ctx))

	require.NoError(t, p.Submit(1))
	require.Eventually(t, func() bool {
		return processed.Load() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	// Workers exit on context cancellation; Stop then returns promptly.
	assert.NoError(t, p.Stop(time.Second))
}

func TestNilProcessorPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewPool[int](1, 4, nil)
	})
}

func TestWithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPool(1, 4,
		func(context.Context, int) error { return nil },
		WithMetrics[int](reg, "testpool"))
	require.NoError(t, p.Start(context.Background()))
	defer func() { _ = p.Stop(time.Second) }()

	require.NoError(t, p.Submit(1))
	require.Eventually(t, func() bool {
		return p.Stats().Processed == 1
	}, time.Second, 5*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]struct{}, len(families))
	for _, f := range families {
		names[f.GetName()] = struct{}{}
	}
	assert.Contains(t, names, "testpool_submitted_total")
	assert.Contains(t, names, "testpool_processed_total")
}
