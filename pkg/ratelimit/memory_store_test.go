package ratelimit_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packagepal/gateway/pkg/ratelimit"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryStore_IncrementAndGet(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := ratelimit.NewMemoryStore(ratelimit.WithClock(clock.Now))
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	count, ttl, err := store.IncrementAndGet(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Minute, ttl)

	clock.Advance(20 * time.Second)
	count, ttl, err = store.IncrementAndGet(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 40*time.Second, ttl, "window does not slide on later hits")

	count, _, err = store.IncrementAndGet(ctx, "b", 1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "keys are independent")

	clock.Advance(40 * time.Second)
	count, ttl, err = store.IncrementAndGet(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "expired window starts over")
	assert.Equal(t, time.Minute, ttl)
}

func TestMemoryStore_Get(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := ratelimit.NewMemoryStore(ratelimit.WithClock(clock.Now))
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	count, ttl, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, ttl)

	_, _, err = store.IncrementAndGet(ctx, "k", 3, time.Minute)
	require.NoError(t, err)

	count, ttl, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, time.Minute, ttl)

	clock.Advance(time.Minute)
	count, ttl, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, count, "expired window reads as empty")
	assert.Zero(t, ttl)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := store.IncrementAndGet(ctx, "shared", 1, time.Minute)
			assert.NoError(t, err, fmt.Sprintf("worker %d", i))
		}()
	}
	wg.Wait()

	count, _, err := store.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, int64(workers), count)
}

func TestMemoryStore_CloseTwice(t *testing.T) {
	t.Parallel()
	store := ratelimit.NewMemoryStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
