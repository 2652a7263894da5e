package llm_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packagepal/gateway/pkg/llm"
)

type countingClient struct {
	calls atomic.Int32
}

func (c *countingClient) Name() string { return "counting" }

func (c *countingClient) Query(context.Context, llm.Request) (string, error) {
	c.calls.Add(1)
	return "[]", nil
}

func TestThrottle(t *testing.T) {
	t.Parallel()

	t.Run("disabled returns the client", func(t *testing.T) {
		t.Parallel()
		next := &countingClient{}
		assert.Same(t, next, llm.Throttle(next, 0, 1, time.Second))
	})

	t.Run("rejects past burst without wait", func(t *testing.T) {
		t.Parallel()
		next := &countingClient{}
		c := llm.Throttle(next, 0.001, 2, 0)
		assert.Equal(t, "counting", c.Name())

		for range 2 {
			_, err := c.Query(context.Background(), llm.Request{})
			require.NoError(t, err)
		}
		_, err := c.Query(context.Background(), llm.Request{})
		assert.ErrorIs(t, err, llm.ErrTransport)
		assert.ErrorIs(t, err, llm.ErrThrottled)
		assert.EqualValues(t, 2, next.calls.Load())
	})

	t.Run("gives up after max wait", func(t *testing.T) {
		t.Parallel()
		next := &countingClient{}
		c := llm.Throttle(next, 0.001, 1, 20*time.Millisecond)

		_, err := c.Query(context.Background(), llm.Request{})
		require.NoError(t, err)

		start := time.Now()
		_, err = c.Query(context.Background(), llm.Request{})
		assert.ErrorIs(t, err, llm.ErrThrottled)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("waits for a token", func(t *testing.T) {
		t.Parallel()
		next := &countingClient{}
		c := llm.Throttle(next, 50, 1, time.Second)

		for range 3 {
			_, err := c.Query(context.Background(), llm.Request{})
			require.NoError(t, err)
		}
		assert.EqualValues(t, 3, next.calls.Load())
	})

	t.Run("forwards configured", func(t *testing.T) {
		t.Parallel()
		g, err := llm.NewGemini(context.Background(), "")
		require.NoError(t, err)
		c := llm.Throttle(g, 1, 1, time.Second)
		conf, ok := c.(interface{ Configured() bool })
		require.True(t, ok)
		assert.False(t, conf.Configured())
	})
}
