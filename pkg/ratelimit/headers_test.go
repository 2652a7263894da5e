package ratelimit_test

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/packagepal/gateway/pkg/ratelimit"
)

func TestSetHeaders(t *testing.T) {
	t.Parallel()

	t.Run("allowed", func(t *testing.T) {
		t.Parallel()
		reset := time.Now().Add(30 * time.Second)
		h := http.Header{}
		ratelimit.SetHeaders(h, &ratelimit.Result{Allowed: true, Limit: 10, Remaining: 4, ResetAt: reset})

		assert.Equal(t, "10", h.Get(ratelimit.HeaderLimit))
		assert.Equal(t, "4", h.Get(ratelimit.HeaderRemaining))
		assert.Equal(t, strconv.FormatInt(reset.Unix(), 10), h.Get(ratelimit.HeaderReset))
		assert.Empty(t, h.Get(ratelimit.HeaderRetryAfter))
	})

	t.Run("rejected", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		ratelimit.SetHeaders(h, &ratelimit.Result{Limit: 10, ResetAt: time.Now().Add(42*time.Second + 300*time.Millisecond)})

		assert.Equal(t, "0", h.Get(ratelimit.HeaderRemaining))
		assert.Equal(t, "43", h.Get(ratelimit.HeaderRetryAfter))
	})

	t.Run("retry after floor", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		ratelimit.SetHeaders(h, &ratelimit.Result{Limit: 10, ResetAt: time.Now().Add(-time.Second)})
		assert.Equal(t, "1", h.Get(ratelimit.HeaderRetryAfter))
	})

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		ratelimit.SetHeaders(h, nil)
		assert.Empty(t, h)
	})
}
