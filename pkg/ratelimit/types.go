package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of a rate limit check.
type Result struct {
	// Allowed reports whether the request fits in the current window.
	Allowed bool

	// Limit is the ceiling for one window.
	Limit int

	// Remaining is how many more requests the window accepts. Never negative.
	Remaining int

	// ResetAt is when the current window expires.
	ResetAt time.Time
}

// RetryAfter returns the wait until the window resets, or zero when allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

// Limiter decides whether a caller identified by key may proceed.
type Limiter interface {
	// Allow consumes one unit for key and reports the outcome. Every call
	// counts, whether or not it is permitted.
	Allow(ctx context.Context, key string) (*Result, error)

	// Status reports the current window for key without consuming.
	Status(ctx context.Context, key string) (*Result, error)
}

// Store persists fixed-window counters.
type Store interface {
	// IncrementAndGet adds incr to the counter for key, starting a new window of
	// the given length when none is active, and returns the new count together
	// with the time left in the window. It must be atomic per key.
	IncrementAndGet(ctx context.Context, key string, incr int, window time.Duration) (current int64, ttl time.Duration, err error)

	// Get returns the count and remaining window time for key. A missing or
	// expired key yields zero values.
	Get(ctx context.Context, key string) (current int64, ttl time.Duration, err error)
}
