package ratelimit

import (
	"context"
	"errors"
	"time"
)

// FixedWindow implements Limiter with a counter that resets every window.
// The counter is incremented before it is compared, so rejected requests
// still count against the caller.
type FixedWindow struct {
	store  Store
	limit  int
	window time.Duration
	prefix string
}

// FixedWindowOption configures a FixedWindow.
type FixedWindowOption func(*FixedWindow)

// WithKeyPrefix namespaces counter keys, e.g. "rl:" so they do not collide
// with cached results in a shared store.
func WithKeyPrefix(prefix string) FixedWindowOption {
	return func(l *FixedWindow) {
		l.prefix = prefix
	}
}

// NewFixedWindow creates a limiter allowing limit requests per window.
func NewFixedWindow(store Store, limit int, window time.Duration, opts ...FixedWindowOption) (*FixedWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidInterval
	}

	l := &FixedWindow{
		store:  store,
		limit:  limit,
		window: window,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	count, ttl, err := l.store.IncrementAndGet(ctx, l.prefix+key, 1, l.window)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	return l.result(count, count <= int64(l.limit), ttl), nil
}

func (l *FixedWindow) Status(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	count, ttl, err := l.store.Get(ctx, l.prefix+key)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	if ttl <= 0 {
		ttl = l.window
	}

	return l.result(count, count < int64(l.limit), ttl), nil
}

func (l *FixedWindow) result(count int64, allowed bool, ttl time.Duration) *Result {
	if ttl <= 0 {
		ttl = l.window
	}
	return &Result{
		Allowed:   allowed,
		Limit:     l.limit,
		Remaining: int(max(int64(l.limit)-count, 0)),
		ResetAt:   time.Now().Add(ttl),
	}
}
