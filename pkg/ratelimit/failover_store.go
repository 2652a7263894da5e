package ratelimit

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/packagepal/gateway/pkg/logger"
)

// FailoverStore sends every call to the primary store and falls back to an
// in-process store when the primary is absent or returns an error.
// The fallback keeps the same fixed-window semantics but is local to this
// process, so the effective quota multiplies by the instance count while the
// primary is down.
type FailoverStore struct {
	primary  Store
	fallback Store
	log      *slog.Logger
	degraded atomic.Bool
	onFail   func()
}

// FailoverOption configures a FailoverStore.
type FailoverOption func(*FailoverStore)

// WithFailoverLogger sets the logger used for degraded-mode transitions.
func WithFailoverLogger(l *slog.Logger) FailoverOption {
	return func(s *FailoverStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithFallbackHook registers fn to run every time a call is served by the fallback.
func WithFallbackHook(fn func()) FailoverOption {
	return func(s *FailoverStore) {
		s.onFail = fn
	}
}

// NewFailoverStore wraps primary with fallback. A nil primary is valid and
// means the fallback serves every call.
func NewFailoverStore(primary, fallback Store, opts ...FailoverOption) (*FailoverStore, error) {
	if fallback == nil {
		return nil, ErrStoreRequired
	}
	s := &FailoverStore{
		primary:  primary,
		fallback: fallback,
		log:      logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Degraded reports whether the last call was served by the fallback.
func (s *FailoverStore) Degraded() bool {
	return s.primary == nil || s.degraded.Load()
}

func (s *FailoverStore) IncrementAndGet(ctx context.Context, key string, incr int, window time.Duration) (int64, time.Duration, error) {
	if s.primary != nil {
		count, ttl, err := s.primary.IncrementAndGet(ctx, key, incr, window)
		if err == nil {
			s.recovered(ctx)
			return count, ttl, nil
		}
		s.failed(ctx, err)
	} else {
		s.hook()
	}
	return s.fallback.IncrementAndGet(ctx, key, incr, window)
}

func (s *FailoverStore) Get(ctx context.Context, key string) (int64, time.Duration, error) {
	if s.primary != nil {
		count, ttl, err := s.primary.Get(ctx, key)
		if err == nil {
			s.recovered(ctx)
			return count, ttl, nil
		}
		s.failed(ctx, err)
	}
	return s.fallback.Get(ctx, key)
}

func (s *FailoverStore) failed(ctx context.Context, err error) {
	if !s.degraded.Swap(true) {
		s.log.WarnContext(ctx, "rate limit store unavailable, using in-process counters",
			logger.Component("ratelimit"),
			logger.Error(err),
		)
	}
	s.hook()
}

func (s *FailoverStore) recovered(ctx context.Context) {
	if s.degraded.Swap(false) {
		s.log.InfoContext(ctx, "rate limit store recovered",
			logger.Component("ratelimit"),
		)
	}
}

func (s *FailoverStore) hook() {
	if s.onFail != nil {
		s.onFail()
	}
}
