package llm

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// Throttled bounds the outbound request rate of a Client, shared by every
// caller of the same instance.
type Throttled struct {
	next    Client
	limiter *rate.Limiter
	maxWait time.Duration
}

// Throttle wraps next with a token bucket of rps requests per second and the
// given burst. A caller waits at most maxWait for a token before failing with
// ErrTransport. rps <= 0 returns next unchanged.
func Throttle(next Client, rps float64, burst int, maxWait time.Duration) Client {
	if rps <= 0 || next == nil {
		return next
	}
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), max(burst, 1)),
		maxWait: maxWait,
	}
}

func (t *Throttled) Name() string { return t.next.Name() }

// Configured forwards to the wrapped client when it reports configuration.
func (t *Throttled) Configured() bool {
	if c, ok := t.next.(interface{ Configured() bool }); ok {
		return c.Configured()
	}
	return true
}

func (t *Throttled) Query(ctx context.Context, req Request) (string, error) {
	if t.maxWait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, t.maxWait)
		defer cancel()
		if err := t.limiter.Wait(waitCtx); err != nil {
			return "", errors.Join(ErrTransport, ErrThrottled, err)
		}
	} else if !t.limiter.Allow() {
		return "", errors.Join(ErrTransport, ErrThrottled)
	}
	return t.next.Query(ctx, req)
}
