package finder

import (
	"errors"
	"time"

	"github.com/packagepal/gateway/pkg/llm"
)

// Recorder receives pipeline measurements. pkg/metrics provides the
// Prometheus implementation.
type Recorder interface {
	ObserveLookup(outcome string, d time.Duration)
	ObserveUpstream(provider, outcome string, d time.Duration)
	IncCache(result string)
	IncRateLimited()
}

const (
	outcomeHit          = "hit"
	outcomeMiss         = "miss"
	outcomeBypass       = "bypass"
	outcomeBadRequest   = "bad_request"
	outcomeRateLimited  = "rate_limited"
	outcomeUnconfigured = "unconfigured"
	outcomeUpstream     = "upstream_error"
	outcomeMalformed    = "malformed_output"
	outcomeError        = "error"

	cacheHit        = "hit"
	cacheMiss       = "miss"
	cacheError      = "read_error"
	cacheWriteError = "write_error"
)

func outcomeOf(res *Result, err error) string {
	switch {
	case err == nil && res != nil:
		switch res.Source {
		case SourceCache:
			return outcomeHit
		case SourceBypass:
			return outcomeBypass
		default:
			return outcomeMiss
		}
	case errors.Is(err, ErrRateLimited):
		return outcomeRateLimited
	case errors.Is(err, llm.ErrUnconfigured):
		return outcomeUnconfigured
	case errors.Is(err, llm.ErrTransport), errors.Is(err, llm.ErrEmptyResponse):
		return outcomeUpstream
	case errors.Is(err, ErrMalformedOutput):
		return outcomeMalformed
	default:
		return outcomeError
	}
}

func upstreamOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, llm.ErrUnconfigured):
		return "unconfigured"
	case errors.Is(err, llm.ErrEmptyResponse):
		return "empty"
	default:
		return "error"
	}
}

type noopRecorder struct{}

func (noopRecorder) ObserveLookup(string, time.Duration)           {}
func (noopRecorder) ObserveUpstream(string, string, time.Duration) {}
func (noopRecorder) IncCache(string)                               {}
func (noopRecorder) IncRateLimited()                               {}
