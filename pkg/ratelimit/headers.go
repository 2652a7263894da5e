package ratelimit

import (
	"math"
	"net/http"
	"strconv"
)

const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderReset      = "X-RateLimit-Reset"
	HeaderRetryAfter = "Retry-After"
)

// SetHeaders writes the standard quota headers for r. Retry-After is added
// only for rejected requests and is never less than one second.
func SetHeaders(h http.Header, r *Result) {
	if r == nil {
		return
	}
	h.Set(HeaderLimit, strconv.Itoa(r.Limit))
	h.Set(HeaderRemaining, strconv.Itoa(r.Remaining))
	h.Set(HeaderReset, strconv.FormatInt(r.ResetAt.Unix(), 10))

	if !r.Allowed {
		h.Set(HeaderRetryAfter, strconv.Itoa(RetryAfterSeconds(r)))
	}
}

// RetryAfterSeconds rounds the wait up to whole seconds, minimum 1.
func RetryAfterSeconds(r *Result) int {
	secs := int(math.Ceil(r.RetryAfter().Seconds()))
	return max(secs, 1)
}
