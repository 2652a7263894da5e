package finder

import "errors"

var (
	ErrInvalidBody      = errors.New("invalid request body")
	ErrMissingFields    = errors.New("missing required fields")
	ErrInvalidFieldType = errors.New("fields must be strings")
	ErrSameLanguage     = errors.New("source and target languages must differ")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrMalformedOutput  = errors.New("upstream output is not valid JSON")
)

var (
	ErrLimiterRequired = errors.New("finder: rate limiter is required")
	ErrClientRequired  = errors.New("finder: upstream client is required")
)
