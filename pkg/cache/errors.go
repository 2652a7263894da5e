package cache

import "errors"

var (
	ErrStoreUnavailable = errors.New("cache store unavailable")
	ErrInvalidTTL       = errors.New("cache ttl must be positive")
)
