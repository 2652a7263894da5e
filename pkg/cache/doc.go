// Package cache provides the result cache used by the lookup service.
//
// RedisStore keeps entries in the shared Redis instance with a TTL; entries
// are never invalidated explicitly. Noop is used when no store is configured
// and turns every lookup into a miss.
//
// Callers treat Get errors as misses and Set errors as non-fatal.
package cache
