// Package ratelimit implements the per-client fixed-window quota.
//
// FixedWindow counts requests per key in windows of fixed length. Each Allow
// call increments the counter first and then compares it to the limit, so a
// caller hammering a closed window keeps it closed.
//
// Counters live in a Store:
//
//   - RedisStore runs a single Lua script per call (INCRBY plus PEXPIRE on the
//     first hit), which keeps the check atomic across gateway instances.
//   - MemoryStore is an in-process map with the same semantics.
//   - FailoverStore prefers a primary store and falls back to a MemoryStore
//     when the primary is missing or failing.
//
// Typical wiring:
//
//	var primary ratelimit.Store
//	if client != nil {
//		primary = ratelimit.NewRedisStore(client)
//	}
//	store, _ := ratelimit.NewFailoverStore(primary, ratelimit.NewMemoryStore())
//	limiter, _ := ratelimit.NewFixedWindow(store, 10, time.Minute, ratelimit.WithKeyPrefix("rl:"))
//
// SetHeaders renders a Result as X-RateLimit-* and Retry-After headers.
package ratelimit
