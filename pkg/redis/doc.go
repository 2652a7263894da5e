// Package redis connects to the optional shared store used for rate-limit
// counters and cached lookup results.
//
// The store is addressed either by REDIS_URL or by REDIS_HOST, REDIS_PORT and
// REDIS_PASSWORD (host form wins). Leaving both unset is a supported
// deployment: Config.Configured reports false and callers run without a store.
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		// run degraded: in-process limiter, no cache
//	}
//
// Client options carry finite dial, read and write timeouts so a hung store
// turns into an error rather than a stalled request.
package redis
