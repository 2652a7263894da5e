// Command gateway serves package lookups backed by an upstream language model,
// guarded by a per-client quota and a shared result cache.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/packagepal/gateway/pkg/cache"
	"github.com/packagepal/gateway/pkg/clientip"
	"github.com/packagepal/gateway/pkg/config"
	"github.com/packagepal/gateway/pkg/cors"
	"github.com/packagepal/gateway/pkg/httpserver"
	"github.com/packagepal/gateway/pkg/llm"
	"github.com/packagepal/gateway/pkg/logger"
	"github.com/packagepal/gateway/pkg/metrics"
	"github.com/packagepal/gateway/pkg/ratelimit"
	"github.com/packagepal/gateway/pkg/redis"
	"github.com/packagepal/gateway/pkg/requestid"
	"github.com/packagepal/gateway/svc/finder"
)

func main() {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		slog.Error("failed to load config", logger.Error(err))
		os.Exit(1)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.App.Env, cfg.App.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("gateway stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := metrics.New()
	rdb := connectStore(ctx, cfg.Redis, log)
	if rdb != nil {
		defer rdb.Close()
		go probeStore(ctx, rdb, cfg.App.StoreProbe, m, log)
	}

	limiter, closeLimiter, err := newLimiter(cfg, rdb, m, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	client, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	if c, ok := client.(interface{ Configured() bool }); ok && !c.Configured() {
		log.Warn("upstream credential is not set, lookups without a caller key will fail",
			logger.Provider(client.Name()),
		)
	}

	opts := []finder.Option{
		finder.WithClientFactory(llm.NewFactory(cfg.LLM)),
		finder.WithLogger(log),
		finder.WithMetrics(m),
	}
	if rdb != nil {
		opts = append(opts, finder.WithCache(cache.NewRedisStore(rdb, cache.WithTimeout(cfg.App.StoreTimeout))))
	} else {
		opts = append(opts, finder.WithCache(cache.Noop{}))
	}

	svc, err := finder.NewService(cfg.Finder, limiter, client, opts...)
	if err != nil {
		return err
	}

	router := newRouter(routerDeps{
		log:      log,
		service:  svc,
		resolver: clientip.NewResolver(clientip.WithTrustProxy(cfg.App.TrustProxyHeaders)),
		metrics:  m,
		origins:  cfg.CORS.Origins(),
		corsOpts: []cors.Option{cors.WithMaxAge(cfg.CORS.MaxAge)},
	})

	srv := httpserver.New(cfg.HTTP,
		httpserver.WithLogger(log),
		// Stop the store probe before the deferred client Close runs.
		httpserver.WithStopHook(func(context.Context) { cancel() }),
	)
	return srv.Run(ctx, router)
}

// connectStore returns nil when Redis is not configured or unreachable; the
// gateway then runs with in-process quotas and no result cache.
func connectStore(ctx context.Context, cfg redis.Config, log *slog.Logger) *goredis.Client {
	if !cfg.Configured() {
		log.Warn("redis is not configured, using in-process rate limiting without a result cache")
		return nil
	}

	log.Info("connecting to redis")
	rdb, err := redis.Connect(ctx, cfg)
	if err != nil {
		log.Error("redis unavailable, using in-process rate limiting without a result cache", logger.Error(err))
		return nil
	}
	log.Info("connected to redis")
	return rdb
}

func newLimiter(cfg Config, rdb *goredis.Client, m *metrics.Metrics, log *slog.Logger) (ratelimit.Limiter, func(), error) {
	fallback := ratelimit.NewMemoryStore()
	closer := func() { _ = fallback.Close() }

	// A nil primary makes the failover store serve from memory only.
	var primary ratelimit.Store
	if rdb != nil {
		primary = ratelimit.NewRedisStore(rdb, ratelimit.WithOperationTimeout(cfg.App.StoreTimeout))
	}

	store, err := ratelimit.NewFailoverStore(primary, fallback,
		ratelimit.WithFailoverLogger(log),
		ratelimit.WithFallbackHook(m.IncLimiterFallback),
	)
	if err != nil {
		closer()
		return nil, nil, err
	}

	limiter, err := ratelimit.NewFixedWindow(store, cfg.Finder.RateLimit, cfg.Finder.RateWindow, ratelimit.WithKeyPrefix("rl:"))
	if err != nil {
		closer()
		return nil, nil, errors.Join(errors.New("invalid rate limit config"), err)
	}
	m.SetStoreDegraded(store.Degraded())
	return limiter, closer, nil
}

// probeStore pings Redis periodically and exports its state as a gauge.
func probeStore(ctx context.Context, rdb *goredis.Client, every time.Duration, m *metrics.Metrics, log *slog.Logger) {
	if every <= 0 {
		return
	}
	check := redis.Healthcheck(rdb)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, time.Second)
			err := check(pingCtx)
			cancel()

			m.SetStoreDegraded(err != nil)
			if ok := err == nil; ok != healthy {
				healthy = ok
				if ok {
					log.Info("redis reachable again")
				} else {
					log.Warn("redis probe failed", logger.Error(err))
				}
			}
		}
	}
}
