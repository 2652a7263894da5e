package finder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/packagepal/gateway/pkg/cache"
	"github.com/packagepal/gateway/pkg/llm"
	"github.com/packagepal/gateway/pkg/logger"
	"github.com/packagepal/gateway/pkg/ratelimit"
)

// Config holds the lookup pipeline settings.
type Config struct {
	RateLimit      int           `env:"RATE_LIMIT" envDefault:"10"`
	RateWindow     time.Duration `env:"RATE_WINDOW" envDefault:"60s"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	CachePrefix    string        `env:"CACHE_PREFIX" envDefault:"package-pal"`
	MaxSuggestions int           `env:"MAX_SUGGESTIONS" envDefault:"5"`
	Temperature    float32       `env:"LLM_TEMPERATURE" envDefault:"0.3"`
	CoalesceMisses bool          `env:"COALESCE_MISSES" envDefault:"false"`
}

// DefaultConfig mirrors the envDefault tags.
func DefaultConfig() Config {
	return Config{
		RateLimit:      10,
		RateWindow:     time.Minute,
		CacheTTL:       time.Hour,
		CachePrefix:    DefaultKeyPrefix,
		MaxSuggestions: DefaultMaxSuggestions,
		Temperature:    0.3,
	}
}

// Service runs a lookup through validation, the per-client quota, the result
// cache, the upstream model and output sanitizing.
type Service struct {
	cfg     Config
	limiter ratelimit.Limiter
	cache   cache.Store
	client  llm.Client
	factory llm.Factory
	log     *slog.Logger
	metrics Recorder
	group   singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithCache sets the result cache. Without it every lookup is a miss.
func WithCache(store cache.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.cache = store
		}
	}
}

// WithClientFactory enables lookups with caller-supplied credentials.
func WithClientFactory(f llm.Factory) Option {
	return func(s *Service) {
		s.factory = f
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.metrics = r
		}
	}
}

// NewService wires a Service. limiter and client are required.
func NewService(cfg Config, limiter ratelimit.Limiter, client llm.Client, opts ...Option) (*Service, error) {
	if limiter == nil {
		return nil, ErrLimiterRequired
	}
	if client == nil {
		return nil, ErrClientRequired
	}

	def := DefaultConfig()
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.CachePrefix == "" {
		cfg.CachePrefix = def.CachePrefix
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = def.MaxSuggestions
	}

	s := &Service{
		cfg:     cfg,
		limiter: limiter,
		cache:   cache.Noop{},
		client:  client,
		log:     logger.Noop(),
		metrics: noopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("finder"))
	return s, nil
}

// Ready reports whether the server-held credential is configured.
func (s *Service) Ready(context.Context) error {
	if c, ok := s.client.(interface{ Configured() bool }); ok && !c.Configured() {
		return llm.ErrUnconfigured
	}
	return nil
}

// Find serves a lookup with the server-held credential, subject to the
// quota for identity and backed by the result cache.
//
// The caller's cancellation is not propagated: once validation passes, the
// quota check, upstream call and cache write run to completion under their
// own timeouts even if the client goes away.
func (s *Service) Find(ctx context.Context, identity string, req LookupRequest) (*Result, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		s.metrics.ObserveLookup(outcomeBadRequest, 0)
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	res, err := s.find(ctx, identity, req)
	s.metrics.ObserveLookup(outcomeOf(res, err), time.Since(start))
	return res, err
}

// FindWithKey serves a lookup with a caller-supplied credential. It skips the
// quota and the cache entirely; the caller's account pays for the call.
func (s *Service) FindWithKey(ctx context.Context, apiKey string, req LookupRequest) (*Result, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		s.metrics.ObserveLookup(outcomeBadRequest, 0)
		return nil, err
	}
	if s.factory == nil || apiKey == "" {
		s.metrics.ObserveLookup(outcomeUnconfigured, 0)
		return nil, llm.ErrUnconfigured
	}

	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	res, err := s.findWithKey(ctx, apiKey, req)
	s.metrics.ObserveLookup(outcomeOf(res, err), time.Since(start))
	return res, err
}

func (s *Service) find(ctx context.Context, identity string, req LookupRequest) (*Result, error) {
	rl, err := s.limiter.Allow(ctx, identity)
	switch {
	case err != nil:
		// The limiter only errors when it cannot count at all; serve rather than lock everyone out.
		s.log.WarnContext(ctx, "rate limit check failed, allowing request",
			logger.ClientIP(identity),
			logger.Error(err),
		)
		rl = nil
	case !rl.Allowed:
		s.metrics.IncRateLimited()
		s.log.InfoContext(ctx, "rate limit exceeded", logger.ClientIP(identity))
		return nil, &LimitError{Result: rl}
	}

	key := CacheKey(s.cfg.CachePrefix, req)
	if res, ok := s.lookup(ctx, key); ok {
		res.RateLimit = rl
		return res, nil
	}

	var res *Result
	if s.cfg.CoalesceMisses {
		v, err, shared := s.group.Do(key, func() (any, error) {
			return s.fetch(ctx, s.client, req, key)
		})
		if err != nil {
			return nil, err
		}
		if shared {
			s.log.DebugContext(ctx, "coalesced upstream call", logger.CacheKey(key))
		}
		// Copy so concurrent callers can set their own quota state.
		cp := *v.(*Result)
		res = &cp
	} else {
		res, err = s.fetch(ctx, s.client, req, key)
		if err != nil {
			return nil, err
		}
	}

	res.RateLimit = rl
	return res, nil
}

func (s *Service) findWithKey(ctx context.Context, apiKey string, req LookupRequest) (*Result, error) {
	client, err := s.factory(ctx, apiKey)
	if err != nil {
		return nil, errors.Join(llm.ErrTransport, err)
	}

	res, err := s.fetch(ctx, client, req, "")
	if err != nil {
		return nil, err
	}
	res.Source = SourceBypass
	return res, nil
}

// lookup returns a cached result. Store errors and undecodable entries are misses.
func (s *Service) lookup(ctx context.Context, key string) (*Result, bool) {
	body, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.metrics.IncCache(cacheError)
		s.log.WarnContext(ctx, "cache read failed", logger.CacheKey(key), logger.Error(err))
		return nil, false
	}
	if !ok {
		s.metrics.IncCache(cacheMiss)
		return nil, false
	}

	var suggestions []Suggestion
	if err := json.Unmarshal(body, &suggestions); err != nil {
		s.metrics.IncCache(cacheError)
		s.log.WarnContext(ctx, "ignoring undecodable cache entry", logger.CacheKey(key), logger.Error(err))
		return nil, false
	}

	s.metrics.IncCache(cacheHit)
	s.log.DebugContext(ctx, "serving from cache", logger.CacheKey(key))
	return &Result{Body: body, Suggestions: suggestions, Source: SourceCache}, true
}

// fetch calls upstream, sanitizes the output and, when key is set, stores it.
func (s *Service) fetch(ctx context.Context, client llm.Client, req LookupRequest, key string) (*Result, error) {
	start := time.Now()
	raw, err := client.Query(ctx, s.upstreamRequest(req))
	s.metrics.ObserveUpstream(client.Name(), upstreamOutcome(err), time.Since(start))
	if err != nil {
		s.log.ErrorContext(ctx, "upstream call failed",
			logger.Provider(client.Name()),
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
		return nil, err
	}

	parsed, err := ParseSuggestions(raw, s.cfg.MaxSuggestions)
	if err != nil {
		s.log.ErrorContext(ctx, "upstream output is not valid JSON",
			logger.Provider(client.Name()),
			logger.Error(err),
		)
		return nil, err
	}
	if parsed.NotArray {
		s.log.WarnContext(ctx, "upstream output is not an array, returning no suggestions",
			logger.Provider(client.Name()),
		)
	}
	if parsed.Dropped > 0 {
		s.log.DebugContext(ctx, "dropped malformed suggestions", slog.Int("dropped", parsed.Dropped))
	}

	body, err := json.Marshal(parsed.Suggestions)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Body:        body,
		Suggestions: parsed.Suggestions,
		Source:      SourceUpstream,
	}
	if key != "" {
		res.CacheErr = s.store(ctx, key, body)
	}
	return res, nil
}

func (s *Service) store(ctx context.Context, key string, body []byte) error {
	if err := s.cache.Set(ctx, key, body, s.cfg.CacheTTL); err != nil {
		s.metrics.IncCache(cacheWriteError)
		s.log.WarnContext(ctx, "cache write failed", logger.CacheKey(key), logger.Error(err))
		return err
	}
	return nil
}

// LimitError is returned by Find when the caller is over quota.
type LimitError struct {
	Result *ratelimit.Result
}

func (e *LimitError) Error() string { return ErrRateLimited.Error() }

func (e *LimitError) Unwrap() error { return ErrRateLimited }
