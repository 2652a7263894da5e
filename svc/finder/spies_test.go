package finder_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/packagepal/gateway/pkg/llm"
	"github.com/packagepal/gateway/pkg/ratelimit"
	"github.com/packagepal/gateway/svc/finder"
)

const fiveOfSeven = `[
	{"name":"axios","description":"Promise based HTTP client.","url":"https://axios-http.com"},
	{"name":"got","description":"Human-friendly HTTP request library."},
	{"name":"node-fetch","description":"Fetch API for Node.js."},
	{"name":"superagent","description":"Small progressive HTTP client."},
	{"name":"ky","description":"Tiny HTTP client based on fetch."},
	{"name":"undici","description":"HTTP/1.1 client written from scratch."},
	{"name":"needle","description":"Lean HTTP client."}
]`

type spyClient struct {
	resp  string
	err   error
	calls atomic.Int32
	// release, when set, blocks Query until closed.
	release chan struct{}
	last    atomic.Pointer[llm.Request]
}

func (c *spyClient) Name() string { return "spy" }

func (c *spyClient) Query(ctx context.Context, req llm.Request) (string, error) {
	c.calls.Add(1)
	c.last.Store(&req)
	if c.release != nil {
		select {
		case <-c.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return c.resp, c.err
}

type unconfiguredClient struct{ spyClient }

func (c *unconfiguredClient) Configured() bool { return false }

type spyCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setErr  error
	gets    atomic.Int32
	sets    atomic.Int32
	lastTTL time.Duration
}

func newSpyCache() *spyCache { return &spyCache{data: map[string][]byte{}} }

func (c *spyCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.gets.Add(1)
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *spyCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.sets.Add(1)
	if c.setErr != nil {
		return c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.lastTTL = ttl
	return nil
}

func (c *spyCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// brokenStore fails every call, like an unreachable Redis.
type brokenStore struct{}

func (brokenStore) IncrementAndGet(context.Context, string, int, time.Duration) (int64, time.Duration, error) {
	return 0, 0, ratelimit.ErrStoreFailure
}

func (brokenStore) Get(context.Context, string) (int64, time.Duration, error) {
	return 0, 0, ratelimit.ErrStoreFailure
}

func newLimiter(t *testing.T, limit int) *ratelimit.FixedWindow {
	t.Helper()
	store := ratelimit.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	l, err := ratelimit.NewFixedWindow(store, limit, time.Minute, ratelimit.WithKeyPrefix("rl:"))
	require.NoError(t, err)
	return l
}

func newService(t *testing.T, client llm.Client, opts ...finder.Option) (*finder.Service, *ratelimit.FixedWindow) {
	t.Helper()
	limiter := newLimiter(t, 10)
	svc, err := finder.NewService(finder.DefaultConfig(), limiter, client, opts...)
	require.NoError(t, err)
	return svc, limiter
}

func lodash() finder.LookupRequest {
	return finder.LookupRequest{SourcePackage: "lodash", SourceLang: "javascript", TargetLang: "python"}
}
