package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packagepal/gateway/pkg/llm"
)

func TestStripFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `[{"name":"a"}]`, want: `[{"name":"a"}]`},
		{name: "json fence", in: "```json\n[{\"name\":\"a\"}]\n```", want: `[{"name":"a"}]`},
		{name: "bare fence", in: "```\n[]\n```", want: `[]`},
		{name: "surrounding whitespace", in: "  \n```json\n[1]\n```\n ", want: `[1]`},
		{name: "single line fence", in: "```[1,2]```", want: `[1,2]`},
		{name: "unterminated fence", in: "```json\n[1]", want: "```json\n[1]"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, llm.StripFence(tt.in))
		})
	}
}

func testRequest() llm.Request {
	return llm.Request{
		Instruction: "You suggest packages.",
		Prompt:      "find packages",
		Temperature: 0.3,
		Schema: &llm.Schema{
			Type: llm.TypeArray,
			Items: &llm.Schema{
				Type: llm.TypeObject,
				Properties: map[string]*llm.Schema{
					"name":        {Type: llm.TypeString},
					"description": {Type: llm.TypeString},
				},
				Required: []string{"name", "description"},
			},
		},
	}
}

func TestGemini(t *testing.T) {
	t.Parallel()

	t.Run("unconfigured", func(t *testing.T) {
		t.Parallel()
		g, err := llm.NewGemini(context.Background(), "")
		require.NoError(t, err)
		assert.False(t, g.Configured())

		_, err = g.Query(context.Background(), testRequest())
		assert.ErrorIs(t, err, llm.ErrUnconfigured)
	})

	t.Run("success strips fence", func(t *testing.T) {
		t.Parallel()
		var body map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"` +
				"```json\\n[{\\\"name\\\":\\\"axios\\\",\\\"description\\\":\\\"HTTP client\\\"}]\\n```" +
				`"}]},"finishReason":"STOP"}]}`))
		}))
		t.Cleanup(srv.Close)

		g, err := llm.NewGemini(context.Background(), "test-key", llm.WithGeminiBaseURL(srv.URL+"/"))
		require.NoError(t, err)
		require.True(t, g.Configured())

		text, err := g.Query(context.Background(), testRequest())
		require.NoError(t, err)
		assert.Equal(t, `[{"name":"axios","description":"HTTP client"}]`, text)

		cfg, ok := body["generationConfig"].(map[string]any)
		require.True(t, ok, "generation config should be sent")
		assert.Equal(t, "application/json", cfg["responseMimeType"])
		assert.InDelta(t, 0.3, cfg["temperature"], 0.0001)
		assert.NotNil(t, cfg["responseSchema"])
	})

	t.Run("empty candidates", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		t.Cleanup(srv.Close)

		g, err := llm.NewGemini(context.Background(), "test-key", llm.WithGeminiBaseURL(srv.URL+"/"))
		require.NoError(t, err)

		_, err = g.Query(context.Background(), testRequest())
		assert.ErrorIs(t, err, llm.ErrEmptyResponse)
	})

	t.Run("api error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`))
		}))
		t.Cleanup(srv.Close)

		g, err := llm.NewGemini(context.Background(), "test-key", llm.WithGeminiBaseURL(srv.URL+"/"))
		require.NoError(t, err)

		_, err = g.Query(context.Background(), testRequest())
		assert.ErrorIs(t, err, llm.ErrTransport)
	})

	t.Run("timeout is a transport failure", func(t *testing.T) {
		t.Parallel()
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(func() {
			close(release)
			srv.Close()
		})

		g, err := llm.NewGemini(context.Background(), "test-key",
			llm.WithGeminiBaseURL(srv.URL+"/"),
			llm.WithGeminiTimeout(50*time.Millisecond),
		)
		require.NoError(t, err)

		_, err = g.Query(context.Background(), testRequest())
		assert.ErrorIs(t, err, llm.ErrTransport)
	})
}

func TestOpenAI(t *testing.T) {
	t.Parallel()

	t.Run("unconfigured", func(t *testing.T) {
		t.Parallel()
		o := llm.NewOpenAI("")
		assert.False(t, o.Configured())

		_, err := o.Query(context.Background(), testRequest())
		assert.ErrorIs(t, err, llm.ErrUnconfigured)
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		var body map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",` +
				`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"[]"}}]}`))
		}))
		t.Cleanup(srv.Close)

		o := llm.NewOpenAI("test-key", llm.WithOpenAIBaseURL(srv.URL+"/"))
		text, err := o.Query(context.Background(), testRequest())
		require.NoError(t, err)
		assert.Equal(t, "[]", text)

		assert.Equal(t, "gpt-4o-mini", body["model"])
		assert.InDelta(t, 0.3, body["temperature"], 0.0001)
		messages, ok := body["messages"].([]any)
		require.True(t, ok)
		assert.Len(t, messages, 2)
	})

	t.Run("no choices", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[]}`))
		}))
		t.Cleanup(srv.Close)

		o := llm.NewOpenAI("test-key", llm.WithOpenAIBaseURL(srv.URL+"/"))
		_, err := o.Query(context.Background(), testRequest())
		assert.ErrorIs(t, err, llm.ErrEmptyResponse)
	})

	t.Run("api error", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
		}))
		t.Cleanup(srv.Close)

		o := llm.NewOpenAI("test-key", llm.WithOpenAIBaseURL(srv.URL+"/"))
		_, err := o.Query(context.Background(), testRequest())
		assert.ErrorIs(t, err, llm.ErrTransport)
		assert.Equal(t, int32(1), calls.Load(), "client errors are not retried")
	})

	t.Run("server error is not retried", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
		}))
		t.Cleanup(srv.Close)

		o := llm.NewOpenAI("test-key", llm.WithOpenAIBaseURL(srv.URL+"/"))
		_, err := o.Query(context.Background(), testRequest())
		assert.ErrorIs(t, err, llm.ErrTransport)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestNewFactory(t *testing.T) {
	t.Parallel()

	t.Run("gemini default", func(t *testing.T) {
		t.Parallel()
		c, err := llm.New(context.Background(), llm.Config{})
		require.NoError(t, err)
		assert.Equal(t, llm.ProviderGemini, c.Name())

		_, err = c.Query(context.Background(), testRequest())
		assert.ErrorIs(t, err, llm.ErrUnconfigured)
	})

	t.Run("openai", func(t *testing.T) {
		t.Parallel()
		cfg := llm.Config{Provider: "OpenAI", OpenAIAPIKey: "k"}
		assert.Equal(t, "k", cfg.APIKey())

		c, err := llm.NewFactory(cfg)(context.Background(), "caller-key")
		require.NoError(t, err)
		assert.Equal(t, llm.ProviderOpenAI, c.Name())
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()
		_, err := llm.New(context.Background(), llm.Config{Provider: "llama"})
		assert.ErrorIs(t, err, llm.ErrUnknownProvider)
	})
}
