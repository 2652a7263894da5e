package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Config selects and configures the upstream provider.
type Config struct {
	Provider     string        `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	GeminiModel  string        `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	OpenAIAPIKey string        `env:"OPENAI_API_KEY"`
	OpenAIModel  string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL      string        `env:"LLM_BASE_URL"`
	Timeout      time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`
	RPS          float64       `env:"UPSTREAM_RPS" envDefault:"5"`
	Burst        int           `env:"UPSTREAM_BURST" envDefault:"10"`
	MaxWait      time.Duration `env:"UPSTREAM_MAX_WAIT" envDefault:"5s"`
}

// APIKey returns the server-held credential for the selected provider.
func (c Config) APIKey() string {
	if c.provider() == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

func (c Config) provider() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p == "" {
		return ProviderGemini
	}
	return p
}

// New builds the client for the configured provider using the server-held key.
// A missing key is not an error here: the returned client answers every
// Query with ErrUnconfigured.
//
// The shared client is throttled to cfg.RPS; caller-keyed clients from
// NewFactory are not, since each is billed to its own account.
func New(ctx context.Context, cfg Config) (Client, error) {
	c, err := NewFactory(cfg)(ctx, cfg.APIKey())
	if err != nil {
		return nil, err
	}
	return Throttle(c, cfg.RPS, cfg.Burst, cfg.MaxWait), nil
}

// NewFactory returns a Factory that builds clients of the configured provider
// and model for arbitrary credentials.
func NewFactory(cfg Config) Factory {
	return func(ctx context.Context, apiKey string) (Client, error) {
		switch cfg.provider() {
		case ProviderGemini:
			opts := []GeminiOption{WithGeminiTimeout(cfg.Timeout)}
			if cfg.GeminiModel != "" {
				opts = append(opts, WithGeminiModel(cfg.GeminiModel))
			}
			if cfg.BaseURL != "" {
				opts = append(opts, WithGeminiBaseURL(cfg.BaseURL))
			}
			return NewGemini(ctx, apiKey, opts...)
		case ProviderOpenAI:
			opts := []OpenAIOption{WithOpenAITimeout(cfg.Timeout)}
			if cfg.OpenAIModel != "" {
				opts = append(opts, WithOpenAIModel(cfg.OpenAIModel))
			}
			if cfg.BaseURL != "" {
				opts = append(opts, WithOpenAIBaseURL(cfg.BaseURL))
			}
			return NewOpenAI(apiKey, opts...), nil
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
		}
	}
}
