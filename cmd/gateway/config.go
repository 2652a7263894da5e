package main

import (
	"time"

	"github.com/packagepal/gateway/pkg/cors"
	"github.com/packagepal/gateway/pkg/httpserver"
	"github.com/packagepal/gateway/pkg/llm"
	"github.com/packagepal/gateway/pkg/redis"
	"github.com/packagepal/gateway/svc/finder"
)

type appConfig struct {
	Env               string        `env:"APP_ENV" envDefault:"development"`
	Name              string        `env:"APP_NAME" envDefault:"packagepal-gateway"`
	TrustProxyHeaders bool          `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	StoreTimeout      time.Duration `env:"STORE_TIMEOUT" envDefault:"2s"`
	StoreProbe        time.Duration `env:"STORE_PROBE_INTERVAL" envDefault:"15s"`
}

// Config aggregates every component config. Nested structs carry their own
// env tags.
type Config struct {
	App    appConfig
	HTTP   httpserver.Config
	CORS   cors.Config
	Redis  redis.Config
	LLM    llm.Config
	Finder finder.Config
}
