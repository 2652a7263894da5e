package redis

import (
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config describes how to reach the shared counter and cache store.
// Either ConnectionURL or Host must be set; when both are present Host wins.
// A zero Config is valid and means "no store".
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`                            // redis://:password@host:6379/0
	Host           string        `env:"REDIS_HOST"`                           // plain host, no TLS
	Port           int           `env:"REDIS_PORT" envDefault:"6379"`         // used with Host
	Password       string        `env:"REDIS_PASSWORD"`                       // used with Host
	DB             int           `env:"REDIS_DB" envDefault:"0"`              // used with Host
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`  // startup ping attempts
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"1s"` // pause between attempts
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"5s"`
	DialTimeout    time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"2s"`
	ReadTimeout    time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"1s"`
	WriteTimeout   time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"1s"`
}

// Configured reports whether any connection target is set.
func (c Config) Configured() bool {
	return c.Host != "" || c.ConnectionURL != ""
}

// Options converts the config into go-redis client options with finite
// network timeouts applied.
func (c Config) Options() (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case c.Host != "":
		port := c.Port
		if port <= 0 {
			port = 6379
		}
		opts = &redis.Options{
			Addr:     net.JoinHostPort(c.Host, strconv.Itoa(port)),
			Password: c.Password,
			DB:       c.DB,
		}
	case c.ConnectionURL != "":
		parsed, err := redis.ParseURL(c.ConnectionURL)
		if err != nil {
			return nil, errors.Join(ErrFailedToParseRedisConnString, err)
		}
		opts = parsed
	default:
		return nil, ErrNotConfigured
	}

	if c.DialTimeout > 0 {
		opts.DialTimeout = c.DialTimeout
	}
	if c.ReadTimeout > 0 {
		opts.ReadTimeout = c.ReadTimeout
	}
	if c.WriteTimeout > 0 {
		opts.WriteTimeout = c.WriteTimeout
	}
	// Commands fail fast while the store is down; callers degrade instead of waiting.
	opts.MaxRetries = 1
	return opts, nil
}
