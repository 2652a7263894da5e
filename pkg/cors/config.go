package cors

import "strings"

// DefaultOrigin is the local frontend dev server.
const DefaultOrigin = "http://localhost:5173"

// Config is loaded from the environment with pkg/config.
type Config struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	FrontendURL    string   `env:"FRONTEND_URL"`
	FrontendURL2   string   `env:"FRONTEND_URL2"`
	MaxAge         int      `env:"CORS_MAX_AGE" envDefault:"600"`
}

// Origins merges the allow-list with the frontend URLs, trimming blanks,
// trailing slashes and duplicates.
func (c Config) Origins() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(c.AllowedOrigins)+2)
	for _, o := range append(append([]string{}, c.AllowedOrigins...), c.FrontendURL, c.FrontendURL2) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	if len(out) == 0 {
		out = append(out, DefaultOrigin)
	}
	return out
}
