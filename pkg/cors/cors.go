package cors

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

var (
	defaultMethods = []string{http.MethodGet, http.MethodHead, http.MethodPost}
	defaultHeaders = []string{"Accept", "Content-Type", "Origin", "X-Request-ID", "X-Upstream-Api-Key"}
	exposedHeaders = []string{
		"X-Request-ID",
		"X-Cache",
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"X-RateLimit-Reset",
		"Retry-After",
	}
)

// Option configures the middleware.
type Option func(*options)

type options struct {
	methods []string
	headers []string
	maxAge  int
}

func WithMethods(methods ...string) Option {
	return func(o *options) {
		if len(methods) > 0 {
			o.methods = methods
		}
	}
}

func WithHeaders(headers ...string) Option {
	return func(o *options) {
		if len(headers) > 0 {
			o.headers = headers
		}
	}
}

// WithMaxAge sets how long browsers may cache a preflight, in seconds.
func WithMaxAge(seconds int) Option {
	return func(o *options) {
		o.maxAge = seconds
	}
}

// Middleware allows cross-origin requests from exactly the listed origins.
//
// Requests from other origins are still served, but without
// Access-Control-Allow-Origin, so the browser withholds the response.
// Preflights are answered with 200 and never reach next.
func Middleware(origins []string, opts ...Option) func(http.Handler) http.Handler {
	o := options{methods: defaultMethods, headers: defaultHeaders}
	for _, opt := range opts {
		opt(&o)
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		allowed[origin] = struct{}{}
	}
	allowMethods := strings.Join(o.methods, ", ")
	allowHeaders := strings.Join(o.headers, ", ")
	expose := strings.Join(exposedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			_, ok := allowed[origin]
			ok = ok && origin != ""

			h := w.Header()
			h.Add("Vary", "Origin")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Add("Vary", "Access-Control-Request-Method")
				h.Add("Vary", "Access-Control-Request-Headers")
				if ok && slices.Contains(o.methods, r.Header.Get("Access-Control-Request-Method")) {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Access-Control-Allow-Methods", allowMethods)
					h.Set("Access-Control-Allow-Headers", allowHeaders)
					if o.maxAge > 0 {
						h.Set("Access-Control-Max-Age", strconv.Itoa(o.maxAge))
					}
				}
				h.Set("Content-Length", "0")
				w.WriteHeader(http.StatusOK)
				return
			}

			if ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Expose-Headers", expose)
			}
			next.ServeHTTP(w, r)
		})
	}
}
