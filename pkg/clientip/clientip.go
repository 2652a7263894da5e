package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is returned when no address can be determined.
const Unknown = "unknown"

// forwardingHeaders are consulted in order when proxy headers are trusted.
var forwardingHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// Resolver extracts the client address from a request.
//
// Forwarding headers are client-controlled unless a proxy rewrites them, so
// they are only read when trustProxy is set. Otherwise the TCP peer address
// is used.
type Resolver struct {
	trustProxy bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTrustProxy enables reading forwarding headers.
func WithTrustProxy(trust bool) Option {
	return func(r *Resolver) {
		r.trustProxy = trust
	}
}

// NewResolver creates a Resolver. By default only RemoteAddr is used.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the normalized client IP, or Unknown.
func (res *Resolver) Resolve(r *http.Request) string {
	if res.trustProxy {
		if ip := fromHeaders(r); ip != "" {
			return ip
		}
	}
	if ip := fromRemoteAddr(r.RemoteAddr); ip != "" {
		return ip
	}
	return Unknown
}

// GetIP resolves the client IP trusting forwarding headers. Returns an empty
// string when nothing valid is found.
func GetIP(r *http.Request) string {
	if ip := fromHeaders(r); ip != "" {
		return ip
	}
	return fromRemoteAddr(r.RemoteAddr)
}

func fromHeaders(r *http.Request) string {
	for _, name := range forwardingHeaders {
		value := r.Header.Get(name)
		if value == "" {
			continue
		}
		// X-Forwarded-For carries a list; the first valid entry is the client.
		for candidate := range strings.SplitSeq(value, ",") {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}
	return ""
}

func fromRemoteAddr(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return parseIP(addr)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an IP address string.
func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
