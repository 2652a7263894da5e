package finder

import (
	"strings"

	"github.com/packagepal/gateway/pkg/ratelimit"
)

// LookupRequest asks for packages in TargetLang similar to SourcePackage
// from SourceLang.
type LookupRequest struct {
	SourcePackage string `json:"sourcePackage"`
	SourceLang    string `json:"sourceLang"`
	TargetLang    string `json:"targetLang"`
}

// Normalize trims surrounding whitespace from every field.
func (r LookupRequest) Normalize() LookupRequest {
	return LookupRequest{
		SourcePackage: strings.TrimSpace(r.SourcePackage),
		SourceLang:    strings.TrimSpace(r.SourceLang),
		TargetLang:    strings.TrimSpace(r.TargetLang),
	}
}

// Validate checks a normalized request.
func (r LookupRequest) Validate() error {
	if r.SourcePackage == "" || r.SourceLang == "" || r.TargetLang == "" {
		return ErrMissingFields
	}
	if r.SourceLang == r.TargetLang {
		return ErrSameLanguage
	}
	return nil
}

// Suggestion is one package recommendation.
type Suggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}

// Source tells where a result came from.
type Source string

const (
	SourceCache    Source = "HIT"
	SourceUpstream Source = "MISS"
	SourceBypass   Source = "BYPASS"
)

// Result is the outcome of a successful lookup.
//
// Body is the JSON array sent to the client. For cache hits it is the stored
// value byte for byte. CacheErr records a failed best-effort cache write; it
// never turns a successful lookup into a failure.
type Result struct {
	Body        []byte
	Suggestions []Suggestion
	Source      Source
	RateLimit   *ratelimit.Result
	CacheErr    error
}
