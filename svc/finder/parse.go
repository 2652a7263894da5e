package finder

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/packagepal/gateway/pkg/llm"
)

// DefaultMaxSuggestions caps a result set.
const DefaultMaxSuggestions = 5

// ParseResult is the sanitized upstream output.
type ParseResult struct {
	Suggestions []Suggestion
	// NotArray is set when the output parsed but was not a JSON array.
	NotArray bool
	// Dropped counts array elements rejected for shape.
	Dropped int
}

// ParseSuggestions turns untrusted upstream text into at most limit
// suggestions, preserving upstream order.
//
// A surrounding code fence is stripped first. Text that is not JSON yields ErrMalformedOutput. Valid JSON that is not an
// array yields an empty result with NotArray set. Elements are kept only if
// they are objects whose name and description are non-empty strings; url is
// kept only when it is a string.
func ParseSuggestions(raw string, limit int) (ParseResult, error) {
	if limit <= 0 {
		limit = DefaultMaxSuggestions
	}

	var decoded any
	if err := json.Unmarshal([]byte(llm.StripFence(raw)), &decoded); err != nil {
		return ParseResult{}, errors.Join(ErrMalformedOutput, err)
	}

	items, ok := decoded.([]any)
	if !ok {
		return ParseResult{Suggestions: []Suggestion{}, NotArray: true}, nil
	}

	out := ParseResult{Suggestions: make([]Suggestion, 0, min(len(items), limit))}
	for _, item := range items {
		s, ok := toSuggestion(item)
		if !ok {
			out.Dropped++
			continue
		}
		if len(out.Suggestions) < limit {
			out.Suggestions = append(out.Suggestions, s)
		}
	}
	return out, nil
}

func toSuggestion(item any) (Suggestion, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return Suggestion{}, false
	}

	name, ok := nonEmptyString(obj["name"])
	if !ok {
		return Suggestion{}, false
	}
	desc, ok := nonEmptyString(obj["description"])
	if !ok {
		return Suggestion{}, false
	}

	s := Suggestion{Name: name, Description: desc}
	if url, ok := obj["url"].(string); ok {
		s.URL = strings.TrimSpace(url)
	}
	return s, true
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
