package llm

import (
	"context"
	"regexp"
	"strings"
)

// Client sends one completion request upstream and returns the raw text.
// Implementations return ErrUnconfigured, ErrTransport or ErrEmptyResponse
// (possibly joined with the cause) so callers can classify failures with errors.Is.
type Client interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Query returns the model's text with any surrounding code fence removed.
	Query(ctx context.Context, req Request) (string, error)
}

// Factory builds a Client bound to a caller-supplied credential.
type Factory func(ctx context.Context, apiKey string) (Client, error)

// Request is a single structured-output completion.
type Request struct {
	// Instruction is sent as the system prompt. Optional.
	Instruction string

	// Prompt is the task text.
	Prompt string

	// Temperature controls sampling. Zero is sent as zero.
	Temperature float32

	// Schema declares the expected output shape. Optional.
	Schema *Schema
}

// SchemaType mirrors the JSON schema primitive names.
type SchemaType string

const (
	TypeArray  SchemaType = "array"
	TypeObject SchemaType = "object"
	TypeString SchemaType = "string"
)

// Schema is a provider-neutral subset of JSON schema.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

var fencePattern = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

// StripFence removes a single Markdown code fence wrapping the whole text,
// with or without a language tag. Text without a fence is returned trimmed.
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(text); m != nil && m[2] != "" {
		return strings.TrimSpace(m[2])
	}
	return text
}
