package llm

import "errors"

var (
	// ErrUnconfigured means no credential is available for the provider.
	ErrUnconfigured = errors.New("upstream model credential is not configured")

	// ErrTransport covers network failures, timeouts and API errors.
	ErrTransport = errors.New("upstream model request failed")

	// ErrEmptyResponse means the call succeeded but produced no text.
	ErrEmptyResponse = errors.New("upstream model returned an empty response")

	// ErrThrottled means the outbound rate cap was hit. Always joined with ErrTransport.
	ErrThrottled = errors.New("upstream model request rate exceeded")

	// ErrUnknownProvider is returned by New for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown upstream model provider")
)
