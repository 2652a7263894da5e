// Package llm is the upstream model client.
//
// Client hides the provider behind one call, Query, which sends a prompt with
// a declared output schema and returns the raw text with any Markdown code
// fence stripped. Two providers are available: Gemini (google.golang.org/genai)
// and OpenAI (github.com/openai/openai-go), chosen by Config.Provider.
//
// Failures are reported as ErrUnconfigured (no credential), ErrTransport
// (network, timeout or API error) and ErrEmptyResponse (no text). Every Query
// runs under a finite timeout; exceeding it is a transport failure.
//
// Factory builds clients for caller-supplied credentials using the same
// provider and model as the server-held one.
package llm
