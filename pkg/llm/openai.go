package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

// OpenAI talks to the OpenAI chat completions API.
// The JSON-object response format is not used because results are arrays;
// the schema is passed in the system prompt instead.
type OpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	baseURL string
}

// OpenAIOption configures an OpenAI client.
type OpenAIOption func(*OpenAI)

func WithOpenAIModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		o.model = model
	}
}

// WithOpenAITimeout bounds each Query. Non-positive values are ignored.
func WithOpenAITimeout(d time.Duration) OpenAIOption {
	return func(o *OpenAI) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithOpenAIBaseURL points the client at a compatible API host.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(o *OpenAI) {
		o.baseURL = url
	}
}

// NewOpenAI creates an OpenAI client. An empty apiKey yields a client whose
// Query always fails with ErrUnconfigured.
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAI {
	o := &OpenAI{
		model:   DefaultOpenAIModel,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}

	if apiKey == "" {
		return o
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}
	client := openai.NewClient(reqOpts...)
	o.client = &client
	return o
}

func (o *OpenAI) Name() string { return ProviderOpenAI }

// Configured reports whether a credential was supplied.
func (o *OpenAI) Configured() bool { return o.client != nil }

func (o *OpenAI) Query(ctx context.Context, req Request) (string, error) {
	if o.client == nil {
		return "", ErrUnconfigured
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system := o.systemPrompt(req); system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       shared.ChatModel(o.model),
		Temperature: param.NewOpt(float64(req.Temperature)),
	})
	if err != nil {
		return "", errors.Join(ErrTransport, err)
	}
	if completion == nil || len(completion.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := StripFence(completion.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (o *OpenAI) systemPrompt(req Request) string {
	parts := make([]string, 0, 2)
	if req.Instruction != "" {
		parts = append(parts, req.Instruction)
	}
	if req.Schema != nil {
		if raw, err := json.Marshal(req.Schema); err == nil {
			parts = append(parts, "Respond with JSON only, matching this JSON schema: "+string(raw))
		}
	}
	return strings.Join(parts, "\n\n")
}
