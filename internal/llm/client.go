// Package llm provides the text-generation collaborator.
//
// The analysis core treats the generator as untrusted and fallible:
// callers log failures and degrade to empty results, so this package
// never retries and never guarantees well-formed output. The concrete
// client speaks the OpenAI chat-completions API, which is also what a
// local Ollama instance exposes under /v1.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Generator produces text from a user prompt and a system instruction.
// Implementations may fail for any reason (network, timeout, model
// error); all failure modes are equivalent to the caller.
type Generator interface {
	Generate(ctx context.Context, prompt, system string) (string, error)
}

// Client is a Generator backed by an OpenAI-compatible endpoint.
type Client struct {
	api         openai.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = t }
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

// WithTimeout bounds each Generate call. The analysis core enforces no
// timeout of its own, so this is the only thing standing between a
// stalled model and a stalled corpus scan.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a Client for the given endpoint and model.
func NewClient(baseURL, apiKey, model string, opts ...Option) *Client {
	c := &Client{
		api: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey(apiKey),
			// A single failed attempt is final — degradation is the
			// caller's job, not silent retries.
			option.WithMaxRetries(0),
		),
		model:       model,
		temperature: 0.7,
		maxTokens:   200,
		timeout:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate sends one chat completion request and returns the trimmed
// response text. A single failed attempt is final; callers decide how to
// degrade.
func (c *Client) Generate(ctx context.Context, prompt, system string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("llm: completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
