package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned when completion is requested without an API
// key.
var ErrNotConfigured = errors.New("OPENAI_API_KEY not configured")

// DefaultMaxTokens is used when a completion request does not set a limit.
const DefaultMaxTokens = 64

const completionTemperature = 0.7

// Completion is the trimmed text returned for a prompt.
type Completion struct {
	Text  string `json:"completion"`
	Model string `json:"model"`
}

// Completer produces free-text completions.
type Completer interface {
	Complete(ctx context.Context, prompt, model string, maxTokens int) (Completion, error)
}

// OpenAICompleter calls the OpenAI completions endpoint.
type OpenAICompleter struct {
	client       *openai.Client
	defaultModel string
}

// NewOpenAICompleter returns a completer for apiKey. An empty key yields a
// completer that always fails with ErrNotConfigured.
func NewOpenAICompleter(apiKey, defaultModel string) *OpenAICompleter {
	if apiKey == "" {
		return &OpenAICompleter{defaultModel: defaultModel}
	}
	return NewOpenAICompleterWithConfig(openai.DefaultConfig(apiKey), defaultModel)
}

// NewOpenAICompleterWithConfig returns a completer using cfg, which allows
// pointing the client at a different base URL.
func NewOpenAICompleterWithConfig(cfg openai.ClientConfig, defaultModel string) *OpenAICompleter {
	if defaultModel == "" {
		defaultModel = openai.GPT3Dot5TurboInstruct
	}
	return &OpenAICompleter{client: openai.NewClientWithConfig(cfg), defaultModel: defaultModel}
}

// Complete sends prompt to model, falling back to the default model and
// DefaultMaxTokens for zero values.
func (c *OpenAICompleter) Complete(ctx context.Context, prompt, model string, maxTokens int) (Completion, error) {
	if c.client == nil {
		return Completion{}, ErrNotConfigured
	}
	if model == "" {
		model = c.defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	resp, err := c.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       model,
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: completionTemperature,
	})
	if err != nil {
		return Completion{}, fmt.Errorf("create completion: %w", err)
	}

	out := Completion{Model: model}
	if len(resp.Choices) > 0 {
		out.Text = strings.TrimSpace(resp.Choices[0].Text)
	}
	return out, nil
}

// UpstreamStatus returns the HTTP status reported by the OpenAI API for err,
// or 0 when err did not come from an API response.
func UpstreamStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
