package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/modellens/modellens/pkg/catalog"
)

// AnthropicAdapter implements the Adapter interface for Claude models. There
// is a single request shape; the nucleus and penalty knobs are not mapped.
type AnthropicAdapter struct {
	apiKey string
	client anthropic.Client
}

// NewAnthropicAdapter creates a new Anthropic adapter. An empty API key is
// legal at construction time; Generate reports it as a failure without
// calling out.
func NewAnthropicAdapter(apiKey string, extra ...option.RequestOption) *AnthropicAdapter {
	opts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, extra...)
	return &AnthropicAdapter{apiKey: apiKey, client: anthropic.NewClient(opts...)}
}

// Provider returns the provider this adapter serves.
func (a *AnthropicAdapter) Provider() catalog.Provider {
	return catalog.ProviderAnthropic
}

// Generate sends the query to Claude as a single user message and returns
// the first text block of the reply. Usage sums reported input and output
// token counts.
func (a *AnthropicAdapter) Generate(ctx context.Context, model catalog.Descriptor, query string, opts Options) (*Result, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY in your environment or .env file", ErrMissingAPIKey)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model.Name),
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: anthropic.Float(opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(query)),
		},
	}

	var callOpts []option.RequestOption
	if opts.Timeout > 0 {
		callOpts = append(callOpts, option.WithRequestTimeout(opts.Timeout))
	}

	start := time.Now()
	resp, err := a.client.Messages.New(ctx, params, callOpts...)
	elapsed := time.Since(start)
	if err != nil {
		return nil, a.classify(err)
	}

	var text string
	found := false
	for _, block := range resp.Content {
		if block.Type == "text" {
			text = block.Text
			found = true
			break
		}
	}
	if !found {
		return nil, &ProviderError{Provider: catalog.ProviderAnthropic, Err: ErrEmptyResponse}
	}

	usage := Usage{
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
	}
	return &Result{
		Text:    text,
		Usage:   NormalizeUsage(usage),
		Elapsed: elapsed,
	}, nil
}

// classify wraps SDK errors with status metadata, keeping the API's own
// diagnostic text intact.
func (a *AnthropicAdapter) classify(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return &ProviderError{Provider: catalog.ProviderAnthropic, Status: apierr.StatusCode, Err: err}
	}
	return &ProviderError{Provider: catalog.ProviderAnthropic, Err: err}
}
