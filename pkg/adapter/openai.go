package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/modellens/modellens/pkg/catalog"
)

// OpenAIAdapter implements the Adapter interface for OpenAI models. Base
// models with an instruction-capable completion endpoint use the legacy
// completion API; everything else goes through the chat API.
type OpenAIAdapter struct {
	apiKey string
	client openai.Client
}

// NewOpenAIAdapter creates a new OpenAI adapter. An empty API key is legal at
// construction time; Generate reports it as a failure without calling out.
func NewOpenAIAdapter(apiKey string, extra ...option.RequestOption) *OpenAIAdapter {
	opts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, extra...)
	return &OpenAIAdapter{apiKey: apiKey, client: openai.NewClient(opts...)}
}

// Provider returns the provider this adapter serves.
func (a *OpenAIAdapter) Provider() catalog.Provider {
	return catalog.ProviderOpenAI
}

// Generate sends the query to OpenAI and returns the normalized result.
func (a *OpenAIAdapter) Generate(ctx context.Context, model catalog.Descriptor, query string, opts Options) (*Result, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY in your environment or .env file", ErrMissingAPIKey)
	}

	if model.Type == catalog.TypeBase && strings.Contains(model.Name, "instruct") {
		return a.complete(ctx, model, query, opts)
	}
	return a.chat(ctx, model, query, opts)
}

// complete uses the plain-text completion endpoint. The prompt is the query
// verbatim and the returned text is trimmed of surrounding whitespace.
func (a *OpenAIAdapter) complete(ctx context.Context, model catalog.Descriptor, query string, opts Options) (*Result, error) {
	params := openai.CompletionNewParams{
		Model: openai.CompletionNewParamsModel(model.Name),
		Prompt: openai.CompletionNewParamsPromptUnion{
			OfString: openai.String(query),
		},
		MaxTokens:        openai.Int(int64(opts.MaxTokens)),
		Temperature:      openai.Float(opts.Temperature),
		TopP:             openai.Float(opts.TopP),
		FrequencyPenalty: openai.Float(opts.FrequencyPenalty),
		PresencePenalty:  openai.Float(opts.PresencePenalty),
	}

	start := time.Now()
	resp, err := a.client.Completions.New(ctx, params, a.callOptions(opts)...)
	elapsed := time.Since(start)
	if err != nil {
		return nil, a.classify(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Provider: catalog.ProviderOpenAI, Err: ErrEmptyResponse}
	}

	return &Result{
		Text: strings.TrimSpace(resp.Choices[0].Text),
		Usage: Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
		Elapsed: elapsed,
	}, nil
}

// chat uses the chat completion endpoint with a single user message.
func (a *OpenAIAdapter) chat(ctx context.Context, model catalog.Descriptor, query string, opts Options) (*Result, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model.Name),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(query),
		},
		MaxTokens:        openai.Int(int64(opts.MaxTokens)),
		Temperature:      openai.Float(opts.Temperature),
		TopP:             openai.Float(opts.TopP),
		FrequencyPenalty: openai.Float(opts.FrequencyPenalty),
		PresencePenalty:  openai.Float(opts.PresencePenalty),
	}

	start := time.Now()
	resp, err := a.client.Chat.Completions.New(ctx, params, a.callOptions(opts)...)
	elapsed := time.Since(start)
	if err != nil {
		return nil, a.classify(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Provider: catalog.ProviderOpenAI, Err: ErrEmptyResponse}
	}

	return &Result{
		Text: resp.Choices[0].Message.Content,
		Usage: Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
		Elapsed: elapsed,
	}, nil
}

func (a *OpenAIAdapter) callOptions(opts Options) []option.RequestOption {
	if opts.Timeout <= 0 {
		return nil
	}
	return []option.RequestOption{option.WithRequestTimeout(opts.Timeout)}
}

// classify wraps SDK errors with status metadata, keeping the API's own
// diagnostic text intact.
func (a *OpenAIAdapter) classify(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &ProviderError{Provider: catalog.ProviderOpenAI, Status: apierr.StatusCode, Err: err}
	}
	return &ProviderError{Provider: catalog.ProviderOpenAI, Err: err}
}
