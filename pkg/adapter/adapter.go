// Package adapter translates provider-agnostic queries into provider-specific
// requests and normalizes the responses. Each provider encodes its own request
// schema, response schema, and failure modes; everything callers see is the
// common Result shape or a classified error.
package adapter

import (
	"context"
	"time"

	"github.com/modellens/modellens/pkg/catalog"
)

// Adapter defines the interface for model provider adapters.
type Adapter interface {
	// Generate sends a query to the model described by the descriptor and
	// returns the normalized result.
	Generate(ctx context.Context, model catalog.Descriptor, query string, opts Options) (*Result, error)

	// Provider returns the provider this adapter serves.
	Provider() catalog.Provider
}

// Options carries provider-agnostic generation settings. Each adapter maps
// the subset its API supports and ignores the rest.
type Options struct {
	MaxTokens        int
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64

	// Timeout bounds one request on the SDK-backed adapters. Zero means the
	// transport default. The hosted Hugging Face path has its own fixed bound.
	Timeout time.Duration
}

// DefaultOptions returns the stock generation settings.
func DefaultOptions() Options {
	return Options{
		MaxTokens:   1000,
		Temperature: 0.7,
		TopP:        1.0,
	}
}

// Usage captures normalized token usage.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Estimated marks counts produced by a local estimator rather than the
	// provider's own accounting.
	Estimated bool `json:"estimated,omitempty"`
}

// NormalizeUsage fills in the total when a provider reports only the parts.
func NormalizeUsage(u Usage) Usage {
	if u.TotalTokens == 0 && (u.PromptTokens > 0 || u.CompletionTokens > 0) {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	return u
}

// Result is the normalized outcome of one successful generation. It is
// constructed once by an adapter and never mutated afterwards.
type Result struct {
	Text    string        `json:"text"`
	Usage   Usage         `json:"usage"`
	Elapsed time.Duration `json:"elapsed"`
}
