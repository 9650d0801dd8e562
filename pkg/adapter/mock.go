package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/modellens/modellens/pkg/catalog"
)

// MockAdapter returns deterministic results for local runs and tests. It can
// stand in for any provider.
type MockAdapter struct {
	provider        catalog.Provider
	responses       map[string]string
	defaultResponse string

	// Usage, Elapsed and Err override the returned result when set.
	Usage   *Usage
	Elapsed time.Duration
	Err     error
}

// NewMockAdapter creates a mock adapter for the given provider with a
// default response.
func NewMockAdapter(provider catalog.Provider) *MockAdapter {
	return &MockAdapter{
		provider:        provider,
		responses:       make(map[string]string),
		defaultResponse: "mock response:",
	}
}

// NewMockAdapterWithResponses creates a mock adapter with predefined
// per-query responses.
func NewMockAdapterWithResponses(provider catalog.Provider, responses map[string]string, defaultResponse string) *MockAdapter {
	if defaultResponse == "" {
		defaultResponse = "mock response:"
	}
	return &MockAdapter{provider: provider, responses: responses, defaultResponse: defaultResponse}
}

// Provider returns the provider this adapter stands in for.
func (a *MockAdapter) Provider() catalog.Provider {
	return a.provider
}

// Generate returns a deterministic result for the query.
func (a *MockAdapter) Generate(_ context.Context, model catalog.Descriptor, query string, _ Options) (*Result, error) {
	if a.Err != nil {
		return nil, a.Err
	}

	text, ok := a.responses[query]
	if !ok {
		text = fmt.Sprintf("%s\n%s", a.defaultResponse, query)
	}

	// Roughly four characters per token, deterministic for assertions.
	usage := Usage{
		TotalTokens: (len(query) + len(text) + 3) / 4,
		Estimated:   true,
	}
	if a.Usage != nil {
		usage = *a.Usage
	}
	return &Result{Text: text, Usage: NormalizeUsage(usage), Elapsed: a.Elapsed}, nil
}
