package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/openai/openai-go/option"

	"github.com/modellens/modellens/pkg/catalog"
)

var (
	instructDescriptor = catalog.Descriptor{
		Name:          "gpt-3.5-turbo",
		Type:          catalog.TypeInstruct,
		Provider:      catalog.ProviderOpenAI,
		ContextWindow: 16385,
	}
	baseDescriptor = catalog.Descriptor{
		Name:          "gpt-3.5-turbo-instruct",
		Type:          catalog.TypeBase,
		Provider:      catalog.ProviderOpenAI,
		ContextWindow: 4096,
	}
)

func newOpenAITestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OpenAIAdapter) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	adapter := NewOpenAIAdapter("test-key", option.WithBaseURL(server.URL))
	return server, adapter
}

func TestOpenAIChatSuccess(t *testing.T) {
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float64 `json:"temperature"`
	}

	_, a := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Error("missing Authorization header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-3.5-turbo",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hi there!"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 8, "total_tokens": 18}
		}`))
	})

	res, err := a.Generate(context.Background(), instructDescriptor, "Hello", DefaultOptions())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if res.Text != "Hi there!" {
		t.Errorf("unexpected text: %q", res.Text)
	}
	if res.Usage.TotalTokens != 18 || res.Usage.PromptTokens != 10 || res.Usage.CompletionTokens != 8 {
		t.Errorf("unexpected usage: %+v", res.Usage)
	}
	if res.Usage.Estimated {
		t.Error("API-reported usage should not be marked estimated")
	}
	if res.Elapsed < 0 {
		t.Errorf("negative elapsed: %v", res.Elapsed)
	}

	if gotReq.Model != "gpt-3.5-turbo" {
		t.Errorf("unexpected model: %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "Hello" {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
	if gotReq.MaxTokens != 1000 {
		t.Errorf("expected max_tokens 1000, got %d", gotReq.MaxTokens)
	}
	if gotReq.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", gotReq.Temperature)
	}
}

func TestOpenAIBaseInstructUsesCompletionEndpoint(t *testing.T) {
	var gotReq struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
	}

	_, a := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/completions" {
			t.Errorf("expected /completions, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "text_completion",
			"created": 1700000000,
			"model": "gpt-3.5-turbo-instruct",
			"choices": [{"text": "  A completion.  ", "index": 0, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 7, "total_tokens": 12}
		}`))
	})

	res, err := a.Generate(context.Background(), baseDescriptor, "Finish this", DefaultOptions())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if res.Text != "A completion." {
		t.Errorf("expected trimmed completion text, got %q", res.Text)
	}
	if res.Usage.TotalTokens != 12 {
		t.Errorf("unexpected usage: %+v", res.Usage)
	}
	if gotReq.Prompt != "Finish this" {
		t.Errorf("expected verbatim prompt, got %q", gotReq.Prompt)
	}
}

func TestOpenAIMissingKeySkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(server.Close)

	a := NewOpenAIAdapter("", option.WithBaseURL(server.URL))
	_, err := a.Generate(context.Background(), instructDescriptor, "Hello", DefaultOptions())
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("message should name the missing key, got %q", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no network calls, got %d", calls.Load())
	}
}

func TestOpenAIErrorClassification(t *testing.T) {
	_, a := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`))
	})

	_, err := a.Generate(context.Background(), instructDescriptor, "Hello", DefaultOptions())
	if err == nil {
		t.Fatal("expected error")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
	if provErr.Status != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", provErr.Status)
	}
	if provErr.Provider != catalog.ProviderOpenAI {
		t.Errorf("unexpected provider: %s", provErr.Provider)
	}
	if !strings.Contains(err.Error(), "Incorrect API key") {
		t.Errorf("expected provider diagnostic preserved, got %q", err)
	}
	if IsTransient(err) {
		t.Error("auth failure should not be transient")
	}
}

func TestOpenAIRateLimitIsTransient(t *testing.T) {
	var calls atomic.Int32
	_, a := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "Rate limit reached", "type": "tokens", "code": "rate_limit_exceeded"}}`))
	})

	_, err := a.Generate(context.Background(), instructDescriptor, "Hello", DefaultOptions())
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsTransient(err) {
		t.Error("rate limit should be transient")
	}
	if calls.Load() != 1 {
		t.Errorf("expected exactly one call (no retries), got %d", calls.Load())
	}
}

func TestOpenAIIdempotentAcrossCalls(t *testing.T) {
	_, a := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-3.5-turbo",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Same answer"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 4, "completion_tokens": 2, "total_tokens": 6}
		}`))
	})

	first, err := a.Generate(context.Background(), instructDescriptor, "Hello", DefaultOptions())
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := a.Generate(context.Background(), instructDescriptor, "Hello", DefaultOptions())
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if first.Text != second.Text {
		t.Errorf("text differs: %q vs %q", first.Text, second.Text)
	}
	if first.Usage != second.Usage {
		t.Errorf("usage differs: %+v vs %+v", first.Usage, second.Usage)
	}
	if first.Elapsed < 0 || second.Elapsed < 0 {
		t.Error("elapsed must be non-negative")
	}
}
