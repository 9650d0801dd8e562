package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/modellens/modellens/pkg/catalog"
	"github.com/modellens/modellens/pkg/tokens"
)

const (
	huggingFaceBaseURL = "https://api-inference.huggingface.co/models"

	// hostedTimeout bounds one hosted inference call. Cold models routinely
	// take this long to answer at all.
	hostedTimeout = 30 * time.Second

	// hostedMaxGenerate caps generation length on the hosted tier. This is a
	// tier limitation, not a configurable option.
	hostedMaxGenerate = 100
)

// HuggingFaceAdapter implements the Adapter interface for Hugging Face
// hosted inference. The hosted API reports no token usage, so counts come
// from the injected estimator over query plus response.
type HuggingFaceAdapter struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	estimator  tokens.Estimator
}

// HuggingFaceOption configures a HuggingFaceAdapter.
type HuggingFaceOption func(*HuggingFaceAdapter)

// WithBaseURL overrides the hosted inference endpoint.
func WithBaseURL(url string) HuggingFaceOption {
	return func(a *HuggingFaceAdapter) {
		a.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the HTTP client, including its timeout.
func WithHTTPClient(client *http.Client) HuggingFaceOption {
	return func(a *HuggingFaceAdapter) {
		a.httpClient = client
	}
}

// NewHuggingFaceAdapter creates a new Hugging Face adapter. An empty API key
// is legal at construction time; Generate reports it as a failure without
// calling out. A nil estimator falls back to the default.
func NewHuggingFaceAdapter(apiKey string, estimator tokens.Estimator, opts ...HuggingFaceOption) *HuggingFaceAdapter {
	if estimator == nil {
		estimator = tokens.Default()
	}
	a := &HuggingFaceAdapter{
		apiKey:     apiKey,
		baseURL:    huggingFaceBaseURL,
		httpClient: &http.Client{Timeout: hostedTimeout},
		estimator:  estimator,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Provider returns the provider this adapter serves.
func (a *HuggingFaceAdapter) Provider() catalog.Provider {
	return catalog.ProviderHuggingFace
}

// Generate calls the hosted inference endpoint. There is no fallback tier:
// any hosted failure comes back once, wrapped with the likely causes, and
// keeps its classification for errors.Is checks.
func (a *HuggingFaceAdapter) Generate(ctx context.Context, model catalog.Descriptor, query string, opts Options) (*Result, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("%w: set HUGGINGFACE_API_KEY; unauthenticated local inference needs substantial compute and is not supported here", ErrMissingAPIKey)
	}

	res, err := a.hosted(ctx, model, query, opts)
	if err != nil {
		return nil, fmt.Errorf("hosted inference unavailable (model not deployed, rate limited, or key lacks access; the OpenAI and Anthropic entries may serve instead): %w", err)
	}
	return res, nil
}

// dialogueRequest is the conversational payload shape DialoGPT models expect.
type dialogueRequest struct {
	Inputs     dialogueInputs     `json:"inputs"`
	Parameters dialogueParameters `json:"parameters"`
}

type dialogueInputs struct {
	Text string `json:"text"`
}

type dialogueParameters struct {
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
	DoSample    bool    `json:"do_sample"`
}

// textRequest is the standard text-generation payload shape.
type textRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters textParameters `json:"parameters"`
}

type textParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

func (a *HuggingFaceAdapter) hosted(ctx context.Context, model catalog.Descriptor, query string, opts Options) (*Result, error) {
	maxGenerate := opts.MaxTokens
	if maxGenerate > hostedMaxGenerate {
		maxGenerate = hostedMaxGenerate
	}

	var payload any
	if strings.Contains(model.Name, "DialoGPT") {
		payload = dialogueRequest{
			Inputs: dialogueInputs{Text: query},
			Parameters: dialogueParameters{
				MaxLength:   maxGenerate,
				Temperature: opts.Temperature,
				DoSample:    true,
			},
		}
	} else {
		payload = textRequest{
			Inputs: query,
			Parameters: textParameters{
				MaxNewTokens:   maxGenerate,
				Temperature:    opts.Temperature,
				ReturnFullText: false,
			},
		}
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := a.baseURL + "/" + model.Name
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		if isTimeout(err) {
			return nil, &ProviderError{
				Provider:  catalog.ProviderHuggingFace,
				Transient: true,
				Err:       fmt.Errorf("%w, the model might be loading: %w", ErrTimeout, err),
			}
		}
		return nil, &ProviderError{Provider: catalog.ProviderHuggingFace, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: catalog.ProviderHuggingFace, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// Parsed below.
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, &ProviderError{
			Provider:  catalog.ProviderHuggingFace,
			Status:    resp.StatusCode,
			Transient: true,
			Err:       fmt.Errorf("%w, wait a moment and retry", ErrModelLoading),
		}
	default:
		return nil, &ProviderError{
			Provider: catalog.ProviderHuggingFace,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("inference call failed: %d - %s", resp.StatusCode, body),
		}
	}

	text, err := parseHosted(body)
	if err != nil {
		return nil, &ProviderError{Provider: catalog.ProviderHuggingFace, Err: err}
	}

	// Generation models reflect the prompt back; drop it when present.
	if strings.HasPrefix(text, query) {
		text = strings.TrimSpace(strings.TrimPrefix(text, query))
	}

	return &Result{
		Text: text,
		Usage: Usage{
			TotalTokens: a.estimator.Count(query+text, model.Name),
			Estimated:   true,
		},
		Elapsed: elapsed,
	}, nil
}

// hostedGeneration is one generation object in a hosted response. The two
// pointer fields distinguish an absent key from an empty string.
type hostedGeneration struct {
	GeneratedText *string `json:"generated_text"`
	Text          *string `json:"text"`
}

// parseHosted extracts the generated text from a hosted response body. The
// body is either a list of generation objects or a single one; a body that
// is valid JSON but matches neither shape degrades to its string form. Only
// a body that is not JSON at all fails.
func parseHosted(body []byte) (string, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) == 0 {
			return string(body), nil
		}
		return generationText(list[0]), nil
	}

	var obj json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnrecognizedResponse, err)
	}
	return generationText(obj), nil
}

// generationText resolves one generation object to text: the generated_text
// key wins, then text, then the raw string form of the value.
func generationText(raw json.RawMessage) string {
	var gen hostedGeneration
	if err := json.Unmarshal(raw, &gen); err == nil {
		if gen.GeneratedText != nil {
			return *gen.GeneratedText
		}
		if gen.Text != nil {
			return *gen.Text
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
