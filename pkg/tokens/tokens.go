// Package tokens estimates token counts for prompts and responses.
//
// The primary estimator wraps tiktoken and resolves the encoding from the
// model name. Models without a known encoding, including Hugging Face hub
// names, fall back to a word-count heuristic.
package tokens

import (
	"math"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Estimator counts tokens in text for a given model name.
type Estimator interface {
	Count(text, model string) int
}

// Heuristic estimates tokens from the word count, at roughly 1.3 tokens per
// word rounded to the nearest integer. It never fails and needs no encoding
// data.
type Heuristic struct{}

// Count returns the heuristic token estimate for text. The model name is
// ignored.
func (Heuristic) Count(text, _ string) int {
	return int(math.Round(float64(len(strings.Fields(text))) * 1.3))
}

// Tiktoken counts tokens with the encoding registered for the model name,
// falling back to Heuristic when no encoding resolves. Loaded encodings are
// cached per model.
type Tiktoken struct {
	mu       sync.Mutex
	cache    map[string]*tiktoken.Tiktoken
	fallback Heuristic
}

// NewTiktoken returns a Tiktoken estimator with an empty encoding cache.
func NewTiktoken() *Tiktoken {
	return &Tiktoken{cache: make(map[string]*tiktoken.Tiktoken)}
}

// Default returns the estimator used when none is injected.
func Default() Estimator {
	return NewTiktoken()
}

// Count returns the token count of text under the model's encoding, or the
// heuristic estimate when the encoding cannot be resolved or loaded.
func (t *Tiktoken) Count(text, model string) int {
	if text == "" {
		return 0
	}
	enc, err := t.encodingFor(model)
	if err != nil {
		return t.fallback.Count(text, model)
	}
	return len(enc.Encode(text, nil, nil))
}

func (t *Tiktoken) encodingFor(model string) (*tiktoken.Tiktoken, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if enc, ok := t.cache[model]; ok {
		return enc, nil
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, err
	}
	t.cache[model] = enc
	return enc, nil
}
