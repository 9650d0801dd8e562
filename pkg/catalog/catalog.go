// Package catalog defines the model catalog: which model serves each
// (tuning type, provider) combination and the descriptive metadata shown
// alongside responses.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ModelType classifies how a model was tuned.
type ModelType string

// Supported model types.
const (
	TypeBase      ModelType = "base"
	TypeInstruct  ModelType = "instruct"
	TypeFineTuned ModelType = "fine_tuned"
)

// Provider identifies a model host.
type Provider string

// Supported providers.
const (
	ProviderOpenAI      Provider = "openai"
	ProviderAnthropic   Provider = "anthropic"
	ProviderHuggingFace Provider = "huggingface"
)

// ErrNotFound indicates no descriptor exists for a (type, provider) pair.
var ErrNotFound = errors.New("no model registered")

// ErrUnknownModelType indicates an unrecognized model type string.
var ErrUnknownModelType = errors.New("unknown model type")

// ErrUnknownProvider indicates an unrecognized provider string.
var ErrUnknownProvider = errors.New("unknown provider")

// ParseModelType resolves a free-form string to a ModelType. Matching is
// insensitive to case and to space/hyphen/underscore separators, so
// "fine_tuned", "Fine Tuned" and "FINE-TUNED" all resolve to TypeFineTuned.
func ParseModelType(s string) (ModelType, error) {
	switch normalize(s) {
	case "base":
		return TypeBase, nil
	case "instruct":
		return TypeInstruct, nil
	case "finetuned":
		return TypeFineTuned, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModelType, s)
}

// ParseProvider resolves a free-form string to a Provider. Matching is
// insensitive to case and separators, so the display name "Hugging Face"
// and "HUGGINGFACE" both resolve to ProviderHuggingFace.
func ParseProvider(s string) (Provider, error) {
	switch normalize(s) {
	case "openai":
		return ProviderOpenAI, nil
	case "anthropic":
		return ProviderAnthropic, nil
	case "huggingface":
		return ProviderHuggingFace, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
}

// normalize lowercases and strips the separators that vary between the
// stored display names and CLI input ("Hugging Face" vs "huggingface").
func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, s)
}

// String returns the canonical lowercase form.
func (t ModelType) String() string { return string(t) }

// Display returns a human-readable form ("fine_tuned" -> "Fine Tuned").
func (t ModelType) Display() string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// String returns the canonical lowercase form.
func (p Provider) String() string { return string(p) }

// Display returns the provider's display name.
func (p Provider) Display() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderAnthropic:
		return "Anthropic"
	case ProviderHuggingFace:
		return "Hugging Face"
	}
	return string(p)
}

// Characteristics holds display-only metadata about a model's training and
// intended use. It has no behavioral effect.
type Characteristics struct {
	Description          string `yaml:"description"`
	FineTuningStrategy   string `yaml:"fine_tuning_strategy"`
	InstructionFollowing string `yaml:"instruction_following"`
	UseCases             string `yaml:"use_cases"`
}

// Pricing holds per-1k-token USD rates used only for a display-time cost
// estimate. A zero Pricing means rates are unknown and no cost is shown.
type Pricing struct {
	PromptPer1K     float64 `yaml:"prompt_per_1k"`
	CompletionPer1K float64 `yaml:"completion_per_1k"`
}

// IsZero reports whether no rates are configured.
func (p Pricing) IsZero() bool {
	return p.PromptPer1K == 0 && p.CompletionPer1K == 0
}

// Descriptor identifies one model variant and its capabilities. Descriptors
// are immutable once registered.
type Descriptor struct {
	Name            string
	Type            ModelType
	Provider        Provider
	ContextWindow   int
	Characteristics Characteristics
	Pricing         Pricing
}

type key struct {
	t ModelType
	p Provider
}

// Catalog maps (type, provider) pairs to descriptors. Not every pair exists;
// lookups for absent pairs fail with ErrNotFound rather than defaulting.
type Catalog struct {
	entries map[key]Descriptor
}

// New builds a Catalog from descriptors, validating each entry up front:
// non-empty name, known type and provider, positive context window, and at
// most one descriptor per (type, provider) pair.
func New(descriptors ...Descriptor) (*Catalog, error) {
	entries := make(map[key]Descriptor, len(descriptors))
	for _, d := range descriptors {
		if d.Name == "" {
			return nil, fmt.Errorf("descriptor for %s/%s has empty name", d.Type, d.Provider)
		}
		t, err := ParseModelType(string(d.Type))
		if err != nil {
			return nil, fmt.Errorf("descriptor %q: %w", d.Name, err)
		}
		p, err := ParseProvider(string(d.Provider))
		if err != nil {
			return nil, fmt.Errorf("descriptor %q: %w", d.Name, err)
		}
		d.Type, d.Provider = t, p
		if d.ContextWindow <= 0 {
			return nil, fmt.Errorf("descriptor %q has non-positive context window %d", d.Name, d.ContextWindow)
		}
		k := key{t: d.Type, p: d.Provider}
		if prev, exists := entries[k]; exists {
			return nil, fmt.Errorf("duplicate descriptor for %s/%s: %q and %q", d.Type, d.Provider, prev.Name, d.Name)
		}
		entries[k] = d
	}
	return &Catalog{entries: entries}, nil
}

// Lookup returns the descriptor for a (type, provider) pair, or ErrNotFound
// when the combination is absent.
func (c *Catalog) Lookup(t ModelType, p Provider) (Descriptor, error) {
	d, ok := c.entries[key{t: t, p: p}]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w for %s/%s", ErrNotFound, t, p)
	}
	return d, nil
}

// Descriptors returns all entries ordered by type then provider.
func (c *Catalog) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(c.entries))
	for _, d := range c.entries {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Provider < out[j].Provider
	})
	return out
}

// Len returns the number of registered descriptors.
func (c *Catalog) Len() int { return len(c.entries) }
