package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileCatalog is the YAML shape of a catalog file:
//
//	models:
//	  - name: gpt-3.5-turbo
//	    type: instruct
//	    provider: openai
//	    context_window: 16385
//	    characteristics: {...}
//	    pricing: {prompt_per_1k: 0.0005, completion_per_1k: 0.0015}
type fileCatalog struct {
	Models []fileDescriptor `yaml:"models"`
}

type fileDescriptor struct {
	Name            string          `yaml:"name"`
	Type            string          `yaml:"type"`
	Provider        string          `yaml:"provider"`
	ContextWindow   int             `yaml:"context_window"`
	Characteristics Characteristics `yaml:"characteristics"`
	Pricing         Pricing         `yaml:"pricing"`
}

// LoadFile reads a catalog from a YAML file. Type and provider fields accept
// any spelling ParseModelType and ParseProvider accept. The loaded catalog
// replaces the built-in one entirely.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(fc.Models) == 0 {
		return nil, fmt.Errorf("catalog %s defines no models", path)
	}

	descriptors := make([]Descriptor, 0, len(fc.Models))
	for _, m := range fc.Models {
		t, err := ParseModelType(m.Type)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: model %q: %w", path, m.Name, err)
		}
		p, err := ParseProvider(m.Provider)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: model %q: %w", path, m.Name, err)
		}
		descriptors = append(descriptors, Descriptor{
			Name:            m.Name,
			Type:            t,
			Provider:        p,
			ContextWindow:   m.ContextWindow,
			Characteristics: m.Characteristics,
			Pricing:         m.Pricing,
		})
	}

	c, err := New(descriptors...)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}
