// Package dispatch routes queries to the adapter serving a descriptor's
// provider. Adapter registration is validated when the dispatcher is built,
// so routing itself cannot hit an unknown provider.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/modellens/modellens/pkg/adapter"
	"github.com/modellens/modellens/pkg/catalog"
)

// Dispatcher resolves (type, provider) pairs against a catalog and routes
// queries to the matching adapter.
type Dispatcher struct {
	catalog  *catalog.Catalog
	adapters map[catalog.Provider]adapter.Adapter
}

// New builds a Dispatcher. Every adapter must report a known provider and
// each provider may be served by at most one adapter.
func New(cat *catalog.Catalog, adapters ...adapter.Adapter) (*Dispatcher, error) {
	if cat == nil {
		return nil, errors.New("dispatch: catalog is required")
	}

	registered := make(map[catalog.Provider]adapter.Adapter, len(adapters))
	for _, a := range adapters {
		p := a.Provider()
		if _, err := catalog.ParseProvider(string(p)); err != nil {
			return nil, fmt.Errorf("dispatch: adapter registration: %w", err)
		}
		if _, dup := registered[p]; dup {
			return nil, fmt.Errorf("dispatch: duplicate adapter for provider %s", p)
		}
		registered[p] = a
	}

	return &Dispatcher{catalog: cat, adapters: registered}, nil
}

// Catalog returns the catalog the dispatcher resolves against.
func (d *Dispatcher) Catalog() *catalog.Catalog {
	return d.catalog
}

// Resolve returns the descriptor for a (type, provider) pair.
func (d *Dispatcher) Resolve(t catalog.ModelType, p catalog.Provider) (catalog.Descriptor, error) {
	return d.catalog.Lookup(t, p)
}

// Dispatch resolves the descriptor and routes the query to its provider's
// adapter. The descriptor is returned alongside the result so callers can
// show model metadata even when generation fails.
func (d *Dispatcher) Dispatch(ctx context.Context, t catalog.ModelType, p catalog.Provider, query string, opts adapter.Options) (*adapter.Result, catalog.Descriptor, error) {
	desc, err := d.catalog.Lookup(t, p)
	if err != nil {
		return nil, catalog.Descriptor{}, err
	}

	a, ok := d.adapters[desc.Provider]
	if !ok {
		return nil, desc, fmt.Errorf("%w: %s", adapter.ErrUnsupportedProvider, desc.Provider)
	}

	res, err := a.Generate(ctx, desc, query, opts)
	if err != nil {
		return nil, desc, err
	}
	return res, desc, nil
}

// Query parses free-form type and provider names and dispatches. Spelling
// variants like "Hugging Face", "huggingface" and "HUGGINGFACE" all route to
// the same adapter; an unrecognized name fails before any adapter runs.
func (d *Dispatcher) Query(ctx context.Context, modelType, provider, query string, opts adapter.Options) (*adapter.Result, catalog.Descriptor, error) {
	t, err := catalog.ParseModelType(modelType)
	if err != nil {
		return nil, catalog.Descriptor{}, err
	}
	p, err := catalog.ParseProvider(provider)
	if err != nil {
		return nil, catalog.Descriptor{}, err
	}
	return d.Dispatch(ctx, t, p, query, opts)
}
