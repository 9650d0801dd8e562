package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/modellens/modellens/pkg/adapter"
	"github.com/modellens/modellens/pkg/catalog"
)

// countingAdapter records how often it was invoked.
type countingAdapter struct {
	*adapter.MockAdapter
	calls int
}

func newCountingAdapter(p catalog.Provider) *countingAdapter {
	return &countingAdapter{MockAdapter: adapter.NewMockAdapter(p)}
}

func (a *countingAdapter) Generate(ctx context.Context, model catalog.Descriptor, query string, opts adapter.Options) (*adapter.Result, error) {
	a.calls++
	return a.MockAdapter.Generate(ctx, model, query, opts)
}

func newTestDispatcher(t *testing.T) (*Dispatcher, map[catalog.Provider]*countingAdapter) {
	t.Helper()
	adapters := map[catalog.Provider]*countingAdapter{
		catalog.ProviderOpenAI:      newCountingAdapter(catalog.ProviderOpenAI),
		catalog.ProviderAnthropic:   newCountingAdapter(catalog.ProviderAnthropic),
		catalog.ProviderHuggingFace: newCountingAdapter(catalog.ProviderHuggingFace),
	}
	d, err := New(catalog.Default(),
		adapters[catalog.ProviderOpenAI],
		adapters[catalog.ProviderAnthropic],
		adapters[catalog.ProviderHuggingFace])
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	return d, adapters
}

func TestDispatchRoutesByProvider(t *testing.T) {
	d, adapters := newTestDispatcher(t)

	res, desc, err := d.Dispatch(context.Background(), catalog.TypeInstruct, catalog.ProviderAnthropic, "Hello", adapter.DefaultOptions())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res == nil || res.Text == "" {
		t.Fatal("expected a result")
	}
	if desc.Name != "claude-3-haiku-20240307" {
		t.Errorf("unexpected descriptor: %q", desc.Name)
	}
	if adapters[catalog.ProviderAnthropic].calls != 1 {
		t.Errorf("expected anthropic adapter called once, got %d", adapters[catalog.ProviderAnthropic].calls)
	}
	for _, p := range []catalog.Provider{catalog.ProviderOpenAI, catalog.ProviderHuggingFace} {
		if adapters[p].calls != 0 {
			t.Errorf("adapter %s should not be called", p)
		}
	}
}

func TestQueryNormalizesProviderSpellings(t *testing.T) {
	d, adapters := newTestDispatcher(t)

	for _, spelling := range []string{"Hugging Face", "huggingface", "HUGGINGFACE"} {
		if _, _, err := d.Query(context.Background(), "base", spelling, "Hello", adapter.DefaultOptions()); err != nil {
			t.Fatalf("query with %q: %v", spelling, err)
		}
	}
	if got := adapters[catalog.ProviderHuggingFace].calls; got != 3 {
		t.Errorf("expected all spellings to reach the same adapter, got %d calls", got)
	}
}

func TestQueryRejectsUnknownProvider(t *testing.T) {
	d, adapters := newTestDispatcher(t)

	_, _, err := d.Query(context.Background(), "instruct", "cohere", "Hello", adapter.DefaultOptions())
	if !errors.Is(err, catalog.ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
	for p, a := range adapters {
		if a.calls != 0 {
			t.Errorf("adapter %s should not be invoked, got %d calls", p, a.calls)
		}
	}
}

func TestDispatchAbsentPair(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, _, err := d.Dispatch(context.Background(), catalog.TypeBase, catalog.ProviderAnthropic, "Hello", adapter.DefaultOptions())
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDispatchWithoutAdapterForProvider(t *testing.T) {
	d, err := New(catalog.Default(), adapter.NewMockAdapter(catalog.ProviderOpenAI))
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	_, desc, err := d.Dispatch(context.Background(), catalog.TypeInstruct, catalog.ProviderAnthropic, "Hello", adapter.DefaultOptions())
	if !errors.Is(err, adapter.ErrUnsupportedProvider) {
		t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
	}
	// The descriptor still comes back for metadata display.
	if desc.Name == "" {
		t.Error("expected resolved descriptor alongside the error")
	}
}

func TestNewRejectsBadRegistrations(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil catalog")
	}

	dup := adapter.NewMockAdapter(catalog.ProviderOpenAI)
	if _, err := New(catalog.Default(), dup, adapter.NewMockAdapter(catalog.ProviderOpenAI)); err == nil {
		t.Error("expected error for duplicate provider")
	}

	if _, err := New(catalog.Default(), adapter.NewMockAdapter(catalog.Provider("cohere"))); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestDispatchPropagatesAdapterError(t *testing.T) {
	failing := adapter.NewMockAdapter(catalog.ProviderOpenAI)
	failing.Err = adapter.ErrMissingAPIKey

	d, err := New(catalog.Default(), failing)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	_, desc, err := d.Dispatch(context.Background(), catalog.TypeInstruct, catalog.ProviderOpenAI, "Hello", adapter.DefaultOptions())
	if !errors.Is(err, adapter.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey to propagate, got %v", err)
	}
	if desc.Name != "gpt-3.5-turbo" {
		t.Errorf("expected descriptor alongside the error, got %q", desc.Name)
	}
}
