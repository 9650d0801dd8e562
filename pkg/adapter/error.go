package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/modellens/modellens/pkg/catalog"
)

// Sentinel errors for adapter failures.
var (
	// ErrMissingAPIKey indicates the selected provider has no credential
	// configured. No network call is attempted.
	ErrMissingAPIKey = errors.New("API key not configured")

	// ErrUnsupportedProvider indicates no adapter serves the provider.
	ErrUnsupportedProvider = errors.New("provider not supported")

	// ErrModelLoading indicates a hosted model is cold and still loading.
	ErrModelLoading = errors.New("model is loading")

	// ErrTimeout indicates the provider did not answer within the transport
	// bound.
	ErrTimeout = errors.New("request timed out")

	// ErrEmptyResponse indicates the provider answered without any content.
	ErrEmptyResponse = errors.New("provider returned no content")

	// ErrUnrecognizedResponse indicates a response body that matches none of
	// the known schemas.
	ErrUnrecognizedResponse = errors.New("unrecognized response format")
)

// ProviderError wraps a provider failure with status metadata. The underlying
// error keeps the provider's own diagnostic text.
type ProviderError struct {
	Provider  catalog.Provider
	Status    int
	Transient bool
	Err       error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: provider error (status=%d)", e.Provider, e.Status)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsTransient reports whether an error names a state the caller may retry:
// cold-start, timeout, rate limiting, or a 5xx from the provider. The package
// itself never retries.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrModelLoading) || errors.Is(err, ErrTimeout) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		if provErr.Transient {
			return true
		}
		if provErr.Status == 429 || (provErr.Status >= 500 && provErr.Status <= 599) {
			return true
		}
	}
	return false
}

// IsConfiguration reports whether an error stems from local configuration
// rather than the remote call: a missing credential, an unserved or
// unrecognized provider, or an absent catalog entry.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrMissingAPIKey) ||
		errors.Is(err, ErrUnsupportedProvider) ||
		errors.Is(err, catalog.ErrNotFound) ||
		errors.Is(err, catalog.ErrUnknownProvider) ||
		errors.Is(err, catalog.ErrUnknownModelType)
}
