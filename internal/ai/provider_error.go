package ai

import (
	"fmt"
	"net/http"

	pwerrors "github.com/planwise/planwise/internal/errors"
)

// ProviderError is a failed provider call. It carries the originating
// provider name and, where known, the HTTP status and raw body, and wraps the
// sentinel matching its class so callers can branch with errors.Is.
type ProviderError struct {
	// ProviderName identifies the backend that failed.
	ProviderName string

	// StatusCode is the HTTP status, 0 for transport-level failures.
	StatusCode int

	// Body is the raw response text, truncated for log hygiene.
	Body string

	// Err is the underlying cause or classifying sentinel.
	Err error
}

// maxErrorBodyLen bounds how much response text an error retains.
const maxErrorBodyLen = 512

// NewProviderError classifies a non-2xx response into a ProviderError
// wrapping the appropriate sentinel.
func NewProviderError(provider string, status int, body string) *ProviderError {
	if len(body) > maxErrorBodyLen {
		body = body[:maxErrorBodyLen]
	}

	var sentinel error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		sentinel = pwerrors.ErrProviderAuth
	case status == http.StatusTooManyRequests:
		sentinel = pwerrors.ErrProviderRateLimited
	default:
		sentinel = pwerrors.ErrProviderRequest
	}

	return &ProviderError{
		ProviderName: provider,
		StatusCode:   status,
		Body:         body,
		Err:          sentinel,
	}
}

// WrapTransportError wraps a transport-level failure (DNS, timeout, reset)
// with provider attribution. Such failures are retryable.
func WrapTransportError(provider string, err error) *ProviderError {
	return &ProviderError{
		ProviderName: provider,
		Err:          fmt.Errorf("%w: %w", pwerrors.ErrProviderRequest, err),
	}
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %v (status %d): %s", e.ProviderName, e.Err, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.ProviderName, e.Err)
}

// Unwrap exposes the classifying sentinel to errors.Is.
func (e *ProviderError) Unwrap() error {
	return e.Err
}
