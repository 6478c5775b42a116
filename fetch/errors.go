package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth is returned when a provider access token could not be issued.
	ErrAuth = errors.New("provider authentication failed")
	// ErrFetch is returned when provider chart data could not be fetched.
	ErrFetch = errors.New("provider chart request failed")
	// ErrMalformed is returned when a provider response does not have the expected shape.
	ErrMalformed = errors.New("malformed provider response")
)

const (
	// maxErrorBodySize is the maximum number of response body bytes kept for error reporting.
	maxErrorBodySize = 2048
)

// ProviderError represents an unsuccessful response from the price provider.
type ProviderError struct {
	// Op is the provider operation that failed.
	Op string
	// Reason describes what was wrong with the response.
	Reason string
	// Status is the http status code of the response.
	Status int
	// Body is the (possibly truncated) response body.
	Body string
}

// newProviderError creates a provider error from the provided response details.
func newProviderError(op string, reason string, status int, body []byte) *ProviderError {
	if len(body) > maxErrorBodySize {
		body = body[:maxErrorBodySize]
	}

	return &ProviderError{
		Op:     op,
		Reason: reason,
		Status: status,
		Body:   string(body),
	}
}

// Error returns the error string.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s (status %d): %s", e.Op, e.Reason, e.Status, e.Body)
}
