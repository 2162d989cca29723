package atomicassets

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid atomicassets configuration")
	// ErrInvalidArgument indicates an endpoint argument of an unsupported type
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoData indicates the response data was empty or shorter than expected
	ErrNoData = errors.New("no data in response")
	// ErrMissingField indicates an expected field was absent from the response
	ErrMissingField = errors.New("missing field in response")
)

// TransportError is returned when a request could not be completed, either
// because the connection failed or because the retry budget ran out on a
// retry-eligible status.
type TransportError struct {
	URL        string
	Attempts   int
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: giving up after %d attempt(s): last status %d", e.URL, e.Attempts, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("GET %s: giving up after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
	}
	return fmt.Sprintf("GET %s: giving up after %d attempt(s)", e.URL, e.Attempts)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError represents a non-2xx response whose body was valid JSON.
// Payload holds the decoded body as returned by the API.
type APIError struct {
	StatusCode int
	Message    string
	Payload    any
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("atomicassets API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("atomicassets API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRateLimited checks if the API rejected the request for rate limiting
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// StatusError represents a non-2xx response whose body was not JSON.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// DecodeError is returned when a 2xx response body is not valid JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("GET %s: failed to decode response: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ArgumentError reports an endpoint argument that cannot be placed in a query string.
type ArgumentError struct {
	Key   string
	Value any
}

func (e *ArgumentError) Error() string {
	if e.Key == "" {
		return "invalid argument: empty parameter name"
	}
	return fmt.Sprintf("invalid argument %q: unsupported value type %T", e.Key, e.Value)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// LookupError reports a failed extraction from an otherwise well-formed response.
type LookupError struct {
	Path string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.Path, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
