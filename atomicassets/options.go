package atomicassets

import (
	"net/http"
	"time"
)

// Default client settings.
const (
	DefaultBaseURL       = "https://wax.api.atomicassets.io/atomicassets/v1/"
	DefaultTimeout       = 120 * time.Second
	DefaultRetries       = 5
	DefaultBackoffFactor = 500 * time.Millisecond
	DefaultMaxBackoff    = 120 * time.Second
)

// DefaultRetryStatuses are the response codes retried by default.
var DefaultRetryStatuses = []int{
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL    string
	timeout    time.Duration
	retry      RetryPolicy
	userAgent  string
	httpClient *http.Client
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		retry: RetryPolicy{
			Retries:       DefaultRetries,
			BackoffFactor: DefaultBackoffFactor,
			MaxBackoff:    DefaultMaxBackoff,
			StatusCodes:   append([]int(nil), DefaultRetryStatuses...),
		},
		userAgent: "waxatomic",
	}
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(retries int) Option {
	return func(o *clientOptions) {
		o.retry.Retries = retries
	}
}

// WithBackoffFactor sets the base delay of the exponential backoff.
func WithBackoffFactor(factor time.Duration) Option {
	return func(o *clientOptions) {
		o.retry.BackoffFactor = factor
	}
}

// WithMaxBackoff caps the delay between two attempts.
func WithMaxBackoff(max time.Duration) Option {
	return func(o *clientOptions) {
		o.retry.MaxBackoff = max
	}
}

// WithRetryStatuses replaces the set of retry-eligible status codes.
func WithRetryStatuses(codes ...int) Option {
	return func(o *clientOptions) {
		o.retry.StatusCodes = append([]int(nil), codes...)
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient replaces the pooled HTTP client used underneath the retry layer.
// The client is used as given; WithTimeout does not change it.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}
