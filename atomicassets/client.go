package atomicassets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// Client represents an AtomicAssets API client
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	retry     RetryPolicy
	session   *retryablehttp.Client
	logger    zerolog.Logger
}

// Envelope is the top-level JSON object returned by the API.
// Data is kept raw; endpoint methods extract what they need from it.
// Raw holds the whole response body.
type Envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	QueryTime int64           `json:"query_time,omitempty"`
	Message   string          `json:"message,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// NewClient creates a new AtomicAssets client. The API key is kept on the
// client but is not sent with requests; the public API does not need one.
// No request is made until an endpoint method is called.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := o.validate(); err != nil {
		return nil, err
	}

	baseURL := o.baseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
		httpClient.Timeout = o.timeout
	}

	session := retryablehttp.NewClient()
	session.HTTPClient = httpClient
	session.Logger = leveledLogger{logger: logger}
	session.RetryMax = o.retry.Retries
	session.RetryWaitMin = o.retry.BackoffFactor
	session.RetryWaitMax = o.retry.MaxBackoff
	session.CheckRetry = o.retry.checkRetry
	session.Backoff = o.retry.backoff
	session.ErrorHandler = giveUp

	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		userAgent: o.userAgent,
		retry:     o.retry,
		session:   session,
		logger:    logger,
	}, nil
}

func (o clientOptions) validate() error {
	u, err := url.Parse(o.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base URL %q must be absolute", ErrInvalidConfig, o.baseURL)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("%w: base URL %q must not carry a query", ErrInvalidConfig, o.baseURL)
	}
	if o.timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if o.retry.Retries < 0 {
		return fmt.Errorf("%w: retries must not be negative", ErrInvalidConfig)
	}
	if o.retry.BackoffFactor < 0 || o.retry.MaxBackoff < 0 {
		return fmt.Errorf("%w: backoff must not be negative", ErrInvalidConfig)
	}
	for _, code := range o.retry.StatusCodes {
		if code < 100 || code > 599 {
			return fmt.Errorf("%w: invalid retry status %d", ErrInvalidConfig, code)
		}
	}
	return nil
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIKey returns the key the client was built with.
func (c *Client) APIKey() string {
	return c.apiKey
}

// RetryPolicy returns the retry policy applied to every request.
func (c *Client) RetryPolicy() RetryPolicy {
	return c.retry
}

// endpoint joins path onto the base URL and appends params.
func (c *Client) endpoint(path string, params Params) string {
	return BuildURL(c.baseURL+path, params)
}

// get performs one GET, retrying per the client's policy, and decodes the
// response envelope.
func (c *Client) get(ctx context.Context, rawURL string) (*Envelope, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().Str("url", rawURL).Msg("Making AtomicAssets API request")

	resp, err := c.session.Do(req)
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) {
			te.URL = rawURL
		} else {
			err = &TransportError{URL: rawURL, Attempts: 1, Err: err}
		}
		c.logger.Warn().Err(err).Str("url", rawURL).Msg("AtomicAssets request failed")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Attempts: 1, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(rawURL, resp, body)
	}

	if !utf8.Valid(body) {
		return nil, &DecodeError{URL: rawURL, Err: errors.New("response body is not valid UTF-8")}
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{URL: rawURL, Err: err}
	}

	return decodeEnvelope(raw), nil
}

// decodeEnvelope fills an Envelope from any well-formed JSON document.
// Known keys are taken only when they have the expected type; a body that is
// not an object yields an envelope with no Data.
func decodeEnvelope(raw json.RawMessage) *Envelope {
	env := &Envelope{Raw: raw}

	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return env
	}

	env.Data = obj["data"]
	_ = json.Unmarshal(obj["success"], &env.Success)
	_ = json.Unmarshal(obj["query_time"], &env.QueryTime)
	_ = json.Unmarshal(obj["message"], &env.Message)

	return env
}

// statusError classifies a non-2xx response: a JSON body becomes an APIError
// carrying the payload, anything else a plain StatusError.
func statusError(rawURL string, resp *http.Response, body []byte) error {
	var payload any
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    payloadMessage(payload),
			Payload:    payload,
		}
	}
	return &StatusError{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}
}

func payloadMessage(payload any) string {
	obj, ok := payload.(map[string]any)
	if !ok {
		if s, ok := payload.(string); ok {
			return s
		}
		return ""
	}
	for _, key := range []string{"message", "error"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
