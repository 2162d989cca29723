package atomicassets

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient starts a server running handler and returns a client pointed at it
// with millisecond backoff so retry tests stay fast.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{
		WithBaseURL(server.URL + "/atomicassets/v1"),
		WithBackoffFactor(time.Millisecond),
		WithMaxBackoff(10 * time.Millisecond),
	}, opts...)

	client, err := NewClient("", zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("defaults", func(t *testing.T) {
		client, err := NewClient("", logger)
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, client.BaseURL())
		assert.Equal(t, DefaultTimeout, client.session.HTTPClient.Timeout)

		policy := client.RetryPolicy()
		assert.Equal(t, 5, policy.Retries)
		assert.Equal(t, 500*time.Millisecond, policy.BackoffFactor)
		assert.Equal(t, []int{502, 503, 504}, policy.StatusCodes)
		assert.Equal(t, 5, client.session.RetryMax)
	})

	t.Run("keeps api key", func(t *testing.T) {
		client, err := NewClient("secret", logger)
		require.NoError(t, err)
		assert.Equal(t, "secret", client.APIKey())
	})

	t.Run("adds trailing slash to base URL", func(t *testing.T) {
		client, err := NewClient("", logger, WithBaseURL("http://localhost:8080/atomicassets/v1"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/atomicassets/v1/", client.BaseURL())
	})

	t.Run("custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("", logger, WithHTTPClient(custom), WithTimeout(time.Minute))
		require.NoError(t, err)
		assert.Same(t, custom, client.session.HTTPClient)
		assert.Equal(t, 10*time.Second, client.session.HTTPClient.Timeout)
	})

	invalid := []struct {
		name string
		opt  Option
	}{
		{"relative base URL", WithBaseURL("atomicassets/v1")},
		{"base URL with query", WithBaseURL("https://example.com/v1/?x=1")},
		{"zero timeout", WithTimeout(0)},
		{"negative retries", WithRetries(-1)},
		{"negative backoff", WithBackoffFactor(-time.Second)},
		{"bad status", WithRetryStatuses(503, 42)},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient("", logger, tt.opt)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestGetRetriesTransientStatus(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"success":true,"data":{"ok":1}}`))
	}, WithRetries(3))

	env, err := client.get(context.Background(), client.endpoint("ping", Params{}))
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"ok":1}`, string(env.Data))
	assert.Equal(t, int32(3), hits.Load())
}

func TestGetRetriesEachEligibleStatus(t *testing.T) {
	for _, code := range []int{502, 503, 504} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			var hits atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if hits.Add(1) == 1 {
					w.WriteHeader(code)
					return
				}
				w.Write([]byte(`{"data":[]}`))
			})

			_, err := client.get(context.Background(), client.endpoint("ping", Params{}))
			require.NoError(t, err)
			assert.Equal(t, int32(2), hits.Load())
		})
	}
}

func TestGetGivesUpAfterRetries(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, WithRetries(2))

	rawURL := client.endpoint("ping", Params{})
	_, err := client.get(context.Background(), rawURL)
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 3, te.Attempts)
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)
	assert.Equal(t, rawURL, te.URL)
	assert.Equal(t, int32(3), hits.Load())
}

func TestGetDoesNotRetryOtherStatuses(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.get(context.Background(), client.endpoint("ping", Params{}))
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := NewClient("", zerolog.Nop(),
		WithBaseURL(baseURL),
		WithRetries(1),
		WithBackoffFactor(time.Millisecond),
	)
	require.NoError(t, err)

	_, err = client.get(context.Background(), client.endpoint("ping", Params{}))
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 2, te.Attempts)
	assert.Zero(t, te.StatusCode)
	assert.Error(t, te.Err)
}

func TestGetContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithBackoffFactor(time.Second), WithMaxBackoff(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.get(ctx, client.endpoint("ping", Params{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetErrorWithJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"x"}`))
	})

	_, err := client.get(context.Background(), client.endpoint("assets", Params{}))
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, map[string]any{"error": "x"}, apiErr.Payload)
	assert.Equal(t, "x", apiErr.Message)

	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestGetErrorWithoutJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("<html>forbidden</html>"))
	})

	_, err := client.get(context.Background(), client.endpoint("assets", Params{}))
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Contains(t, err.Error(), "403")

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestGetDecodeError(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"not json", []byte("not-json")},
		{"empty body", nil},
		{"invalid utf-8", []byte{'{', '"', 0xff, '"', ':', '1', '}'}},
		{"truncated object", []byte(`{"data":[`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write(tt.body)
			})

			env, err := client.get(context.Background(), client.endpoint("assets", Params{}))
			require.Error(t, err)
			assert.Nil(t, env)

			var de *DecodeError
			assert.True(t, errors.As(err, &de))
		})
	}
}

func TestGetAcceptsAnyJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected Envelope
	}{
		{
			name:     "well-formed envelope",
			body:     `{"success":true,"data":{"a":1},"query_time":1620000000123,"message":"ok"}`,
			expected: Envelope{Success: true, Data: json.RawMessage(`{"a":1}`), QueryTime: 1620000000123, Message: "ok"},
		},
		{
			name:     "success is a string",
			body:     `{"success":"yes","data":{}}`,
			expected: Envelope{Data: json.RawMessage(`{}`)},
		},
		{
			name:     "fractional query time",
			body:     `{"data":{},"query_time":1.5}`,
			expected: Envelope{Data: json.RawMessage(`{}`)},
		},
		{
			name:     "message is an object",
			body:     `{"data":{},"message":{"k":1}}`,
			expected: Envelope{Data: json.RawMessage(`{}`)},
		},
		{
			name: "top-level array",
			body: `[{"owner":"x"}]`,
		},
		{
			name: "bare string",
			body: `"pong"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			env, err := client.Ping(context.Background())
			require.NoError(t, err)
			require.NotNil(t, env)

			assert.Equal(t, tt.expected.Success, env.Success)
			assert.Equal(t, tt.expected.QueryTime, env.QueryTime)
			assert.Equal(t, tt.expected.Message, env.Message)
			assert.Equal(t, string(tt.expected.Data), string(env.Data))
			assert.JSONEq(t, tt.body, string(env.Raw))
		})
	}
}

func TestGetSendsHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "waxatomic-test", r.Header.Get("User-Agent"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("X-Api-Key"))
		w.Write([]byte(`{"success":true,"data":{}}`))
	}, WithUserAgent("waxatomic-test"))
	client.apiKey = "reserved"

	_, err := client.get(context.Background(), client.endpoint("ping", Params{}))
	require.NoError(t, err)
}

func TestRetryPolicyDelay(t *testing.T) {
	p := RetryPolicy{BackoffFactor: 500 * time.Millisecond, MaxBackoff: 3 * time.Second}

	assert.Equal(t, time.Duration(0), p.Delay(0))
	assert.Equal(t, 500*time.Millisecond, p.Delay(1))
	assert.Equal(t, time.Second, p.Delay(2))
	assert.Equal(t, 2*time.Second, p.Delay(3))
	assert.Equal(t, 3*time.Second, p.Delay(4))
	assert.Equal(t, 3*time.Second, p.Delay(30))

	assert.Equal(t, time.Duration(0), RetryPolicy{}.Delay(3))
}

func TestRetryPolicyDelayUncapped(t *testing.T) {
	p := RetryPolicy{BackoffFactor: 500 * time.Millisecond}

	assert.Equal(t, 4*time.Second, p.Delay(4))

	prev := p.Delay(1)
	for n := 2; n <= 80; n++ {
		d := p.Delay(n)
		require.Positive(t, d, "retry %d", n)
		require.GreaterOrEqual(t, d, prev, "retry %d", n)
		prev = d
	}
	assert.Equal(t, time.Duration(math.MaxInt64), p.Delay(36))
}

func TestRetryPolicyBackoff(t *testing.T) {
	p := RetryPolicy{BackoffFactor: 100 * time.Millisecond, MaxBackoff: 5 * time.Second}

	t.Run("first retry uses factor", func(t *testing.T) {
		assert.Equal(t, 100*time.Millisecond, p.backoff(0, 0, 0, nil))
		assert.Equal(t, 400*time.Millisecond, p.backoff(0, 0, 2, nil))
	})

	t.Run("honours Retry-After on 503", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusServiceUnavailable, Header: http.Header{}}
		resp.Header.Set("Retry-After", "2")
		assert.Equal(t, 2*time.Second, p.backoff(0, 0, 0, resp))

		resp.Header.Set("Retry-After", "600")
		assert.Equal(t, 5*time.Second, p.backoff(0, 0, 0, resp))
	})

	t.Run("ignores Retry-After on 502", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusBadGateway, Header: http.Header{}}
		resp.Header.Set("Retry-After", "2")
		assert.Equal(t, 100*time.Millisecond, p.backoff(0, 0, 0, resp))
	})
}

func TestRetryPolicyRetryable(t *testing.T) {
	p := RetryPolicy{StatusCodes: DefaultRetryStatuses}

	assert.True(t, p.Retryable(502))
	assert.True(t, p.Retryable(503))
	assert.True(t, p.Retryable(504))
	assert.False(t, p.Retryable(500))
	assert.False(t, p.Retryable(429))
	assert.False(t, p.Retryable(200))
}

func TestAPIError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Message: "Asset not found"}
		assert.Equal(t, "atomicassets API error: status 404: Asset not found", err.Error())

		err = &APIError{StatusCode: 400}
		assert.Equal(t, "atomicassets API error: status 400", err.Error())
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := &APIError{StatusCode: 404}
		assert.True(t, err.IsNotFound())

		err.StatusCode = 500
		assert.False(t, err.IsNotFound())
	})

	t.Run("IsRateLimited", func(t *testing.T) {
		assert.True(t, (&APIError{StatusCode: 429}).IsRateLimited())
		assert.False(t, (&APIError{StatusCode: 503}).IsRateLimited())
	})

	t.Run("message from payload", func(t *testing.T) {
		assert.Equal(t, "bad", payloadMessage(map[string]any{"success": false, "message": "bad"}))
		assert.Equal(t, "oops", payloadMessage("oops"))
		assert.Equal(t, "", payloadMessage([]any{1.0}))
	})
}
