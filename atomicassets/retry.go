package atomicassets

import (
	"context"
	"io"
	"math"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// RetryPolicy controls how failed requests are retried. It is fixed when the
// client is built and applies to every request.
type RetryPolicy struct {
	// Retries is the number of retries after the first attempt.
	Retries int
	// BackoffFactor is the delay before the first retry; each further retry doubles it.
	BackoffFactor time.Duration
	// MaxBackoff caps any single delay, including one taken from Retry-After.
	MaxBackoff time.Duration
	// StatusCodes lists the response codes that are retried.
	StatusCodes []int
}

// Delay returns the wait before retry n, counting from 1:
// BackoffFactor * 2^(n-1), capped at MaxBackoff.
func (p RetryPolicy) Delay(n int) time.Duration {
	if n < 1 || p.BackoffFactor <= 0 {
		return 0
	}
	d := float64(p.BackoffFactor) * math.Pow(2, float64(n-1))
	if p.MaxBackoff > 0 && d > float64(p.MaxBackoff) {
		return p.MaxBackoff
	}
	if d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// Retryable reports whether a response with the given status is retried.
func (p RetryPolicy) Retryable(status int) bool {
	return slices.Contains(p.StatusCodes, status)
}

// checkRetry is the retryablehttp.CheckRetry for this policy. Connection
// errors follow the library default; responses are retried only on the
// configured status codes.
func (p RetryPolicy) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	return p.Retryable(resp.StatusCode), nil
}

// backoff is the retryablehttp.Backoff for this policy. attemptNum is zero
// for the first retry.
func (p RetryPolicy) backoff(_, _ time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == http.StatusServiceUnavailable {
		if d, ok := retryAfter(resp, time.Now()); ok {
			if p.MaxBackoff > 0 && d > p.MaxBackoff {
				return p.MaxBackoff
			}
			return d
		}
	}
	return p.Delay(attemptNum + 1)
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
func retryAfter(resp *http.Response, now time.Time) (time.Duration, bool) {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

// giveUp turns an exhausted retry loop into a TransportError.
func giveUp(resp *http.Response, err error, numTries int) (*http.Response, error) {
	te := &TransportError{Attempts: numTries, Err: err}
	if resp != nil {
		te.StatusCode = resp.StatusCode
		if resp.Request != nil {
			te.URL = resp.Request.URL.String()
		}
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}
	return nil, te
}

// leveledLogger routes retryablehttp's log lines into zerolog.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

var _ retryablehttp.LeveledLogger = leveledLogger{}
