package httpclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/raftlab/userdir/internal/metrics"
)

const (
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultBaseDelay is the backoff unit.
	DefaultBaseDelay = time.Second

	// maxDrainBytes is how much of a discarded body is read for connection reuse.
	maxDrainBytes = 4096

	// maxBackoffShift bounds the exponent so the delay cannot overflow.
	maxBackoffShift = 30
	maxDelay        = time.Duration(math.MaxInt64)
)

// RetryPolicy retries transient failures with exponential backoff.
// The wait before retry n (1-based) is 2^n * BaseDelay: 2s, 4s, 8s by default.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRetryPolicy returns 3 retries on a 1s unit.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
	}
}

// Delay returns the wait before the given retry (1-based). Large attempts
// saturate instead of wrapping around.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	attempt = max(1, min(attempt, maxBackoffShift))
	if p.BaseDelay <= 0 {
		return 0
	}
	if p.BaseDelay > maxDelay>>uint(attempt) {
		return maxDelay
	}
	return p.BaseDelay << uint(attempt)
}

// Delays lists every wait the policy can produce, in order.
func (p RetryPolicy) Delays() []time.Duration {
	delays := make([]time.Duration, 0, p.MaxRetries)
	for i := 1; i <= p.MaxRetries; i++ {
		delays = append(delays, p.Delay(i))
	}
	return delays
}

// IsExhausted returns true once retries has reached MaxRetries.
func (p RetryPolicy) IsExhausted(retries int) bool {
	return retries >= p.MaxRetries
}

// IsTransient reports whether a round trip result is worth retrying:
// a network error, a 5xx, or 408 Request Timeout.
// Context cancellation and deadline errors are never transient.
func IsTransient(resp *http.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if resp == nil {
		return false
	}
	return resp.StatusCode >= 500 || resp.StatusCode == http.StatusRequestTimeout
}

type sleepFunc func(ctx context.Context, d time.Duration) error

// retryTransport re-issues requests that fail transiently.
type retryTransport struct {
	next    http.RoundTripper
	policy  RetryPolicy
	logger  *slog.Logger
	metrics metrics.Recorder
	sleep   sleepFunc
}

func newRetryTransport(next http.RoundTripper, policy RetryPolicy, logger *slog.Logger, recorder metrics.Recorder) *retryTransport {
	return &retryTransport{
		next:    next,
		policy:  policy,
		logger:  logger.With("component", "httpclient.retry"),
		metrics: recorder,
		sleep:   sleepContext,
	}
}

// RoundTrip sends req, retrying transient failures. When retries run out the
// last response or error is returned unchanged.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	for retries := 0; ; retries++ {
		attemptReq, err := rewind(req, retries)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		resp, err := t.next.RoundTrip(attemptReq)
		t.metrics.ObserveUpstreamRequest(statusCode(resp), time.Since(start))

		// Once the caller has given up, the failure is theirs, not the upstream's.
		if expired(ctx) || !IsTransient(resp, err) || t.policy.IsExhausted(retries) || !canRetry(req) {
			return resp, err
		}

		delay := t.policy.Delay(retries + 1)
		attrs := []any{
			"method", req.Method,
			"url", req.URL.Redacted(),
			"retry", retries + 1,
			"max_retries", t.policy.MaxRetries,
			"delay", delay,
		}
		if err != nil {
			attrs = append(attrs, "error", err)
		} else {
			attrs = append(attrs, "http_status", resp.StatusCode)
			drain(resp)
		}
		t.logger.Warn("transient upstream failure, retrying", attrs...)
		t.metrics.IncUpstreamRetry()

		if err := t.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// rewind returns the request to send for the given attempt. Retries need a
// fresh body from GetBody.
func rewind(req *http.Request, retries int) (*http.Request, error) {
	if retries == 0 || req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	r := req.Clone(req.Context())
	r.Body = body
	return r, nil
}

// expired reports whether ctx is done or past its deadline. http.Client
// enforces its Timeout through a deadline on the request context.
func expired(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	deadline, ok := ctx.Deadline()
	return ok && !time.Now().Before(deadline)
}

func canRetry(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func statusCode(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

// drain discards a response so its connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	_ = resp.Body.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
