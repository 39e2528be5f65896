// Package httpclient builds the outbound HTTP client used to reach the
// external user directory. Cross-cutting concerns (the API-key header and the
// retry policy) live in the transport chain so callers issue plain requests.
package httpclient

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/raftlab/userdir/internal/metrics"
)

const (
	// DefaultTimeout bounds one logical call, retries included.
	DefaultTimeout = 60 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers per attempt.
	ResponseHeaderTimeout = 15 * time.Second
)

// APIKeyHeader carries the static API key on every outbound request.
const APIKeyHeader = "x-api-key"

// UserAgent identifies the client to the upstream API.
const UserAgent = "userdir/1.0"

// Options configures New.
type Options struct {
	APIKey  string
	Timeout time.Duration
	Retry   RetryPolicy
	Logger  *slog.Logger
	Metrics metrics.Recorder

	// Transport is the innermost round tripper. Defaults to a pooled
	// *http.Transport.
	Transport http.RoundTripper
}

// New creates an HTTP client for the user directory API.
// It does not follow redirects.
func New(opts Options) *http.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNoop()
	}

	base := opts.Transport
	if base == nil {
		base = newTransport()
	}

	retry := newRetryTransport(base, opts.Retry, opts.Logger, opts.Metrics)

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: &headerTransport{next: retry, apiKey: opts.APIKey},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   TLSHandshakeTimeout,
		ResponseHeaderTimeout: ResponseHeaderTimeout,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
	}
}

// headerTransport attaches the API key and default headers.
type headerTransport struct {
	next   http.RoundTripper
	apiKey string
}

// RoundTrip clones req before touching headers, as http.RoundTripper requires.
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if t.apiKey != "" {
		r.Header.Set(APIKeyHeader, t.apiKey)
	}
	if r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", "application/json")
	}
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", UserAgent)
	}
	return t.next.RoundTrip(r)
}
