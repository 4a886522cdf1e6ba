// Package upstream performs rate-limited JSON requests against external
// HTTP APIs: the places and weather services and the storefront REST API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"neogaming/internal/metrics"
)

// DefaultUserAgent identifies the storefront to public OSM services.
const DefaultUserAgent = "neogaming-storefront/1.0"

// Config configures a Fetcher.
type Config struct {
	Service   string        // metrics label
	UserAgent string        // sent on every request
	Timeout   time.Duration // per request, defaults to 10s
	// RequestsPerSecond throttles outbound calls; <= 0 disables throttling.
	RequestsPerSecond float64
	Burst             int
	// Limiter, when set, replaces RequestsPerSecond and Burst so several
	// fetchers can share one budget.
	Limiter   *rate.Limiter
	Transport http.RoundTripper
}

// Fetcher issues requests and returns the decoded body.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	service   string
	userAgent string
}

// StatusError reports a non-2xx upstream answer.
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code: %d, body: %s", e.Service, e.Code, e.Body)
}

// NewLimiter returns a limiter allowing rps requests per second. rps <= 0
// means unlimited.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// New creates a Fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = NewLimiter(cfg.RequestsPerSecond, cfg.Burst)
	}
	return &Fetcher{
		client:    &http.Client{Transport: cfg.Transport, Timeout: cfg.Timeout},
		limiter:   limiter,
		service:   cfg.Service,
		userAgent: cfg.UserAgent,
	}
}

// Get fetches rawURL with the given query parameters merged in.
func (f *Fetcher) Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	req.URL.RawQuery = q.Encode()
	return f.do(ctx, req)
}

// PostJSON sends payload as a JSON body to rawURL.
func (f *Fetcher) PostJSON(ctx context.Context, rawURL string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", f.service, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return f.do(ctx, req)
}

func (f *Fetcher) do(ctx context.Context, req *http.Request) (body []byte, err error) {
	defer func() { metrics.RecordUpstream(f.service, err) }()

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limiter: %w", f.service, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.service, err)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "br" {
		reader = brotli.NewReader(resp.Body)
	}

	body, err = io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", f.service, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Service: f.service, Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
