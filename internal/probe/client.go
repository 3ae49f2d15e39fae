package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBodySize caps how much of a probed response is read.
const maxResponseBodySize = 1 << 20 // 1MB

// connection pooling limits to prevent resource exhaustion when many
// targets are probed concurrently
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// Request describes a single HTTP probe attempt.
type Request struct {
	// Method is the HTTP method. Empty defaults to GET.
	Method string

	// URL is the target URL.
	URL string

	// Headers are custom headers sent with the request.
	Headers map[string]string

	// Timeout bounds this attempt. Zero means no per-attempt timeout
	// beyond the poll's own context.
	Timeout time.Duration
}

// Response holds the result of one HTTP probe attempt.
//
// Errors are captured in the Error field rather than returned separately;
// a probe either produced a response or a reason it could not.
type Response struct {
	// Body is the response body, capped at 1MB.
	Body []byte

	// StatusCode is the HTTP status code; zero if the request failed
	// before a response arrived.
	StatusCode int

	// Latency is the total time taken by the attempt.
	Latency time.Duration

	// Error is the transport-level failure, if any.
	Error error
}

// Client is an HTTP client wrapper tuned for repeated readiness probes.
//
// Timeouts are applied per attempt via context rather than as a global
// client timeout, so targets with different timeout configurations can
// share one pooled client.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a pooled probe [Client].
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			// no global timeout; per-attempt timeouts come via context
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
	}
}

// Do performs one probe attempt and returns a structured [Response].
func (c *Client) Do(ctx context.Context, pr Request) Response {
	if pr.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pr.Timeout)
		defer cancel()
	}

	start := time.Now()

	method := pr.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, pr.URL, nil)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("failed to create request: %w", err),
		}
	}
	for key, value := range pr.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("request failed: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return Response{
			StatusCode: resp.StatusCode,
			Latency:    time.Since(start),
			Error:      fmt.Errorf("failed to read response body: %w", err),
		}
	}

	return Response{
		Body:       body,
		StatusCode: resp.StatusCode,
		Latency:    time.Since(start),
	}
}

// Close releases idle connections in the client's pool. Safe to call
// multiple times; the client remains usable afterwards.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
