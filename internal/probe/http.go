package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/jpalmerr/waitfor"
)

// Outcome is the success value every probe check resolves with.
type Outcome struct {
	// Detail is a short human-readable description of what was observed,
	// e.g. "HTTP 200" or "connected to localhost:5432".
	Detail string

	// Latency is how long the successful attempt took.
	Latency time.Duration
}

// HTTPTarget describes an HTTP readiness target.
type HTTPTarget struct {
	URL     string
	Method  string
	Headers map[string]string

	// Timeout bounds each individual attempt. Zero means attempts are
	// bounded only by the poll's context.
	Timeout time.Duration

	// Expect decides readiness from the response. Nil means [DefaultExpect].
	Expect Expect
}

// HTTP returns a check that probes an HTTP target. The check fails with
// the transport error or the unmet [Expect] rule, so a poll timeout
// reports exactly what the target last answered.
func HTTP(client *Client, t HTTPTarget) waitfor.Check[Outcome] {
	expect := t.Expect
	if expect == nil {
		expect = DefaultExpect
	}
	return func(ctx context.Context) waitfor.Result[Outcome] {
		resp := client.Do(ctx, Request{
			Method:  t.Method,
			URL:     t.URL,
			Headers: t.Headers,
			Timeout: t.Timeout,
		})
		if resp.Error != nil {
			return waitfor.Failed[Outcome](resp.Error)
		}
		if err := expect(resp); err != nil {
			return waitfor.Failed[Outcome](err)
		}
		return waitfor.Done(Outcome{
			Detail:  fmt.Sprintf("HTTP %d", resp.StatusCode),
			Latency: resp.Latency,
		})
	}
}
