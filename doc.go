// Package waitfor provides a generic condition-polling primitive:
// repeatedly invoke a check until it succeeds, a deadline elapses, or the
// context is cancelled.
//
// waitfor is designed as an SDK-first library. The core is a single
// blocking call, [Poll], configured via the functional options pattern;
// everything else (readiness probes, the waitfor CLI) is a thin adapter
// layered on top of it.
//
// # Quick Start
//
// Poll a condition until it holds or a second has passed:
//
//	addr, err := waitfor.Poll(ctx, func(ctx context.Context) waitfor.Result[string] {
//	    addr, err := registry.Lookup(ctx, "payments")
//	    if err != nil {
//	        return waitfor.Failed[string](err)
//	    }
//	    return waitfor.Done(addr)
//	})
//
// The first check runs immediately; failures are recorded and retried
// every interval. If the deadline is reached, the error describes the
// last real failure rather than just "timed out".
//
// # Configuration
//
// Poll uses the functional options pattern for per-invocation configuration:
//
//	v, err := waitfor.Poll(ctx, check,
//	    waitfor.WithInterval(200 * time.Millisecond),
//	    waitfor.WithTimeout(30 * time.Second),
//	    waitfor.WithOnTimeout(func(err error) error {
//	        return fmt.Errorf("cluster never became ready: %w", err)
//	    }),
//	)
//
// # Deferred results
//
// A check whose outcome is not known synchronously returns [Pending] with
// a channel that later delivers the real result. While a deferred result
// is outstanding the check is not invoked again, no matter how many
// interval ticks elapse:
//
//	func check(ctx context.Context) waitfor.Result[int] {
//	    ch := make(chan waitfor.Result[int], 1)
//	    go func() { ch <- waitfor.Done(slowCount(ctx)) }()
//	    return waitfor.Pending[int](ch)
//	}
//
// # Virtual time
//
// Tests substitute wall-clock timers with [FakeClock] via [WithClock];
// Poll then drives the clock forward itself, making interval and timeout
// behavior deterministic without real waiting.
//
// # Architecture
//
// The repository contains, beyond the root package:
//
//   - internal/probe: HTTP, TCP and command readiness checks used by the CLI
//   - internal/store: result collection for concurrent multi-target waits
//   - config: YAML configuration for the waitfor CLI
//   - cmd/waitfor: the CLI (wait for URLs, ports, commands)
//
// The internal packages are not part of the public API and may change
// without notice.
package waitfor
