package waitfor

import (
	"errors"
	"log/slog"
	"time"
)

// pollConfig holds mutable state while options are applied in [Poll].
type pollConfig struct {
	interval            time.Duration
	timeout             time.Duration
	onTimeout           func(error) error
	originalFailureOnly bool
	clock               Clock
	trigger             <-chan struct{}
	logger              *slog.Logger
	attemptCallbacks    []func(Attempt)
}

// Option is a function that configures a single [Poll] invocation.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [Poll] in a type-safe, extensible way.
// Options return an error if validation fails; Poll fails immediately
// with that error before any timer starts.
//
// Built-in options: [WithInterval], [WithTimeout], [WithOnTimeout],
// [WithOriginalFailureOnly], [WithClock], [WithTrigger], [WithLogger],
// [WithAttemptCallback].
type Option func(*pollConfig) error

// WithInterval sets the delay between re-checks.
//
// The first check always runs immediately; the interval governs every
// subsequent check. Defaults to 50 milliseconds.
//
// Example:
//
//	v, err := waitfor.Poll(ctx, check,
//	    waitfor.WithInterval(200 * time.Millisecond),
//	)
//
// Returns an error if the duration is zero or negative.
func WithInterval(d time.Duration) Option {
	return func(cfg *pollConfig) error {
		if d <= 0 {
			return errors.New("interval must be positive")
		}
		cfg.interval = d
		return nil
	}
}

// WithTimeout sets the overall deadline for the poll.
//
// When the deadline elapses without a successful check, Poll fails with a
// [*TimeoutError] carrying the last observed check failure if any.
// Defaults to 1 second.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) Option {
	return func(cfg *pollConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithOnTimeout registers a function that maps the terminal error to a
// (possibly different) error before Poll returns it.
//
// The function is called exactly once per Poll invocation, and only on
// the timeout path; success and cancellation never invoke it. Use it to
// enrich the timeout error with caller context:
//
//	v, err := waitfor.Poll(ctx, check,
//	    waitfor.WithOnTimeout(func(err error) error {
//	        return fmt.Errorf("waiting for leader election: %w", err)
//	    }),
//	)
//
// Returns an error if fn is nil.
func WithOnTimeout(fn func(error) error) Option {
	return func(cfg *pollConfig) error {
		if fn == nil {
			return errors.New("onTimeout func cannot be nil")
		}
		cfg.onTimeout = fn
		return nil
	}
}

// WithOriginalFailureOnly controls how a timeout with a prior check
// failure is surfaced.
//
// By default (false) the failure is wrapped in a [*TimeoutError] that
// relocates the error's origin to the Poll call site, which is usually
// the most useful place to point at across asynchronous boundaries. Set
// true to surface the last observed failure verbatim instead, for tooling
// that needs the original error value untouched.
func WithOriginalFailureOnly(enabled bool) Option {
	return func(cfg *pollConfig) error {
		cfg.originalFailureOnly = enabled
		return nil
	}
}

// WithClock substitutes the time source used for the deadline and the
// re-check interval.
//
// If the clock also implements [AdvanceClock] (for example [FakeClock]),
// Poll drives it forward itself, since virtual time does not advance on
// its own. Tests use this to make polling deterministic:
//
//	fc := waitfor.NewFakeClock()
//	v, err := waitfor.Poll(ctx, check, waitfor.WithClock(fc))
//
// Returns an error if the clock is nil.
func WithClock(c Clock) Option {
	return func(cfg *pollConfig) error {
		if c == nil {
			return errors.New("clock cannot be nil")
		}
		cfg.clock = c
		return nil
	}
}

// WithTrigger registers an external re-check trigger source.
//
// Each receive on ch requests an immediate re-check without waiting for
// the next interval tick, e.g. from a change notification owned by the
// caller. The at-most-one-in-flight guard applies uniformly: a trigger
// arriving while a deferred result is outstanding is ignored.
//
// The channel is read only while polling is in progress; senders should
// use a buffered channel or non-blocking sends. A nil channel is
// equivalent to no trigger source. Closing the channel detaches the
// source: interval pacing continues as if no trigger were configured.
func WithTrigger(ch <-chan struct{}) Option {
	return func(cfg *pollConfig) error {
		cfg.trigger = ch
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the poll.
//
// The poller logs each failed attempt at Debug level and check panics at
// Error level. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *pollConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithAttemptCallback registers a function called after every completed
// check attempt, successful or not.
//
// Multiple callbacks may be registered; they execute in registration
// order, synchronously on the polling goroutine. Callbacks must be
// non-blocking; long-running work should be dispatched to a separate
// goroutine. Panics within callbacks are recovered and logged; they do
// not abort polling.
//
// Nil callbacks are silently ignored.
func WithAttemptCallback(cb func(Attempt)) Option {
	return func(cfg *pollConfig) error {
		if cb == nil {
			return nil // no-op for nil callback (safe to call)
		}
		cfg.attemptCallbacks = append(cfg.attemptCallbacks, cb)
		return nil
	}
}
