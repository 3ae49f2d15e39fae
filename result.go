package waitfor

import "context"

// resultKind discriminates the three shapes a check outcome can take.
type resultKind int

const (
	kindValue resultKind = iota
	kindFailed
	kindPending
)

// Result is the tagged outcome of a single [Check] invocation.
//
// A Result is exactly one of three things, built by its constructors:
//
//   - [Done]: the condition is satisfied, carrying the success value.
//   - [Failed]: the condition is not satisfied yet, carrying the reason.
//   - [Pending]: the outcome is not known yet; it will arrive later on
//     the supplied channel.
//
// The zero Result is equivalent to Done with the zero value of T; checks
// should always use a constructor for clarity.
type Result[T any] struct {
	kind  resultKind
	value T
	err   error
	wait  <-chan Result[T]
}

// Done returns a Result carrying a success value. The poller settles
// successfully with v as soon as it observes this result.
func Done[T any](v T) Result[T] {
	return Result[T]{kind: kindValue, value: v}
}

// Failed returns a Result indicating the condition is not satisfied yet.
//
// The error becomes the poller's last observed failure and is surfaced if
// the deadline elapses before a later check succeeds. A nil err is
// permitted: the attempt still counts as a failure, but a deadline reached
// without any real error produces the generic timeout message instead.
func Failed[T any](err error) Result[T] {
	return Result[T]{kind: kindFailed, err: err}
}

// Pending returns a Result whose outcome arrives later on ch.
//
// The channel must eventually deliver exactly one [Done] or [Failed]
// result (delivering another Pending is a programming error and is
// recorded as a failure). While a Pending result is outstanding the
// poller does not invoke the check again, no matter how many interval
// ticks elapse.
//
// If polling settles first (deadline or cancellation), the eventual
// delivery on ch is discarded, never awaited; the producing goroutine
// must not rely on its result being received.
func Pending[T any](ch <-chan Result[T]) Result[T] {
	return Result[T]{kind: kindPending, wait: ch}
}

// Value returns the success value and true if the result was built with
// [Done]. Otherwise it returns the zero value and false.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.kind == kindValue
}

// Err returns the failure reason for a [Failed] result, nil otherwise.
func (r Result[T]) Err() error {
	if r.kind == kindFailed {
		return r.err
	}
	return nil
}

// Deferred reports whether the result was built with [Pending].
func (r Result[T]) Deferred() bool {
	return r.kind == kindPending
}

// Check is the condition polled by [Poll]: a function invoked repeatedly
// until it returns [Done], the deadline elapses, or ctx is cancelled.
//
// Checks run on the polling goroutine and are never invoked concurrently
// with themselves. A panic inside a Check is recovered and recorded as a
// failed attempt rather than crashing the poll.
type Check[T any] func(ctx context.Context) Result[T]
