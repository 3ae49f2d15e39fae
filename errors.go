package waitfor

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// ErrNilCheck is returned synchronously by [Poll] when the check function
// is nil. No timer is started and no attempt is made.
var ErrNilCheck = errors.New("waitfor: check func must not be nil")

// ErrTimeout is the sentinel matched by errors.Is for every deadline
// failure, whether or not a check had previously failed.
//
//	_, err := waitfor.Poll(ctx, check)
//	if errors.Is(err, waitfor.ErrTimeout) { ... }
var ErrTimeout = errors.New("waitfor: timed out")

// TimeoutError is the structured error surfaced when the deadline elapses.
//
// If any check attempt failed before the deadline, Cause holds the most
// recent failure and the TimeoutError's message is that failure's message,
// so callers see the real reason rather than a generic timeout. If no
// attempt ever produced an error, the message is generic.
//
// File and Line point at the [Poll] call site, captured when polling
// started. This relocates the failure toward the caller, which is usually
// more useful across asynchronous boundaries than the poller's own
// internals. Capture is best-effort: both fields are zero when the runtime
// provides no caller information.
type TimeoutError struct {
	// Cause is the last observed check failure, or nil if no check ever
	// produced an error before the deadline.
	Cause error

	// Timeout is the configured overall deadline.
	Timeout time.Duration

	// File and Line identify the Poll call site, when available.
	File string
	Line int
}

// Error returns the last observed failure's message when one exists,
// otherwise a generic timeout message pointing at the Poll call site.
func (e *TimeoutError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	if e.File != "" {
		return fmt.Sprintf("timed out in waitfor after %s (%s:%d)", e.Timeout, filepath.Base(e.File), e.Line)
	}
	return fmt.Sprintf("timed out in waitfor after %s", e.Timeout)
}

// Unwrap returns the last observed check failure, enabling errors.Is and
// errors.As to match against the underlying cause.
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// Is reports true for [ErrTimeout], so both the generic and the
// cause-carrying timeout match the same sentinel.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Origin returns the Poll call site as "file:line", or "" if the runtime
// provided no caller information.
func (e *TimeoutError) Origin() string {
	if e.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", e.File, e.Line)
}
