package waitfor

import (
	"log/slog"
	"time"
)

// Attempt describes one completed check attempt, delivered to callbacks
// registered via [WithAttemptCallback].
type Attempt struct {
	// Number is the 1-based attempt count, including this one.
	Number int

	// OK reports whether the check succeeded on this attempt.
	OK bool

	// Err is the attempt's failure reason. It may be nil even when OK is
	// false: a check is allowed to fail without a reason.
	Err error

	// Deferred reports whether the outcome arrived via a deferred
	// (Pending) result rather than synchronously from the check.
	Deferred bool

	// At is the clock time when the attempt completed.
	At time.Time
}

// invokeAttemptCallbacks runs every registered callback with panic
// recovery. Panics are logged but do not propagate into the poll loop.
func invokeAttemptCallbacks(cfg *pollConfig, a Attempt) {
	for _, cb := range cfg.attemptCallbacks {
		invokeAttemptCallbackSafe(cb, a, cfg.logger)
	}
}

func invokeAttemptCallbackSafe(cb func(Attempt), a Attempt, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("attempt callback panicked",
				"panic", r,
				"attempt", a.Number,
			)
		}
	}()
	cb(a)
}
