package waitfor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

const (
	defaultInterval = 50 * time.Millisecond
	defaultTimeout  = time.Second
)

// pollState tracks where a poll invocation is in its lifecycle.
//
// Transitions: idle → checking → {idle, awaitingDeferred, settled};
// awaitingDeferred → {idle, settled}. settled is terminal: the polling
// goroutine returns, so nothing can observe or mutate state afterwards.
type pollState int

const (
	stateIdle pollState = iota
	stateChecking
	stateAwaitingDeferred
	stateSettled
)

// Poll repeatedly invokes check until it succeeds, the deadline elapses,
// or ctx is cancelled.
//
// The first check runs immediately, so fast-resolving conditions return
// without incurring interval latency; subsequent checks run every
// interval (default 50ms) until the timeout (default 1s). A check failure
// is recorded and polling continues; the most recent failure is surfaced
// if the deadline is reached, in preference to a generic timeout message.
//
// Poll settles exactly once. On success it returns the check's value. On
// failure it returns one of:
//
//   - [ErrNilCheck] if check is nil, immediately, before any timer starts;
//   - an option validation error, likewise immediately;
//   - context.Cause(ctx) if ctx is cancelled, whether before the first
//     check or mid-poll (an in-flight deferred result is abandoned, not
//     awaited);
//   - a [*TimeoutError] when the deadline elapses (matched by
//     errors.Is(err, ErrTimeout)).
//
// Poll blocks on the calling goroutine, which is the sole owner of all
// poll state; checks are never invoked concurrently with each other.
func Poll[T any](ctx context.Context, check Check[T], opts ...Option) (T, error) {
	var zero T
	if check == nil {
		return zero, ErrNilCheck
	}

	cfg := &pollConfig{
		interval: defaultInterval,
		timeout:  defaultTimeout,
		clock:    systemClock{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return zero, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	p := &poller[T]{check: check, cfg: cfg, state: stateIdle}

	// capture the call site now so a timeout can point at the caller
	// rather than poller internals (best-effort)
	if _, file, line, ok := runtime.Caller(1); ok {
		p.originFile, p.originLine = file, line
	}

	// a pre-cancelled context settles before any check runs
	if ctx.Err() != nil {
		return zero, context.Cause(ctx)
	}

	return p.run(ctx)
}

// poller is the state of a single Poll invocation. All fields are owned
// by the goroutine running Poll; no locking is needed.
type poller[T any] struct {
	check    Check[T]
	cfg      *pollConfig
	state    pollState
	lastErr  error // most recent check failure
	deferred <-chan Result[T]
	attempts int

	originFile string
	originLine int
}

// run drives the poll loop until settlement.
func (p *poller[T]) run(ctx context.Context) (T, error) {
	var zero T

	deadline := p.cfg.clock.NewTimer(p.cfg.timeout)
	defer deadline.Stop()
	ticker := p.cfg.clock.NewTicker(p.cfg.interval)
	defer ticker.Stop()

	// immediate first check; do not wait for the first interval tick
	if v, settled := p.runCheck(ctx); settled {
		return v, nil
	}

	if ac, ok := p.cfg.clock.(AdvanceClock); ok {
		return p.drive(ctx, ac, deadline, ticker)
	}

	for {
		select {
		case <-ctx.Done():
			p.state = stateSettled
			return zero, context.Cause(ctx)

		case <-deadline.C():
			return zero, p.settleTimeout()

		case <-ticker.C():
			if v, settled := p.runCheck(ctx); settled {
				return v, nil
			}

		case _, open := <-p.cfg.trigger: // nil channel when no trigger source
			if !open {
				// a closed trigger is permanently ready; drop the
				// source so interval pacing takes back over
				p.cfg.trigger = nil
				continue
			}
			if v, settled := p.runCheck(ctx); settled {
				return v, nil
			}

		case r, open := <-p.deferred: // nil channel unless awaiting
			if v, settled := p.onDeferred(r, open); settled {
				return v, nil
			}
		}
	}
}

// drive pumps an AdvanceClock forward in interval increments until
// settlement. Virtual time does not advance on its own, so the poller
// moves it, yielding between increments so deferred producers and
// trigger sources get scheduled.
func (p *poller[T]) drive(ctx context.Context, ac AdvanceClock, deadline Timer, ticker Ticker) (T, error) {
	var zero T

	for {
		// cancellation wins over anything already queued
		select {
		case <-ctx.Done():
			p.state = stateSettled
			return zero, context.Cause(ctx)
		default:
		}

		select {
		case <-deadline.C():
			return zero, p.settleTimeout()
		default:
		}

		// let an outstanding deferred result or an external trigger in
		// before moving time further
		select {
		case r, open := <-p.deferred:
			if v, settled := p.onDeferred(r, open); settled {
				return v, nil
			}
			continue
		default:
		}

		select {
		case _, open := <-p.cfg.trigger:
			if !open {
				p.cfg.trigger = nil
				continue
			}
			if v, settled := p.runCheck(ctx); settled {
				return v, nil
			}
			continue
		default:
		}

		select {
		case <-ticker.C():
			if v, settled := p.runCheck(ctx); settled {
				return v, nil
			}
			continue
		default:
		}

		ac.Advance(p.cfg.interval)
		runtime.Gosched()
	}
}

// runCheck invokes the check once, unless a deferred result is still
// outstanding, in which case the tick is skipped entirely.
// Returns the success value and true when the poll settles successfully.
func (p *poller[T]) runCheck(ctx context.Context) (T, bool) {
	var zero T
	if p.state == stateAwaitingDeferred {
		return zero, false
	}

	p.state = stateChecking
	p.attempts++
	res := p.invoke(ctx)

	switch {
	case res.kind == kindValue:
		p.state = stateSettled
		p.observe(Attempt{Number: p.attempts, OK: true, At: p.cfg.clock.Now()})
		return res.value, true

	case res.kind == kindPending:
		if res.wait == nil {
			p.state = stateIdle
			p.recordFailure(fmt.Errorf("check returned Pending with a nil channel"), false)
			return zero, false
		}
		p.state = stateAwaitingDeferred
		p.deferred = res.wait
		return zero, false

	default:
		p.state = stateIdle
		p.recordFailure(res.err, false)
		return zero, false
	}
}

// invoke calls the check with panic recovery. A panicking check is
// recorded as a failure carrying a correlation ID; the full stack is
// logged server-side under the same ID.
func (p *poller[T]) invoke(ctx context.Context) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			p.cfg.logger.Error("check panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			res = Failed[T](fmt.Errorf("check panic (correlation_id: %s)", correlationID))
		}
	}()
	return p.check(ctx)
}

// onDeferred consumes the settlement of an outstanding deferred result.
// Returns the success value and true when the poll settles successfully.
func (p *poller[T]) onDeferred(r Result[T], open bool) (T, bool) {
	var zero T
	p.deferred = nil

	if !open {
		p.state = stateIdle
		p.recordFailure(fmt.Errorf("deferred channel closed without a result"), true)
		return zero, false
	}

	switch r.kind {
	case kindValue:
		p.state = stateSettled
		p.observe(Attempt{Number: p.attempts, OK: true, Deferred: true, At: p.cfg.clock.Now()})
		return r.value, true

	case kindPending:
		p.state = stateIdle
		p.recordFailure(fmt.Errorf("deferred channel delivered another Pending result"), true)
		return zero, false

	default:
		p.state = stateIdle
		p.recordFailure(r.err, true)
		return zero, false
	}
}

// recordFailure notes a failed attempt and resumes ticking. Only non-nil
// errors replace the last observed failure; a deadline reached with no
// real failure produces the generic timeout message.
func (p *poller[T]) recordFailure(err error, deferred bool) {
	if err != nil {
		p.lastErr = err
	}
	p.cfg.logger.Debug("check attempt failed",
		"attempt", p.attempts,
		"deferred", deferred,
		"error", err,
	)
	p.observe(Attempt{Number: p.attempts, Err: err, Deferred: deferred, At: p.cfg.clock.Now()})
}

// observe delivers an Attempt to registered callbacks.
func (p *poller[T]) observe(a Attempt) {
	if len(p.cfg.attemptCallbacks) > 0 {
		invokeAttemptCallbacks(p.cfg, a)
	}
}

// settleTimeout builds the terminal error for the deadline path and runs
// it through the onTimeout post-processor, exactly once.
func (p *poller[T]) settleTimeout() error {
	p.state = stateSettled

	var err error
	if p.lastErr != nil && p.cfg.originalFailureOnly {
		err = p.lastErr
	} else {
		err = &TimeoutError{
			Cause:   p.lastErr,
			Timeout: p.cfg.timeout,
			File:    p.originFile,
			Line:    p.originLine,
		}
	}
	if p.cfg.onTimeout != nil {
		err = p.cfg.onTimeout(err)
	}
	return err
}
