package waitfor

import "time"

// Clock abstracts the time facilities used by the poller, so tests and
// virtual-time environments can substitute wall-clock timers.
//
// The default implementation wraps the time package. Supply an alternative
// via [WithClock].
type Clock interface {
	// Now returns the clock's current time.
	Now() time.Time

	// NewTimer returns a one-shot timer that fires once after d.
	NewTimer(d time.Duration) Timer

	// NewTicker returns a ticker that fires repeatedly every d.
	NewTicker(d time.Duration) Ticker
}

// Timer is a one-shot timer handle.
type Timer interface {
	// C returns the channel on which the single fire is delivered.
	C() <-chan time.Time

	// Stop prevents the timer from firing. It does not drain C.
	Stop() bool
}

// Ticker is a repeating timer handle.
type Ticker interface {
	// C returns the channel on which ticks are delivered.
	C() <-chan time.Time

	// Stop turns off the ticker. It does not drain C.
	Stop()
}

// AdvanceClock is a [Clock] whose time only moves when explicitly driven.
//
// When the clock configured via [WithClock] also implements AdvanceClock,
// [Poll] switches into driven mode: after the immediate first check it
// pumps the clock forward by the poll interval in a loop, yielding between
// increments, until settlement. Virtual time does not advance on its own,
// so the poller must move it.
type AdvanceClock interface {
	Clock

	// Advance moves the clock's current time forward by d, firing every
	// timer and ticker that becomes due within that window, in order.
	Advance(d time.Duration)
}

// systemClock is the default Clock backed by the time package.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) NewTimer(d time.Duration) Timer { return systemTimer{time.NewTimer(d)} }

func (systemClock) NewTicker(d time.Duration) Ticker { return systemTicker{time.NewTicker(d)} }

type systemTimer struct{ t *time.Timer }

func (s systemTimer) C() <-chan time.Time { return s.t.C }
func (s systemTimer) Stop() bool          { return s.t.Stop() }

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }
