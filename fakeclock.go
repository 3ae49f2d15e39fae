package waitfor

import (
	"sync"
	"time"
)

// FakeClock is a manual [AdvanceClock] for tests and virtualized-time
// environments. Time never moves on its own; call [FakeClock.Advance] to
// move it forward and fire any timers due within the window.
//
// All methods are safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	cond    *sync.Cond
	now     time.Time
	waiters []*fakeWaiter
}

// fakeWaiter is a pending timer or ticker registered with a FakeClock.
type fakeWaiter struct {
	clock   *FakeClock
	target  time.Time
	period  time.Duration // 0 for one-shot timers
	ch      chan time.Time
	stopped bool
}

// NewFakeClock returns a FakeClock starting at an arbitrary fixed instant.
func NewFakeClock() *FakeClock {
	return NewFakeClockAt(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
}

// NewFakeClockAt returns a FakeClock whose current time is t.
func NewFakeClockAt(t time.Time) *FakeClock {
	fc := &FakeClock{now: t}
	fc.cond = sync.NewCond(&fc.mu)
	return fc
}

// Now returns the clock's current time.
func (f *FakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// NewTimer returns a one-shot timer that fires when the clock is advanced
// past d from now.
func (f *FakeClock) NewTimer(d time.Duration) Timer {
	return fakeTimer{f.addWaiter(d, 0)}
}

// NewTicker returns a ticker that fires every d of advanced time.
func (f *FakeClock) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("waitfor: non-positive interval for FakeClock ticker")
	}
	return fakeTicker{f.addWaiter(d, d)}
}

func (f *FakeClock) addWaiter(d, period time.Duration) *fakeWaiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := &fakeWaiter{
		clock:  f,
		target: f.now.Add(d),
		period: period,
		ch:     make(chan time.Time, 1),
	}
	f.waiters = append(f.waiters, w)
	f.cond.Broadcast()
	return w
}

// Advance moves the clock forward by d, firing every timer and ticker due
// within the window in chronological order. Deliveries are non-blocking:
// like the time package, a fire is dropped when its channel buffer is
// already full.
func (f *FakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	end := f.now.Add(d)
	for {
		w := f.nextDue(end)
		if w == nil {
			break
		}
		f.now = w.target
		select {
		case w.ch <- f.now:
		default:
		}
		if w.period > 0 {
			w.target = w.target.Add(w.period)
		} else {
			w.stopped = true
		}
	}
	f.now = end
}

// nextDue returns the earliest active waiter due at or before end, or nil.
// Caller must hold f.mu.
func (f *FakeClock) nextDue(end time.Time) *fakeWaiter {
	var due *fakeWaiter
	for _, w := range f.waiters {
		if w.stopped || w.target.After(end) {
			continue
		}
		if due == nil || w.target.Before(due.target) {
			due = w
		}
	}
	return due
}

// BlockUntil blocks until at least n timers or tickers are active on the
// clock. Tests use this to wait for the poller to register its deadline
// and interval before advancing time.
func (f *FakeClock) BlockUntil(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.activeLocked() < n {
		f.cond.Wait()
	}
}

// Waiters returns the number of active timers and tickers.
func (f *FakeClock) Waiters() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeLocked()
}

func (f *FakeClock) activeLocked() int {
	n := 0
	for _, w := range f.waiters {
		if !w.stopped {
			n++
		}
	}
	return n
}

func (f *FakeClock) stopWaiter(w *fakeWaiter) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	wasActive := !w.stopped
	w.stopped = true
	f.cond.Broadcast()
	return wasActive
}

type fakeTimer struct{ w *fakeWaiter }

func (t fakeTimer) C() <-chan time.Time { return t.w.ch }
func (t fakeTimer) Stop() bool          { return t.w.clock.stopWaiter(t.w) }

type fakeTicker struct{ w *fakeWaiter }

func (t fakeTicker) C() <-chan time.Time { return t.w.ch }
func (t fakeTicker) Stop()               { t.w.clock.stopWaiter(t.w) }
