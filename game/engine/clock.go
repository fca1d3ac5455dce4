package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// CancelFunc stops a scheduled callback. It is safe to call more than once
// and never blocks on a callback that is already running.
type CancelFunc func()

// Clock schedules the engine's two asynchronous callbacks: the repeating
// game clock tick and the one-shot mismatch reveal.
type Clock interface {
	Every(d time.Duration, fn func()) CancelFunc
	After(d time.Duration, fn func()) CancelFunc
	Now() time.Time
}

// SystemClock adapts a benbjohnson clock to the Clock interface.
// Use clock.New() in production and clock.NewMock() in tests.
type SystemClock struct {
	clk clock.Clock
}

// NewSystemClock wraps clk. A nil clk means the wall clock.
func NewSystemClock(clk clock.Clock) *SystemClock {
	if clk == nil {
		clk = clock.New()
	}
	return &SystemClock{clk: clk}
}

// Every runs fn on its own goroutine every d until cancelled
func (c *SystemClock) Every(d time.Duration, fn func()) CancelFunc {
	ticker := c.clk.Ticker(d)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// After runs fn once after d unless cancelled first
func (c *SystemClock) After(d time.Duration, fn func()) CancelFunc {
	timer := c.clk.AfterFunc(d, fn)
	return func() { timer.Stop() }
}

// Now returns the current time of the underlying clock
func (c *SystemClock) Now() time.Time {
	return c.clk.Now()
}

// ManualClock is a deterministic Clock. Nothing fires until Advance is
// called, and callbacks then run synchronously on the caller's goroutine
// in due-time order.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	seq       int
	due       time.Time
	every     time.Duration
	fn        func()
	cancelled bool
}

// NewManualClock creates a clock frozen at start
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current time
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Every schedules fn every d starting d from now
func (c *ManualClock) Every(d time.Duration, fn func()) CancelFunc {
	return c.schedule(d, d, fn)
}

// After schedules fn once, d from now
func (c *ManualClock) After(d time.Duration, fn func()) CancelFunc {
	return c.schedule(d, 0, fn)
}

func (c *ManualClock) schedule(d, every time.Duration, fn func()) CancelFunc {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTimer{seq: c.seq, due: c.now.Add(d), every: every, fn: fn}
	c.timers = append(c.timers, t)

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		t.cancelled = true
		c.removeLocked(t)
	}
}

// Advance moves the clock forward by d, running every callback that
// becomes due. Callbacks may schedule or cancel other timers.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDueLocked(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}

		c.now = next.due
		if next.every > 0 {
			next.due = next.due.Add(next.every)
		} else {
			c.removeLocked(next)
		}
		fn := next.fn
		c.mu.Unlock()

		fn()
	}
}

// Pending returns the number of scheduled callbacks
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *ManualClock) nextDueLocked(target time.Time) *manualTimer {
	due := make([]*manualTimer, 0, len(c.timers))
	for _, t := range c.timers {
		if !t.cancelled && !t.due.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	return due[0]
}

func (c *ManualClock) removeLocked(t *manualTimer) {
	for i, existing := range c.timers {
		if existing == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}
