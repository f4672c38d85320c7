// Package stopwatchtest provides a manually driven clock for testing code
// built on package stopwatch.
package stopwatchtest

import (
	"sync"
	"time"

	"github.com/c-nelson/stopwatch/pkg/stopwatch"
)

// Clock is a stopwatch.Clock that only moves when Advance is called
type Clock struct {
	mtx     sync.Mutex
	current time.Time
	tickers []*Ticker
}

var _ stopwatch.Clock = new(Clock)

// NewClock returns a Clock reading start
func NewClock(start time.Time) *Clock {
	return &Clock{current: start}
}

func (c *Clock) Now() time.Time {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.current
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.current = c.current.Add(d)
}

// NewTicker returns a Ticker that only ticks when Tick is called. The period is
// ignored.
func (c *Clock) NewTicker(time.Duration) stopwatch.Ticker {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	t := &Ticker{
		clock: c,
		c:     make(chan time.Time),
		done:  make(chan struct{}),
	}
	c.tickers = append(c.tickers, t)
	return t
}

// Tickers returns every ticker created so far, oldest first
func (c *Clock) Tickers() []*Ticker {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return append([]*Ticker(nil), c.tickers...)
}

// Latest returns the most recently created ticker, or nil
func (c *Clock) Latest() *Ticker {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if len(c.tickers) == 0 {
		return nil
	}
	return c.tickers[len(c.tickers)-1]
}

// Ticker is the stopwatch.Ticker handed out by Clock
type Ticker struct {
	clock *Clock
	c     chan time.Time
	done  chan struct{}
	once  sync.Once
}

var _ stopwatch.Ticker = new(Ticker)

func (t *Ticker) C() <-chan time.Time {
	return t.c
}

func (t *Ticker) Stop() {
	t.once.Do(func() {
		close(t.done)
	})
}

// Stopped reports whether Stop has been called
func (t *Ticker) Stopped() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Tick delivers the current clock reading and blocks until a receiver takes
// it. It returns false without delivering if the ticker is stopped.
func (t *Ticker) Tick() bool {
	if t.Stopped() {
		return false
	}
	select {
	case t.c <- t.clock.Now():
		return true
	case <-t.done:
		return false
	}
}
