package stopwatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Controller is a stopwatch that can be started, paused and reset. While
// running it samples the clock every resolution tick and publishes the elapsed
// time on Updates at most once per throttling interval.
//
// All methods are safe for concurrent use. A Controller must be released with
// Close, or by cancelling the context given to New.
type Controller struct {
	mu         sync.Mutex
	clock      Clock
	logger     *slog.Logger
	throttling time.Duration
	resolution time.Duration
	initial    TimerState
	time       TimerState
	run        *runHandle
	updates    chan TimerState
	closed     bool
	stopAfter  func() bool
	samplers   sync.WaitGroup
}

// runHandle is the lifecycle of one sampling loop, from Start to Pause, Reset
// or Close.
type runHandle struct {
	ticker  Ticker
	limiter *rate.Limiter
	stop    chan struct{}
}

// New returns a stopped Controller. Cancelling ctx has the same effect as
// calling Close.
func New(ctx context.Context, opts ...Option) *Controller {
	cfg := applyOptions(opts...)
	c := &Controller{
		clock:      cfg.clock,
		logger:     cfg.logger,
		throttling: cfg.throttling,
		resolution: cfg.resolution,
		initial:    cfg.initial,
		time:       cfg.initial,
		updates:    make(chan TimerState, 1),
	}

	c.mu.Lock()
	c.stopAfter = context.AfterFunc(ctx, func() {
		_ = c.Close()
	})
	c.mu.Unlock()

	return c
}

// Start begins a running interval. It does nothing if the stopwatch is
// already running or closed.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.run != nil {
		return
	}

	now := c.clock.Now()
	c.time.StartTime = now
	c.time = c.time.withElapsed(c.time.PauseOffset)

	h := &runHandle{
		ticker:  c.clock.NewTicker(c.resolution),
		limiter: rate.NewLimiter(rate.Every(c.throttling), 1),
		stop:    make(chan struct{}),
	}
	// the publish below is the first one of the interval
	h.limiter.AllowN(now, 1)
	c.run = h

	c.samplers.Add(1)
	go c.sample(h)

	c.logger.Debug("stopwatch started",
		"offset", c.time.PauseOffset,
		"throttling", c.throttling,
		"resolution", c.resolution,
	)
	c.publish()
}

// Pause ends the running interval and folds it into PauseOffset. It does
// nothing if the stopwatch is not running.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run == nil {
		return
	}
	c.cancel()

	c.time.PauseOffset = Elapsed(c.clock.Now(), c.time.StartTime, c.time.PauseOffset)
	c.time = c.time.withElapsed(c.time.PauseOffset)

	c.logger.Debug("stopwatch paused", "offset", c.time.PauseOffset)
	c.publish()
}

// Reset stops the stopwatch and restores the initial state it was created
// with.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.cancel()
	c.time = c.initial

	c.logger.Debug("stopwatch reset")
	c.publish()
}

// Time returns the last published state
func (c *Controller) Time() TimerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.time
}

// Running reports whether a sampling loop is active
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.run != nil
}

// Updates returns the channel states are published on. It holds at most one
// state: an unread state is replaced by a newer one, so readers always see
// the latest. The channel is closed by Close.
func (c *Controller) Updates() <-chan TimerState {
	return c.updates
}

// Close stops any sampling loop, waits for it to exit and closes Updates.
// Further calls to Start, Pause and Reset do nothing.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.cancel()
	c.closed = true
	close(c.updates)
	stopAfter := c.stopAfter
	c.mu.Unlock()

	if stopAfter != nil {
		stopAfter()
	}
	c.samplers.Wait()

	c.logger.Debug("stopwatch closed")
	return nil
}

func (c *Controller) sample(h *runHandle) {
	defer c.samplers.Done()
	for {
		select {
		case <-h.stop:
			return
		case <-h.ticker.C():
			c.tick(h)
		}
	}
}

func (c *Controller) tick(h *runHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// a tick can race with Pause or Reset
	if c.run != h {
		return
	}

	now := c.clock.Now()
	if !h.limiter.AllowN(now, 1) {
		return
	}

	c.time = c.time.withElapsed(Elapsed(now, c.time.StartTime, c.time.PauseOffset))
	c.publish()
}

// cancel must be called with mu held
func (c *Controller) cancel() {
	if c.run == nil {
		return
	}
	c.run.ticker.Stop()
	close(c.run.stop)
	c.run = nil
}

// publish must be called with mu held
func (c *Controller) publish() {
	if c.closed {
		return
	}
	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- c.time:
	default:
	}
}
