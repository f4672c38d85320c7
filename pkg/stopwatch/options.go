package stopwatch

import (
	"log/slog"
	"time"
)

const (
	// DefaultThrottling bounds how often a running stopwatch publishes
	DefaultThrottling = 70 * time.Millisecond
	// DefaultResolution is the tick period of the sampler
	DefaultResolution = 10 * time.Millisecond
)

// Option configures a Controller
type Option func(*config)

type config struct {
	initial    TimerState
	throttling time.Duration
	resolution time.Duration
	clock      Clock
	logger     *slog.Logger
}

// WithInitialState sets the state the stopwatch starts from and returns to on
// Reset.
func WithInitialState(s TimerState) Option {
	return func(c *config) {
		c.initial = s
	}
}

// WithThrottling sets the minimum interval between two publishes while
// running. Non-positive values keep DefaultThrottling.
func WithThrottling(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.throttling = d
		}
	}
}

// WithResolution sets the sampler tick period. Non-positive values keep
// DefaultResolution.
func WithResolution(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.resolution = d
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(clk Clock) Option {
	return func(c *config) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithLogger sets the logger used for lifecycle debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func applyOptions(opts ...Option) *config {
	cfg := &config{
		throttling: DefaultThrottling,
		resolution: DefaultResolution,
		clock:      wallClock{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
