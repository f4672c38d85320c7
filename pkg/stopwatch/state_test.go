package stopwatch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/c-nelson/stopwatch/pkg/stopwatch"
)

func TestDecompose(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want stopwatch.TimerState
	}{
		{"zero", 0, stopwatch.TimerState{}},
		{"negative", -time.Second, stopwatch.TimerState{}},
		{"sub millisecond dropped", 150*time.Millisecond + 999*time.Microsecond,
			stopwatch.TimerState{Milliseconds: 150}},
		{"all fields", 2*time.Hour + 3*time.Minute + 4*time.Second + 5*time.Millisecond,
			stopwatch.TimerState{Hours: 2, Minutes: 3, Seconds: 4, Milliseconds: 5}},
		{"hours do not wrap", 49 * time.Hour, stopwatch.TimerState{Hours: 49}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stopwatch.Decompose(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.in > 0 {
				assert.Equal(t, tt.in.Truncate(time.Millisecond), got.Elapsed())
			}
		})
	}
}

func TestElapsed(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(1500 * time.Millisecond)

	assert.Equal(t, 1500*time.Millisecond, stopwatch.Elapsed(now, start, 0))
	assert.Equal(t, 2*time.Second, stopwatch.Elapsed(now, start, 500*time.Millisecond))
}

func TestTimerStateString(t *testing.T) {
	s := stopwatch.TimerState{Hours: 1, Minutes: 2, Seconds: 3, Milliseconds: 45}
	assert.Equal(t, "01:02:03.045", s.String())
	assert.Equal(t, "00:00:00.000", stopwatch.TimerState{}.String())
}
