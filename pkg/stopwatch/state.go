package stopwatch

import (
	"fmt"
	"time"
)

// TimerState is the published state of a stopwatch
type TimerState struct {
	StartTime    time.Time     // When the current running interval began, zero if never started
	PauseOffset  time.Duration // Time accumulated by every running interval before the last pause
	Hours        int           // Total hours, does not wrap at 24
	Minutes      int
	Seconds      int
	Milliseconds int
}

// Elapsed recomposes the published decomposition into a duration
func (s TimerState) Elapsed() time.Duration {
	return time.Duration(s.Hours)*time.Hour +
		time.Duration(s.Minutes)*time.Minute +
		time.Duration(s.Seconds)*time.Second +
		time.Duration(s.Milliseconds)*time.Millisecond
}

// String renders the state as HH:MM:SS.mmm
func (s TimerState) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", s.Hours, s.Minutes, s.Seconds, s.Milliseconds)
}

// withElapsed returns a copy of s whose decomposition shows d
func (s TimerState) withElapsed(d time.Duration) TimerState {
	e := Decompose(d)
	s.Hours, s.Minutes, s.Seconds, s.Milliseconds = e.Hours, e.Minutes, e.Seconds, e.Milliseconds
	return s
}

// Elapsed returns the time since start plus the accumulated pause offset
func Elapsed(now, start time.Time, pauseOffset time.Duration) time.Duration {
	return now.Sub(start) + pauseOffset
}

// Decompose splits d into hours, minutes, seconds and milliseconds. Negative
// durations decompose as zero.
func Decompose(d time.Duration) TimerState {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Millisecond)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second
	d -= sec * time.Second
	return TimerState{
		Hours:        int(h),
		Minutes:      int(m),
		Seconds:      int(sec),
		Milliseconds: int(d / time.Millisecond),
	}
}
