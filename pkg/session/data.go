package session

import (
	"log"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/shopspring/decimal"

	"github.com/c-nelson/stopwatch/pkg/stopwatch"
)

// FormatSeconds renders the elapsed time of a state as seconds with millisecond
// precision, ex "1.250"
func FormatSeconds(s stopwatch.TimerState) string {
	ms := decimal.NewFromInt(int64(s.Elapsed() / time.Millisecond))
	return ms.Shift(-3).StringFixed(3)
}

// LogRollingInfo given a rolling window of publish intervals in milliseconds
func LogRollingInfo(windowSize int, window *rolling.PointPolicy) {
	if window.Reduce(rolling.Count) == 0 {
		log.Println("[info]    no publishes recorded")
		return
	}
	log.Printf("[info]    last %d publish interval average: %.1fms\n", windowSize, window.Reduce(rolling.Avg))
	log.Printf("[info]    last %d publish interval max: %.1fms\n", windowSize, window.Reduce(rolling.Max))
	log.Printf("[info]    last %d publish interval min: %.1fms\n", windowSize, window.Reduce(rolling.Min))
}

// LogState and the accumulated pause offset
func LogState(event string, s stopwatch.TimerState) {
	log.Printf("[state]   %s at %s, offset %v\n", event, s, s.PauseOffset)
}
