package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"

	"github.com/c-nelson/stopwatch/pkg/stopwatch"
)

// DefaultWindowSize is used when Session.WindowSize is not set
const DefaultWindowSize = 10

// Session drives a stopwatch with line commands and renders every state it
// publishes
type Session struct {
	Controller *stopwatch.Controller // The stopwatch being driven, closed when Run returns
	In         io.Reader             // Commands, one per line: s(tart), p(ause), r(eset), q(uit)
	Out        io.Writer             // Where published states are rendered
	WindowSize int                   // The number of publish intervals kept for rolling stats
	Window     *rolling.PointPolicy  // Rolling window of the gaps between publishes, in milliseconds

	mtx  sync.Mutex          // Guards Out, Window and last
	last stopwatch.TimerState // The previous published state
}

// Run reads commands until input ends, a quit command is read or ctx is done.
// It always closes the controller before returning.
func (s *Session) Run(ctx context.Context) error {
	s.init()

	rendered := make(chan struct{})
	go s.render(rendered)
	defer func() {
		_ = s.Controller.Close()
		<-rendered
	}()

	done := make(chan struct{})
	defer close(done)
	lines, errc := s.scan(done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("reading commands: %w", err)
			}
			return nil
		case line := <-lines:
			if quit := s.handle(line); quit {
				return nil
			}
		}
	}
}

func (s *Session) init() {
	if s.WindowSize <= 0 {
		s.WindowSize = DefaultWindowSize
	}
	s.initRollingWindow()
}

func (s *Session) initRollingWindow() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.Window = rolling.NewPointPolicy(rolling.NewWindow(s.WindowSize))
}

// scan sends each input line on the returned channel. The error channel
// receives nil at end of input.
func (s *Session) scan(done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.In)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

func (s *Session) handle(line string) (quit bool) {
	switch strings.ToLower(line) {
	case "":
	case "s", "start":
		s.Controller.Start()
		LogState("started", s.Controller.Time())
	case "p", "pause":
		s.Controller.Pause()
		LogState("paused", s.Controller.Time())
		s.mtx.Lock()
		LogRollingInfo(s.WindowSize, s.Window)
		s.mtx.Unlock()
	case "r", "reset":
		s.Controller.Reset()
		LogState("reset", s.Controller.Time())
		s.initRollingWindow()
	case "q", "quit":
		return true
	default:
		log.Printf("[warn]    unknown command %q\n", line)
		s.print(fmt.Sprintf("\nunknown command %q, use s(tart), p(ause), r(eset) or q(uit)\n", line))
	}
	return false
}

// render prints states until the controller is closed
func (s *Session) render(rendered chan<- struct{}) {
	defer close(rendered)
	for st := range s.Controller.Updates() {
		s.record(st)
		s.print(fmt.Sprintf("\r%s (%ss)", st, FormatSeconds(st)))
	}
	s.print("\n")
}

// record appends the gap since the previous publish of the same running
// interval to the rolling window
func (s *Session) record(st stopwatch.TimerState) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	prev := s.last
	s.last = st
	if st.StartTime.IsZero() || !st.StartTime.Equal(prev.StartTime) {
		return
	}
	if gap := st.Elapsed() - prev.Elapsed(); gap > 0 {
		s.Window.Append(float64(gap) / float64(time.Millisecond))
	}
}

func (s *Session) print(text string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	_, _ = io.WriteString(s.Out, text)
}
