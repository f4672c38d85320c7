package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/c-nelson/stopwatch/pkg/session"
	"github.com/c-nelson/stopwatch/pkg/stopwatch"
)

func main() {
	// values from a .env file act as defaults for the STOPWATCH_* variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[warn]    could not load .env: %v\n", err)
	}

	app := &cli.App{
		Name:  "stopwatch",
		Usage: "a terminal stopwatch, type s(tart), p(ause), r(eset) or q(uit) and press enter",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "throttle",
				Usage:   "minimum time between two redraws while running",
				Value:   stopwatch.DefaultThrottling,
				EnvVars: []string{"STOPWATCH_THROTTLE"},
			},
			&cli.DurationFlag{
				Name:    "resolution",
				Usage:   "how often the clock is sampled while running",
				Value:   stopwatch.DefaultResolution,
				EnvVars: []string{"STOPWATCH_RESOLUTION"},
			},
			&cli.DurationFlag{
				Name:    "offset",
				Usage:   "elapsed time to start from, and to return to on reset",
				EnvVars: []string{"STOPWATCH_OFFSET"},
			},
			&cli.IntFlag{
				Name:    "window",
				Usage:   "number of redraw intervals kept for the rolling stats logged on pause",
				Value:   session.DefaultWindowSize,
				EnvVars: []string{"STOPWATCH_WINDOW"},
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "file to append logs to",
				Value:   "stopwatch.log",
				EnvVars: []string{"STOPWATCH_LOG_FILE"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "log stopwatch lifecycle events",
				EnvVars: []string{"STOPWATCH_DEBUG"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("[error]   %v\n", err)
	}
}

func run(c *cli.Context) error {
	// set up a log file so logs do not clobber the rendered time
	logfile, err := os.OpenFile(c.String("log-file"), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("[error]   opening log file: %v\n", err)
	}
	defer logfile.Close()
	log.SetOutput(logfile)

	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logfile, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	offset := c.Duration("offset")
	initial := stopwatch.Decompose(offset)
	initial.PauseOffset = offset

	sw := stopwatch.New(ctx,
		stopwatch.WithInitialState(initial),
		stopwatch.WithThrottling(c.Duration("throttle")),
		stopwatch.WithResolution(c.Duration("resolution")),
		stopwatch.WithLogger(logger),
	)

	s := &session.Session{
		Controller: sw,
		In:         os.Stdin,
		Out:        os.Stdout,
		WindowSize: c.Int("window"),
	}

	log.Printf("[info]    session started, throttle %v, resolution %v\n", c.Duration("throttle"), c.Duration("resolution"))
	err = s.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Println("[info]    session ended")
	return err
}
