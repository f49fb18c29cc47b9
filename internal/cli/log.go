// Package cli implements the nepdate command-line interface.
//
// This package provides commands for converting dates between the AD and
// BS calendars through the remote conversion API, converting batches of
// dates, and checking or formatting dates locally. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - ad-to-bs, bs-to-ad: Convert a single date
//   - today: Convert the current date to BS
//   - batch: Convert many dates with a pause between requests
//   - validate: Check a date against the supported range without a request
//   - format: Render a date with a YYYY/MM/DD style layout
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces every request and retry. Loggers are passed through
// context.Context and held on the CLI struct.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger: timestamps as "15:04:05.00" on w,
// filtered at level. Client, retry and cache tracing use the same logger,
// so --verbose shows every request and backoff.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a multi-request operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs the formatted message at info level with an elapsed field,
// e.g. "Converted 12 of 12 dates elapsed=1.234s".
func (p *progress) done(format string, args ...any) {
	p.logger.Info(fmt.Sprintf(format, args...), "elapsed", time.Since(p.start).Round(time.Millisecond))
}

type ctxKey struct{}

// withLogger attaches l to ctx for commands that only receive a context.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger stored by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
