// Package cli implements the forcegraph command-line interface.
//
// The commands load a movie dataset, apply the year filter from the
// settings file and flags, and either render it headlessly or show it live
// in the terminal. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: Settle the layout and export SVG, JSON, DOT, PNG, JPG or PDF
//   - view: Show the simulation live in the terminal with drag and zoom
//   - legend: Export the legend on its own
//   - config: Show or create the settings file
//   - cache: Clear or prune cached layouts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger that writes to w at level, with timestamps
// formatted as "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a command. mark logs each finished stage at debug level
// with the time since the previous mark; done logs the outcome at info
// level with the total.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
	now    func() time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now, now: time.Now}
}

// mark logs that stage finished.
func (p *progress) mark(stage string) {
	t := p.now()
	p.logger.Debug("stage done", "stage", stage, "took", t.Sub(p.last).Round(time.Millisecond))
	p.last = t
}

// done logs msg with keyvals and the total elapsed time, e.g.
// "rendered path=movies.json nodes=42 cached=false took=1.234s".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", p.now().Sub(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() outside a command run.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
