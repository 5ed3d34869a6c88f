package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("loaded dataset") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("stage done") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("stage done") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("dropping link") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

// fakeClock advances by step on every call.
func fakeClock(step time.Duration) func() time.Time {
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p.now = fakeClock(1234 * time.Millisecond)

	p.done("rendered", "path", "movies.json", "nodes", 42, "cached", false)

	out := buf.String()
	for _, want := range []string{"rendered", "path=movies.json", "nodes=42", "cached=false", "took=1.234s"} {
		if !strings.Contains(out, want) {
			t.Errorf("done() output missing %q: %q", want, out)
		}
	}
}

func TestProgressMark(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.DebugLevel))
	p.last = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p.now = fakeClock(250 * time.Millisecond)

	p.mark("execute")
	p.mark("write")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2:\n%s", len(lines), buf.String())
	}
	for i, stage := range []string{"execute", "write"} {
		if !strings.Contains(lines[i], "stage="+stage) || !strings.Contains(lines[i], "took=250ms") {
			t.Errorf("line %d = %q, want stage=%s took=250ms", i, lines[i], stage)
		}
	}

	buf.Reset()
	quiet := newProgress(newLogger(&buf, log.InfoLevel))
	quiet.mark("execute")
	if buf.Len() != 0 {
		t.Errorf("mark logged at info level: %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext() without a logger should return log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Fatal("loggerFromContext() did not return the attached logger")
	}
	loggerFromContext(ctx).Info("loaded dataset")
	if !strings.Contains(buf.String(), "loaded dataset") {
		t.Error("attached logger did not write")
	}
}
