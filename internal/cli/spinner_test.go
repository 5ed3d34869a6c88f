package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDraws(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Rendering movies.json...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	if !strings.Contains(out.String(), "Rendering movies.json...") {
		t.Errorf("spinner output missing message: %q", out.String())
	}
	if !strings.HasSuffix(out.String(), "\r") {
		t.Error("Stop did not blank the line")
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}

func TestSpinnerProgress(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Rendering movies.json...")

	tests := []struct {
		name string
		do   func()
		want string
	}{
		{"initial", func() {}, "Rendering movies.json..."},
		{"settling", func() { s.SetProgress(42, 0.3141) }, "Rendering movies.json... frame 42 · α 0.314"},
		{"next stage", func() { s.SetMessage("Writing artifacts...") }, "Writing artifacts..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.do()
			if got := s.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerTo(ctx, &syncBuffer{}, "Rendering...")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after its context was cancelled")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Rendering...")
	s.Start()
	s.Stop()
	n := len(out.String())
	s.Stop()
	s.Stop()
	if len(out.String()) != n {
		t.Error("repeated Stop wrote again")
	}
}
