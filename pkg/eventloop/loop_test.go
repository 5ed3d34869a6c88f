package eventloop

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestPostRunsInOrder(t *testing.T) {
	l := New()
	var got []int
	for i := range 3 {
		l.Post(func() { got = append(got, i) })
	}
	l.Post(nil)
	l.RunFrame()

	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("tasks ran as %v, want [0 1 2]", got)
	}
	if l.Pending() {
		t.Error("Pending() = true after tasks ran")
	}
}

func TestPostedDuringFrameRunsNextFrame(t *testing.T) {
	l := New()
	ran := 0
	l.Post(func() {
		l.Post(func() { ran++ })
	})
	l.RunFrame()
	if ran != 0 {
		t.Fatalf("nested task ran in the same frame")
	}
	l.RunFrame()
	if ran != 1 {
		t.Errorf("nested task ran %d times, want 1", ran)
	}
}

func TestStartStop(t *testing.T) {
	l := New()
	calls := 0
	stop := l.Start(func() { calls++ })

	l.RunFrame()
	l.RunFrame()
	stop()
	stop()
	l.RunFrame()

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if l.Pending() {
		t.Error("Pending() = true after stop")
	}
}

func TestStopWithinFrameSkipsLaterCallback(t *testing.T) {
	l := New()
	var stopB func()
	bCalls := 0

	l.Start(func() { stopB() })
	stopB = l.Start(func() { bCalls++ })

	l.RunFrame()
	if bCalls != 0 {
		t.Errorf("stopped callback ran %d times, want 0", bCalls)
	}
}

func TestStartDuringFrameRunsNextFrame(t *testing.T) {
	l := New()
	inner := 0
	var stopOuter func()
	stopOuter = l.Start(func() {
		stopOuter()
		l.Start(func() { inner++ })
	})

	l.RunFrame()
	if inner != 0 {
		t.Fatalf("callback registered mid-frame ran in the same frame")
	}
	l.RunFrame()
	if inner != 1 {
		t.Errorf("inner = %d, want 1", inner)
	}
}

func TestDrain(t *testing.T) {
	l := New()
	remaining := 5
	var stop func()
	stop = l.Start(func() {
		remaining--
		if remaining == 0 {
			stop()
		}
	})

	if n := l.Drain(0); n != 5 {
		t.Errorf("Drain(0) = %d, want 5", n)
	}
	if l.Frames() != 5 {
		t.Errorf("Frames() = %d, want 5", l.Frames())
	}
}

func TestDrainBounded(t *testing.T) {
	l := New()
	l.Start(func() {})
	if n := l.Drain(10); n != 10 {
		t.Errorf("Drain(10) = %d, want 10", n)
	}
	if !l.Pending() {
		t.Error("callback should still be registered")
	}
}

func TestPostConcurrent(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	count := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Post(func() { count++ })
		}()
	}
	wg.Wait()
	l.RunFrame()
	if count != 50 {
		t.Errorf("count = %d, want 50", count)
	}
}

func TestRun(t *testing.T) {
	l := New(WithInterval(time.Millisecond))
	done := make(chan struct{})
	l.Post(func() { close(done) })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("posted task never ran")
	}
	cancel()
	if err := <-errc; err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}
