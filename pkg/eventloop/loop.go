// Package eventloop runs callbacks cooperatively on a single goroutine.
//
// Everything that mutates a visualization (simulation steps, pointer events,
// resize notifications, render calls) is funneled through one [Loop] so no
// two callbacks ever run at the same time. Other goroutines hand work over
// with [Loop.Post]; recurring per-frame work is registered with
// [Loop.Start].
//
// The loop does not own a goroutine. A host drives it by calling
// [Loop.RunFrame] itself (a terminal UI on its tick message), by calling
// [Loop.Run] with a context, or by calling [Loop.Drain] to run frames back
// to back until nothing is scheduled (batch rendering and tests).
package eventloop

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the frame period used by Run.
const DefaultInterval = 16 * time.Millisecond

// Scheduler is the part of a Loop that components schedule work on.
type Scheduler interface {
	// Start registers fn to run once per frame until the returned stop
	// function is called. Calling stop more than once is harmless.
	Start(fn func()) (stop func())
	// Post queues fn to run at the beginning of the next frame. Safe for
	// concurrent use.
	Post(fn func())
}

type frameCallback struct {
	id uint64
	fn func()
}

// Loop is a cooperative single-threaded scheduler.
type Loop struct {
	interval time.Duration

	mu     sync.Mutex
	tasks  []func()
	frames []frameCallback
	nextID uint64
	frame  uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithInterval sets the frame period used by Run.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// New creates an idle loop.
func New(opts ...Option) *Loop {
	l := &Loop{interval: DefaultInterval}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post implements Scheduler.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
}

// Start implements Scheduler.
func (l *Loop) Start(fn func()) func() {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.frames = append(l.frames, frameCallback{id: id, fn: fn})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *Loop) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, f := range l.frames {
		if f.id == id {
			l.frames = append(l.frames[:i:i], l.frames[i+1:]...)
			return
		}
	}
}

func (l *Loop) registered(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, f := range l.frames {
		if f.id == id {
			return true
		}
	}
	return false
}

// RunFrame runs every queued task, then every frame callback that was
// registered when the frame began. A callback stopped earlier in the same
// frame is skipped. RunFrame must not be called from inside a callback.
func (l *Loop) RunFrame() {
	l.mu.Lock()
	tasks := l.tasks
	l.tasks = nil
	l.frame++
	l.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}

	l.mu.Lock()
	frames := append([]frameCallback(nil), l.frames...)
	l.mu.Unlock()

	for _, f := range frames {
		if !l.registered(f.id) {
			continue
		}
		f.fn()
	}
}

// Pending reports whether any task or frame callback is scheduled.
func (l *Loop) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks) > 0 || len(l.frames) > 0
}

// Frames returns the number of frames run so far.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame
}

// Drain runs frames until nothing is scheduled or maxFrames frames have run,
// and returns the number of frames it ran. A maxFrames of zero or less means
// no bound.
func (l *Loop) Drain(maxFrames int) int {
	n := 0
	for l.Pending() {
		if maxFrames > 0 && n >= maxFrames {
			break
		}
		l.RunFrame()
		n++
	}
	return n
}

// Run drives the loop at its frame interval until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.RunFrame()
		}
	}
}
