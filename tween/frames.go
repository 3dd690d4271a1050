package tween

import (
	"context"
	"sync"
	"time"
)

// DefaultFrameInterval is used by FrameLoop when no interval is given.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameScheduler runs fn once at the next frame boundary.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// FrameLoop is a fixed-interval FrameScheduler. Frame callbacks and posted
// work both run on the goroutine calling Run, so code driven by the loop
// needs no locking.
type FrameLoop struct {
	interval time.Duration

	mu     sync.Mutex
	frames []func()
	posted []func()
	wake   chan struct{}
}

// NewFrameLoop creates a loop ticking every interval, or every
// DefaultFrameInterval when interval is not positive.
func NewFrameLoop(interval time.Duration) *FrameLoop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameLoop{
		interval: interval,
		wake:     make(chan struct{}, 1),
	}
}

// Interval returns the tick interval.
func (l *FrameLoop) Interval() time.Duration {
	return l.interval
}

// RequestFrame queues fn for the next tick.
func (l *FrameLoop) RequestFrame(fn func()) {
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	l.mu.Unlock()
}

// Post queues fn to run on the loop goroutine as soon as possible. It is
// safe to call from any goroutine.
func (l *FrameLoop) Post(fn func()) {
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run drives the loop until ctx is done.
func (l *FrameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.runPosted()
		case <-ticker.C:
			l.runPosted()
			l.runFrames()
		}
	}
}

func (l *FrameLoop) runPosted() {
	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()
	for _, fn := range posted {
		fn()
	}
}

func (l *FrameLoop) runFrames() {
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.mu.Unlock()
	for _, fn := range frames {
		fn()
	}
}

// ManualFrames is a FrameScheduler for tests: frames only run on Tick.
type ManualFrames struct {
	pending []func()
}

// RequestFrame queues fn for the next Tick.
func (m *ManualFrames) RequestFrame(fn func()) {
	m.pending = append(m.pending, fn)
}

// Pending returns the number of queued frame callbacks.
func (m *ManualFrames) Pending() int {
	return len(m.pending)
}

// Tick runs the callbacks queued before the call and returns how many ran.
func (m *ManualFrames) Tick() int {
	pending := m.pending
	m.pending = nil
	for _, fn := range pending {
		fn()
	}
	return len(pending)
}
