package tween

import (
	"log"
	"runtime/debug"
	"time"
)

// Stage is redrawn once per frame after every clip has stepped and every
// lifecycle event has fired.
type Stage interface {
	Update()
}

// StageFunc adapts a function to Stage.
type StageFunc func()

func (f StageFunc) Update() { f() }

// Option configures an Animation.
type Option func(*Animation)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(a *Animation) { a.clock = c }
}

// WithFrames sets the frame scheduler driving Start. Without it Start does
// nothing and Update must be called by the host.
func WithFrames(f FrameScheduler) Option {
	return func(a *Animation) { a.frames = f }
}

// WithStage sets the stage updated at the end of every frame.
func WithStage(s Stage) Option {
	return func(a *Animation) { a.stage = s }
}

// WithOnFrame sets a callback run every frame with the time since the
// previous frame, before frame listeners.
func WithOnFrame(fn func(delta time.Duration)) Option {
	return func(a *Animation) { a.onFrame = fn }
}

// WithLogger sets the logger used to report recovered frame panics.
func WithLogger(l *log.Logger) Option {
	return func(a *Animation) {
		if l != nil {
			a.logger = l
		}
	}
}

type firing struct {
	clip  *Clip
	event Event
}

type frameListener struct {
	id int
	fn func(delta time.Duration)
}

// Animation is the frame-loop scheduler. It owns the live clips in a dense
// slice, steps each once per frame and defers lifecycle events until every
// clip has stepped and finished clips are removed.
//
// Animation is not safe for concurrent use; drive it from one goroutine,
// such as the one running a FrameLoop.
type Animation struct {
	clock   Clock
	frames  FrameScheduler
	stage   Stage
	onFrame func(delta time.Duration)
	logger  *log.Logger

	clips   []*Clip
	scratch []*Clip
	firings []firing

	epoch       time.Time
	lastTime    time.Duration
	pausedTotal time.Duration
	pausedAt    time.Time
	paused      bool
	running     bool
	generation  int

	listeners      []frameListener
	nextListenerID int
}

// NewAnimation creates a stopped scheduler.
func NewAnimation(opts ...Option) *Animation {
	a := &Animation{
		clock:  SystemClock{},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.epoch = a.clock.Now()
	return a
}

// Animate creates an animator for target attached to a.
func Animate[T any](a *Animation, target T, opts AnimatorOptions[T]) *Animator[T] {
	return NewAnimator(target, opts).Attach(a)
}

// AddClip schedules c. Adding a clip that is already scheduled does nothing.
func (a *Animation) AddClip(c *Clip) {
	if c.slot >= 0 {
		return
	}
	c.slot = len(a.clips)
	a.clips = append(a.clips, c)
}

// RemoveClip unschedules c by moving the last clip into its slot.
func (a *Animation) RemoveClip(c *Clip) {
	i := c.slot
	if i < 0 || i >= len(a.clips) || a.clips[i] != c {
		return
	}
	last := len(a.clips) - 1
	if i != last {
		moved := a.clips[last]
		a.clips[i] = moved
		moved.slot = i
	}
	a.clips[last] = nil
	a.clips = a.clips[:last]
	c.slot = -1
}

// Len returns the number of scheduled clips.
func (a *Animation) Len() int {
	return len(a.clips)
}

func (a *Animation) now() time.Duration {
	t := a.clock.Now()
	if a.paused {
		t = a.pausedAt
	}
	return t.Sub(a.epoch) - a.pausedTotal
}

// Update runs one frame: every clip steps once, finished clips are removed,
// deferred lifecycle events fire, then the frame callback, frame listeners
// and finally the stage.
func (a *Animation) Update() {
	now := a.now()
	delta := now - a.lastTime
	a.lastTime = now

	a.scratch = append(a.scratch[:0], a.clips...)
	for i, c := range a.scratch {
		a.scratch[i] = nil
		if c.slot < 0 {
			// removed earlier in this frame
			continue
		}
		if e := c.Step(now, delta); e != EventNone {
			a.firings = append(a.firings, firing{clip: c, event: e})
		}
	}

	for i := len(a.clips) - 1; i >= 0; i-- {
		if i < len(a.clips) && a.clips[i].NeedsRemove() {
			a.RemoveClip(a.clips[i])
		}
	}

	firings := a.firings
	a.firings = nil
	for _, f := range firings {
		f.clip.Fire(f.event)
	}

	if a.onFrame != nil {
		a.onFrame(delta)
	}
	for _, l := range append([]frameListener(nil), a.listeners...) {
		l.fn(delta)
	}
	if a.stage != nil {
		a.stage.Update()
	}
}

// OnFrame subscribes fn to every frame. Returns an unsubscribe function.
func (a *Animation) OnFrame(fn func(delta time.Duration)) func() {
	id := a.nextListenerID
	a.nextListenerID++
	a.listeners = append(a.listeners, frameListener{id: id, fn: fn})
	return func() {
		for i, l := range a.listeners {
			if l.id == id {
				a.listeners = append(a.listeners[:i], a.listeners[i+1:]...)
				return
			}
		}
	}
}

// Start begins requesting frames from the frame scheduler.
func (a *Animation) Start() {
	if a.running {
		return
	}
	a.running = true
	a.generation++
	a.lastTime = a.now()
	a.request(a.generation)
}

func (a *Animation) request(gen int) {
	if a.frames == nil {
		return
	}
	a.frames.RequestFrame(func() { a.frame(gen) })
}

func (a *Animation) frame(gen int) {
	if !a.running || gen != a.generation {
		return
	}
	a.request(gen)
	if a.paused {
		return
	}
	defer a.recoverFrame()
	a.Update()
}

func (a *Animation) recoverFrame() {
	if r := recover(); r != nil {
		a.logger.Printf("tween: panic in frame: %v\n%s", r, debug.Stack())
	}
}

// Stop ends the frame loop. Scheduled clips are kept.
func (a *Animation) Stop() {
	a.running = false
}

// IsRunning reports whether the frame loop is active.
func (a *Animation) IsRunning() bool {
	return a.running
}

// Pause freezes scheduler time. Clip timings are unaffected by the paused
// interval once Resume is called.
func (a *Animation) Pause() {
	if a.paused {
		return
	}
	a.paused = true
	a.pausedAt = a.clock.Now()
}

// Resume continues scheduler time after Pause.
func (a *Animation) Resume() {
	if !a.paused {
		return
	}
	a.paused = false
	a.pausedTotal += a.clock.Now().Sub(a.pausedAt)
}

// IsPaused reports whether the scheduler is paused.
func (a *Animation) IsPaused() bool {
	return a.paused
}

// Clear unschedules every clip.
func (a *Animation) Clear() {
	for _, c := range a.clips {
		c.slot = -1
	}
	a.clips = nil
}
