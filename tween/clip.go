package tween

import (
	"fmt"
	"time"

	"github.com/matt-g-everett/ledtween/easing"
)

// Event is a lifecycle transition reported by Clip.Step. Events are
// collected during a scheduler pass and fired after it.
type Event int

const (
	EventNone Event = iota
	EventRestart
	EventDestroy
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventRestart:
		return "restart"
	case EventDestroy:
		return "destroy"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// ClipOptions configures a Clip.
type ClipOptions struct {
	// Target is passed to every handler; the clip never inspects it.
	Target any
	// Life is the time progress takes to run from 0 to 1. Must be positive.
	Life time.Duration
	// Delay postpones progress after the first step. Must not be negative.
	Delay time.Duration
	// Loop restarts the clip each time progress reaches 1.
	Loop bool
	// Gap is the pause inserted between loop iterations.
	Gap time.Duration
	// Easing shapes progress before OnFrame sees it.
	Easing easing.Easing

	OnFrame   func(target any, percent float64)
	OnRestart func(target any)
	OnDestroy func(target any)
}

// Clip turns scheduler time into eased progress and drives one callback per
// frame.
type Clip struct {
	target any
	life   time.Duration
	delay  time.Duration
	gap    time.Duration
	loop   bool
	ease   easing.Func

	onFrame   func(target any, percent float64)
	onRestart func(target any)
	onDestroy func(target any)

	started     bool
	startTime   time.Duration
	pausedTime  time.Duration
	paused      bool
	needsRemove bool

	// slot is the clip's index in its scheduler, -1 when unscheduled.
	slot int
}

// NewClip validates opts and creates a pending clip.
func NewClip(opts ClipOptions) (*Clip, error) {
	if opts.Life <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLife, opts.Life)
	}
	if opts.Delay < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNegativeDelay, opts.Delay)
	}
	return &Clip{
		target:    opts.Target,
		life:      opts.Life,
		delay:     opts.Delay,
		gap:       opts.Gap,
		loop:      opts.Loop,
		ease:      opts.Easing.Func(),
		onFrame:   opts.OnFrame,
		onRestart: opts.OnRestart,
		onDestroy: opts.OnDestroy,
		slot:      -1,
	}, nil
}

// Target returns the clip's target.
func (c *Clip) Target() any {
	return c.target
}

// Life returns the clip's life.
func (c *Clip) Life() time.Duration {
	return c.life
}

// Step advances the clip to scheduler time now; delta is the time since the
// previous scheduler pass. The first call fixes the start time at
// now + delay.
func (c *Clip) Step(now, delta time.Duration) Event {
	if !c.started {
		c.startTime = now + c.delay
		c.started = true
	}
	if c.paused {
		c.pausedTime += delta
		return EventNone
	}

	percent := float64(now-c.startTime-c.pausedTime) / float64(c.life)
	if percent < 0 {
		return EventNone
	}
	percent = min(percent, 1)

	c.Frame(c.ease(percent))

	if percent == 1 {
		if c.loop {
			c.Restart(now)
			return EventRestart
		}
		c.needsRemove = true
		return EventDestroy
	}
	return EventNone
}

// Frame invokes the frame handler at percent without touching the clip's
// timing.
func (c *Clip) Frame(percent float64) {
	if c.onFrame != nil {
		c.onFrame(c.target, percent)
	}
}

// Restart begins the next loop iteration, carrying over the time by which
// the previous one overran and adding the gap.
func (c *Clip) Restart(now time.Duration) {
	remainder := (now - c.startTime - c.pausedTime) % c.life
	c.startTime = now - remainder + c.gap
	c.pausedTime = 0
	c.needsRemove = false
}

// Pause freezes progress; scheduler time passing while paused is not counted.
func (c *Clip) Pause() {
	c.paused = true
}

// Resume continues a paused clip.
func (c *Clip) Resume() {
	c.paused = false
}

// IsPaused reports whether the clip is paused.
func (c *Clip) IsPaused() bool {
	return c.paused
}

// NeedsRemove reports whether the clip has finished.
func (c *Clip) NeedsRemove() bool {
	return c.needsRemove
}

// Fire runs the handler for e.
func (c *Clip) Fire(e Event) {
	switch e {
	case EventRestart:
		if c.onRestart != nil {
			c.onRestart(c.target)
		}
	case EventDestroy:
		if c.onDestroy != nil {
			c.onDestroy(c.target)
		}
	}
}
