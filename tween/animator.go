package tween

import (
	"sort"
	"time"

	"github.com/matt-g-everett/ledtween/easing"
)

// Scheduler accepts clips for per-frame stepping. *Animation implements it.
type Scheduler interface {
	AddClip(c *Clip)
	RemoveClip(c *Clip)
}

// AnimatorOptions configures an Animator.
type AnimatorOptions[T any] struct {
	// Loop restarts every clip when it completes.
	Loop bool
	// Accessor reads and writes target properties. Nil selects
	// DefaultAccessor.
	Accessor Accessor[T]
}

// Animator builds keyframe tracks for one target and plays them as clips.
//
//	tween.Animate(anim, strip, tween.AnimatorOptions[*Strip]{}).
//		When(time.Second, map[string]any{"position": 120.0}).
//		Done(func() { log.Println("arrived") }).
//		Start(easing.Named(easing.CubicOut), false)
type Animator[T any] struct {
	target   T
	accessor Accessor[T]
	loop     bool
	delay    time.Duration

	tracks []*Track
	byName map[string]*Track

	clips     []*Clip
	pending   []*Clip
	scheduler Scheduler
	paused    bool

	// started is set from Start until the run finishes or is stopped.
	started bool
	// run counts Start calls so callbacks of a stopped run are ignored.
	run int

	during []func(target T, percent float64)
	done   []func()
}

// NewAnimator creates an animator for target. It is not attached to a
// scheduler; clips started before Attach are registered on Attach.
func NewAnimator[T any](target T, opts AnimatorOptions[T]) *Animator[T] {
	accessor := opts.Accessor
	if accessor == nil {
		accessor = DefaultAccessor[T]()
	}
	return &Animator[T]{
		target:   target,
		accessor: accessor,
		loop:     opts.Loop,
		byName:   make(map[string]*Track),
	}
}

// Target returns the animated target.
func (a *Animator[T]) Target() T {
	return a.target
}

// When adds a keyframe at time at for every property in props.
//
// The first time a property is seen at a non-zero time, its current value
// is read through the accessor, cloned, and added as a keyframe at 0 so the
// animation starts from where the target is. A property whose first
// keyframe is at 0 gets no baseline.
func (a *Animator[T]) When(at time.Duration, props map[string]any) *Animator[T] {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tr, ok := a.byName[name]
		if !ok {
			tr = NewTrack(name)
			a.byName[name] = tr
			a.tracks = append(a.tracks, tr)
			if at != 0 {
				if current := a.accessor.Get(a.target, name); !isNil(current) {
					tr.AddKeyframe(0, cloneValue(current))
				}
			}
		}
		tr.AddKeyframe(at, props[name])
	}
	return a
}

// During registers fn to run after each track writes its value, every frame.
func (a *Animator[T]) During(fn func(target T, percent float64)) *Animator[T] {
	a.during = append(a.during, fn)
	return a
}

// Delay postpones the start of clips created by the next Start. Negative
// delays count as zero.
func (a *Animator[T]) Delay(d time.Duration) *Animator[T] {
	a.delay = max(d, 0)
	return a
}

// Done registers fn to run once every clip has finished.
func (a *Animator[T]) Done(fn func()) *Animator[T] {
	a.done = append(a.done, fn)
	return a
}

// Start creates one clip per track that has something to animate.
//
// Tracks whose keyframes are all equal are skipped unless forceAnimate is
// set; skipped and zero-length tracks have their final value written
// immediately. The spline easing name switches tracks to Catmull-Rom
// interpolation. When no clip is needed the done callbacks run before Start
// returns. Start does nothing while a previous run is still playing.
func (a *Animator[T]) Start(e easing.Easing, forceAnimate bool) *Animator[T] {
	if a.started {
		return a
	}
	a.started = true
	a.run++
	run := a.run
	spline := e.IsSpline()

	var animating []*Track
	for _, tr := range a.tracks {
		if !tr.Prepare(tr.MaxTime()) {
			continue
		}
		if tr.MaxTime() <= 0 || (!forceAnimate && tr.IsNoop()) {
			if v, ok := tr.Final(); ok {
				a.accessor.Set(a.target, tr.Property(), v)
			}
			continue
		}
		tr.SetSpline(spline)
		animating = append(animating, tr)
	}

	var started []*Clip
	remaining := 0
	for _, tr := range animating {
		clip, err := NewClip(ClipOptions{
			Target: a.target,
			Life:   tr.MaxTime(),
			Delay:  a.delay,
			Loop:   a.loop,
			Easing: e,
			OnFrame: func(_ any, percent float64) {
				a.apply(tr, percent)
			},
			OnDestroy: func(any) {
				if run != a.run || !a.started {
					return
				}
				remaining--
				if remaining == 0 {
					a.finish()
				}
			},
		})
		if err != nil {
			if v, ok := tr.Final(); ok {
				a.accessor.Set(a.target, tr.Property(), v)
			}
			continue
		}
		if a.paused {
			clip.Pause()
		}
		started = append(started, clip)
	}
	remaining = len(started)

	if len(started) == 0 {
		a.finish()
		return a
	}
	a.clips = append(a.clips, started...)
	a.pending = append(a.pending, started...)
	a.register()
	return a
}

func (a *Animator[T]) apply(tr *Track, percent float64) {
	if v, ok := tr.Step(percent); ok {
		a.accessor.Set(a.target, tr.Property(), v)
	}
	for _, fn := range a.during {
		fn(a.target, percent)
	}
}

func (a *Animator[T]) finish() {
	a.reset()
	for _, fn := range a.done {
		fn()
	}
}

// reset drops the tracks and clips of the current run so the animator can
// be built again with When.
func (a *Animator[T]) reset() {
	for _, tr := range a.tracks {
		tr.Clear()
	}
	a.tracks = nil
	a.byName = make(map[string]*Track)
	a.clips = nil
	a.pending = nil
	a.started = false
}

// Attach binds the animator to s and registers any clips started before.
func (a *Animator[T]) Attach(s Scheduler) *Animator[T] {
	a.scheduler = s
	a.register()
	return a
}

func (a *Animator[T]) register() {
	if a.scheduler == nil {
		return
	}
	pending := a.pending
	a.pending = nil
	for _, c := range pending {
		a.scheduler.AddClip(c)
	}
}

// Clips returns the clips created by Start that are still live.
func (a *Animator[T]) Clips() []*Clip {
	return append([]*Clip(nil), a.clips...)
}

// Pause pauses every clip, including clips started later.
func (a *Animator[T]) Pause() {
	a.paused = true
	for _, c := range a.clips {
		c.Pause()
	}
}

// Resume resumes every clip.
func (a *Animator[T]) Resume() {
	a.paused = false
	for _, c := range a.clips {
		c.Resume()
	}
}

// IsPaused reports whether the animator is paused.
func (a *Animator[T]) IsPaused() bool {
	return a.paused
}

// Stop removes every clip from the scheduler. With forwardToLast each clip
// first runs a final frame at percent 1 so the target holds its last
// keyframe values. Done callbacks do not run, and the keyframes are
// discarded.
func (a *Animator[T]) Stop(forwardToLast bool) {
	clips := a.clips
	a.clips = nil
	a.pending = nil
	for _, c := range clips {
		if forwardToLast {
			c.Frame(1)
		}
		if a.scheduler != nil {
			a.scheduler.RemoveClip(c)
		}
	}
	a.reset()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	if g, ok := v.(*Gradient); ok {
		return g == nil
	}
	return false
}
