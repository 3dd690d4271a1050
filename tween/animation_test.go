package tween

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"
)

func addTestClip(t *testing.T, a *Animation, opts ClipOptions) *Clip {
	t.Helper()
	c := newTestClip(t, opts)
	a.AddClip(c)
	return c
}

func TestAnimationEventOrder(t *testing.T) {
	var order []string
	var h *harness
	h = newHarness(
		WithStage(StageFunc(func() { order = append(order, "stage") })),
		WithOnFrame(func(time.Duration) { order = append(order, "onFrame") }),
	)
	h.anim.OnFrame(func(time.Duration) { order = append(order, "listener") })

	addTestClip(t, h.anim, ClipOptions{
		Life:    100 * ms,
		OnFrame: func(any, float64) { order = append(order, "step:a") },
		OnDestroy: func(any) {
			if h.anim.Len() != 1 {
				t.Errorf("destroy fired before removal: %d clips scheduled", h.anim.Len())
			}
			order = append(order, "destroy:a")
		},
	})
	addTestClip(t, h.anim, ClipOptions{
		Life:    1000 * ms,
		OnFrame: func(any, float64) { order = append(order, "step:b") },
	})

	h.advance(0)
	order = nil
	h.advance(100 * ms)

	want := "step:a step:b destroy:a onFrame listener stage"
	if got := strings.Join(order, " "); got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
}

func TestAnimationSwapRemove(t *testing.T) {
	a := NewAnimation()
	var clips []*Clip
	for range 3 {
		clips = append(clips, addTestClip(t, a, ClipOptions{Life: ms}))
	}

	a.RemoveClip(clips[0])
	if a.Len() != 2 {
		t.Fatalf("Len = %d, want 2", a.Len())
	}
	if clips[2].slot != 0 || a.clips[0] != clips[2] {
		t.Errorf("last clip not moved into the freed slot")
	}
	if clips[0].slot != -1 {
		t.Errorf("removed clip slot = %d, want -1", clips[0].slot)
	}

	// removing twice and adding twice are both no-ops
	a.RemoveClip(clips[0])
	a.AddClip(clips[1])
	if a.Len() != 2 {
		t.Errorf("Len after repeated ops = %d, want 2", a.Len())
	}

	a.AddClip(clips[0])
	if clips[0].slot != 2 {
		t.Errorf("re-added clip slot = %d, want 2", clips[0].slot)
	}
}

func TestAnimationRemoveDuringFrame(t *testing.T) {
	h := newHarness()
	stepped := 0
	var victim *Clip
	addTestClip(t, h.anim, ClipOptions{
		Life: time.Second,
		OnFrame: func(any, float64) {
			h.anim.RemoveClip(victim)
		},
	})
	victim = addTestClip(t, h.anim, ClipOptions{
		Life:    time.Second,
		OnFrame: func(any, float64) { stepped++ },
	})

	h.advance(0)
	if stepped != 0 {
		t.Errorf("clip removed earlier in the frame was stepped")
	}
	if h.anim.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.anim.Len())
	}
}

func TestAnimationAddDuringFrame(t *testing.T) {
	h := newHarness()
	stepped := 0
	late := newTestClip(t, ClipOptions{
		Life:    time.Second,
		OnFrame: func(any, float64) { stepped++ },
	})
	addTestClip(t, h.anim, ClipOptions{
		Life:    time.Second,
		OnFrame: func(any, float64) { h.anim.AddClip(late) },
	})

	h.advance(0)
	if stepped != 0 {
		t.Error("clip added mid-frame should wait for the next frame")
	}
	h.advance(10 * ms)
	if stepped != 1 {
		t.Errorf("late clip stepped %d times, want 1", stepped)
	}
}

func TestAnimationStartStop(t *testing.T) {
	frames := &ManualFrames{}
	updates := 0
	clock := NewManualClock(time.Unix(0, 0))
	a := NewAnimation(
		WithClock(clock),
		WithFrames(frames),
		WithStage(StageFunc(func() { updates++ })),
	)

	a.Start()
	a.Start()
	if !a.IsRunning() || frames.Pending() != 1 {
		t.Fatalf("running = %v, pending = %d", a.IsRunning(), frames.Pending())
	}
	frames.Tick()
	frames.Tick()
	if updates != 2 {
		t.Errorf("updates = %d, want 2", updates)
	}

	a.Stop()
	frames.Tick()
	if frames.Pending() != 0 {
		t.Errorf("stopped animation requested another frame")
	}

	// a stale callback from before a restart must not double the loop
	a.Start()
	a.Stop()
	a.Start()
	if frames.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", frames.Pending())
	}
	updates = 0
	frames.Tick()
	if updates != 1 || frames.Pending() != 1 {
		t.Errorf("updates = %d, pending = %d, want 1 and 1", updates, frames.Pending())
	}
}

func TestAnimationPauseResume(t *testing.T) {
	frames := &ManualFrames{}
	clock := NewManualClock(time.Unix(0, 0))
	a := NewAnimation(WithClock(clock), WithFrames(frames))
	spy := &frameSpy{}
	addTestClip(t, a, ClipOptions{Life: time.Second, OnFrame: spy.onFrame})

	a.Start()
	frames.Tick()
	clock.Advance(200 * ms)
	frames.Tick()

	a.Pause()
	if !a.IsPaused() {
		t.Fatal("IsPaused = false")
	}
	clock.Advance(5 * time.Second)
	frames.Tick()
	if len(spy.calls) != 2 {
		t.Errorf("clip stepped while paused: %v", spy.calls)
	}
	if frames.Pending() != 1 {
		t.Error("paused animation should keep requesting frames")
	}

	a.Resume()
	clock.Advance(100 * ms)
	frames.Tick()
	if got := spy.last(t); !approx(got, 0.3) {
		t.Errorf("percent after resume = %v, want 0.3", got)
	}
}

func TestAnimationDelta(t *testing.T) {
	var deltas []time.Duration
	h := newHarness(WithOnFrame(func(d time.Duration) { deltas = append(deltas, d) }))
	h.advance(16 * ms)
	h.advance(20 * ms)
	if len(deltas) != 2 || deltas[0] != 16*ms || deltas[1] != 20*ms {
		t.Errorf("deltas = %v", deltas)
	}
}

func TestAnimationOnFrameUnsubscribe(t *testing.T) {
	h := newHarness()
	var a, b int
	unsubA := h.anim.OnFrame(func(time.Duration) { a++ })
	h.anim.OnFrame(func(time.Duration) { b++ })

	h.advance(ms)
	unsubA()
	unsubA()
	h.advance(ms)
	if a != 1 || b != 2 {
		t.Errorf("a = %d, b = %d, want 1 and 2", a, b)
	}
}

func TestAnimationRecoversFramePanic(t *testing.T) {
	var buf bytes.Buffer
	frames := &ManualFrames{}
	a := NewAnimation(
		WithClock(NewManualClock(time.Unix(0, 0))),
		WithFrames(frames),
		WithLogger(log.New(&buf, "", 0)),
		WithStage(StageFunc(func() { panic("boom") })),
	)
	a.Start()
	frames.Tick()

	if !strings.Contains(buf.String(), "panic in frame: boom") {
		t.Errorf("log = %q", buf.String())
	}
	if frames.Pending() != 1 {
		t.Error("frame loop did not survive the panic")
	}
}

func TestAnimationClear(t *testing.T) {
	h := newHarness()
	c := addTestClip(t, h.anim, ClipOptions{Life: time.Second})
	addTestClip(t, h.anim, ClipOptions{Life: time.Second})
	h.anim.Clear()
	if h.anim.Len() != 0 || c.slot != -1 {
		t.Errorf("Len = %d, slot = %d after Clear", h.anim.Len(), c.slot)
	}
	h.anim.AddClip(c)
	if h.anim.Len() != 1 {
		t.Error("cleared clip could not be re-added")
	}
}
