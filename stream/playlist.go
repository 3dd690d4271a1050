package stream

import (
	"log"
	"math/rand"
	"time"

	"github.com/matt-g-everett/ledtween/tween"
)

// Status is a snapshot of a Playlist.
type Status struct {
	Scene   string `json:"scene"`
	Index   int    `json:"index"`
	Running bool   `json:"running"`
	Paused  bool   `json:"paused"`
	Clips   int    `json:"clips"`
}

// PlaylistOptions configures a Playlist.
type PlaylistOptions struct {
	// Shuffle picks the next scene at random instead of in order.
	Shuffle bool
	// OnChange runs whenever a new scene starts.
	OnChange func(Scene)
	Logger   *log.Logger
	Rand     *rand.Rand
}

// Playlist cycles the strip through scenes. A scene ends when its animator
// is done, or after HoldMs for looping scenes. Every method must be called
// on the frame loop goroutine.
type Playlist struct {
	anim     *tween.Animation
	strip    *Strip
	accessor StripAccessor
	scenes   []Scene
	opts     PlaylistOptions
	logger   *log.Logger
	rand     *rand.Rand

	index   int
	current *tween.Animator[*Strip]
	held    time.Duration
	running bool
	paused  bool

	// starting guards against scenes that finish synchronously.
	starting bool
	skipped  int

	unsubscribe func()
}

// NewPlaylist creates a stopped playlist.
func NewPlaylist(anim *tween.Animation, strip *Strip, scenes []Scene, opts PlaylistOptions) *Playlist {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	r := opts.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UTC().UnixNano()))
	}
	return &Playlist{
		anim:     anim,
		strip:    strip,
		accessor: StripAccessor{Logger: logger},
		scenes:   scenes,
		opts:     opts,
		logger:   logger,
		rand:     r,
		index:    -1,
	}
}

// Start plays the first scene.
func (p *Playlist) Start() {
	if p.running || len(p.scenes) == 0 {
		return
	}
	p.running = true
	p.paused = false
	p.unsubscribe = p.anim.OnFrame(p.onFrame)
	p.play(p.first())
}

// Next stops the current scene where it is and plays the next one.
func (p *Playlist) Next() {
	if !p.running {
		return
	}
	p.stopCurrent(false)
	p.play(p.following())
}

// Stop stops the current scene, leaving the strip at its final keyframes.
func (p *Playlist) Stop() {
	if !p.running {
		return
	}
	p.running = false
	p.paused = false
	p.stopCurrent(true)
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// Pause freezes the current scene. The strip keeps streaming.
func (p *Playlist) Pause() {
	if !p.running || p.paused {
		return
	}
	p.paused = true
	if p.current != nil {
		p.current.Pause()
	}
}

// Resume continues a paused scene.
func (p *Playlist) Resume() {
	if !p.paused {
		return
	}
	p.paused = false
	if p.current != nil {
		p.current.Resume()
	}
}

// Status reports the playlist state.
func (p *Playlist) Status() Status {
	st := Status{
		Index:   p.index,
		Running: p.running,
		Paused:  p.paused,
		Clips:   p.anim.Len(),
	}
	if p.index >= 0 && p.index < len(p.scenes) {
		st.Scene = p.scenes[p.index].Name
	}
	return st
}

func (p *Playlist) first() int {
	if p.opts.Shuffle {
		return p.rand.Intn(len(p.scenes))
	}
	return 0
}

func (p *Playlist) following() int {
	if p.opts.Shuffle && len(p.scenes) > 1 {
		// never repeat the scene just played
		return (p.index + 1 + p.rand.Intn(len(p.scenes)-1)) % len(p.scenes)
	}
	return (p.index + 1) % len(p.scenes)
}

func (p *Playlist) play(i int) {
	p.index = i
	p.held = 0
	if p.starting {
		// A scene finished inside Start; the loop below plays the next one
		// so that recursion stays bounded.
		p.skipped++
		return
	}
	p.starting = true
	defer func() { p.starting = false }()

	for attempts := 0; ; attempts++ {
		if attempts > len(p.scenes) {
			p.logger.Printf("stream: no scene has anything to animate")
			p.current = nil
			return
		}
		scene := p.scenes[p.index]
		a, err := scene.Animator(p.strip, p.accessor)
		if err != nil {
			p.logger.Printf("stream: scene %q: %v", scene.Name, err)
			return
		}
		p.current = a
		p.logger.Printf("stream: playing scene %q", scene.Name)
		if p.opts.OnChange != nil {
			p.opts.OnChange(scene)
		}

		p.skipped = 0
		a.Attach(p.anim).Done(func() { p.done(a) })
		if p.paused {
			a.Pause()
		}
		a.Start(scene.EasingFunc(), scene.Force)
		if p.skipped == 0 {
			return
		}
	}
}

func (p *Playlist) done(a *tween.Animator[*Strip]) {
	if !p.running || a != p.current {
		return
	}
	p.current = nil
	p.play(p.following())
}

func (p *Playlist) onFrame(delta time.Duration) {
	if !p.running || p.paused || p.current == nil {
		return
	}
	scene := p.scenes[p.index]
	if !scene.Loop || scene.HoldMs <= 0 {
		return
	}
	p.held += delta
	if p.held >= time.Duration(scene.HoldMs)*time.Millisecond {
		p.Next()
	}
}

func (p *Playlist) stopCurrent(forwardToLast bool) {
	if p.current == nil {
		return
	}
	a := p.current
	p.current = nil
	a.Stop(forwardToLast)
}
