// Package compositor drives the transition between the image on screen and
// the next one. It owns two texture slots, the transition clock, one queued
// navigation request and the autoplay timer.
package compositor

import (
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow/internal/cache"
	"github.com/matjam/sldshow/internal/gpu"
	"github.com/matjam/sldshow/internal/transition"
	"github.com/matjam/sldshow/internal/types"
)

// Source is the part of the image cache the compositor needs.
type Source interface {
	Recenter(index int)
	TryGet(index int) *gpu.Texture
	Status(index int) (cache.State, error)
	PollCompleted() ([]cache.Result, error)
}

type State int

const (
	Idle State = iota
	Transitioning
)

func (s State) String() string {
	if s == Transitioning {
		return "transitioning"
	}
	return "idle"
}

type Config struct {
	Duration    time.Duration
	Mode        transition.Mode
	Random      bool
	Easing      types.EasingMode
	Timer       time.Duration // 0 starts paused
	PauseAtLast bool
	Stretch     bool // ignore aspect ratio when mapping textures to the window
	Background  color.NRGBA
	Seed        uint64 // 0 seeds from the clock
}

// Frame is everything the renderer needs for one draw.
type Frame struct {
	Slots    [2]*gpu.Texture
	Uniforms gpu.Uniforms
}

type Compositor struct {
	cfg    Config
	source Source
	rng    *rand.Rand

	length      int
	placeholder *gpu.Texture

	slots   [2]*gpu.Texture
	flip    bool // false: slot A is current
	state   State
	current int // -1 until the first image is shown
	target  int
	mode    transition.Mode
	elapsed time.Duration

	queued   *Request
	deferred int // -1 when nothing is waiting on the cache

	timer     time.Duration
	remaining time.Duration
	paused    bool
}

// New returns an idle compositor showing placeholder. It takes over one
// reference to placeholder.
func New(cfg Config, source Source, length int, placeholder *gpu.Texture) *Compositor {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if !cfg.Mode.Valid() {
		cfg.Mode = transition.Crossfade
	}

	c := &Compositor{
		cfg:         cfg,
		source:      source,
		rng:         rand.New(rand.NewPCG(seed, seed>>32|1)),
		length:      length,
		placeholder: placeholder,
		current:     -1,
		target:      -1,
		deferred:    -1,
		mode:        cfg.Mode,
		timer:       cfg.Timer,
		remaining:   cfg.Timer,
		paused:      cfg.Timer <= 0,
	}
	c.slots[0] = placeholder.Retain()
	return c
}

func (c *Compositor) State() State             { return c.state }
func (c *Compositor) Current() int             { return c.current }
func (c *Compositor) Target() int              { return c.target }
func (c *Compositor) Mode() transition.Mode    { return c.mode }
func (c *Compositor) Paused() bool             { return c.paused }
func (c *Compositor) Timer() time.Duration     { return c.timer }
func (c *Compositor) Remaining() time.Duration { return c.remaining }
func (c *Compositor) Flip() bool               { return c.flip }
func (c *Compositor) Length() int              { return c.length }

func (c *Compositor) currentSlot() int {
	if c.flip {
		return 1
	}
	return 0
}

// Navigate handles a user request and restarts the autoplay countdown.
func (c *Compositor) Navigate(req Request) {
	c.remaining = c.timer
	c.dispatch(req)
}

func (c *Compositor) dispatch(req Request) {
	if c.state == Transitioning {
		if c.queued != nil {
			log.Debugf("Dropping queued %v in favour of %v", c.queued, req)
		}
		c.queued = &req
		return
	}

	target := req.resolve(c.current, c.length, c.rng)
	if target < 0 {
		return
	}
	c.deferred = -1
	if target == c.current {
		// an abandoned miss may have moved the window away
		c.source.Recenter(c.current)
		return
	}
	c.tryStart(target)
}

// tryStart begins a transition to target when its texture is available and
// defers it otherwise.
func (c *Compositor) tryStart(target int) {
	if tex := c.source.TryGet(target); tex != nil {
		c.start(target, tex)
		return
	}

	state, err := c.source.Status(target)
	switch state {
	case cache.Failed:
		log.Debugf("Image %d failed (%v), showing placeholder", target, err)
		c.start(target, c.placeholder)
	case cache.Absent:
		c.source.Recenter(target)
		c.deferred = target
	default:
		c.deferred = target
	}
}

func (c *Compositor) start(target int, tex *gpu.Texture) {
	pending := 1 - c.currentSlot()
	c.slots[pending].Release()
	c.slots[pending] = tex.Retain()

	c.mode = c.cfg.Mode
	if c.cfg.Random {
		c.mode = transition.Random(c.rng)
	}
	c.target = target
	c.elapsed = 0
	c.deferred = -1
	c.state = Transitioning
	log.Debugf("Transition to %d using %s", target, c.mode)
}

// Update runs one frame of bookkeeping: collect finished decodes, retry a
// deferred request, advance the transition and the autoplay timer.
func (c *Compositor) Update(dt time.Duration) error {
	if _, err := c.source.PollCompleted(); err != nil {
		return err
	}

	if c.state == Idle && c.deferred >= 0 {
		if state, _ := c.source.Status(c.deferred); state == cache.GPUReady || state == cache.Failed || state == cache.Absent {
			c.tryStart(c.deferred)
		}
	}

	c.Tick(dt)
	c.advanceAutoplay(dt)
	return nil
}

// Tick advances the transition clock and commits once it reaches the
// configured duration.
func (c *Compositor) Tick(dt time.Duration) {
	if c.state != Transitioning {
		return
	}
	c.elapsed += dt
	if c.elapsed >= c.cfg.Duration {
		c.elapsed = c.cfg.Duration
		c.commit()
	}
}

func (c *Compositor) commit() {
	old := c.currentSlot()
	c.flip = !c.flip
	c.slots[old].Release()
	c.slots[old] = nil

	c.current = c.target
	c.state = Idle
	c.elapsed = 0

	if c.current >= 0 && c.current < c.length {
		c.source.Recenter(c.current)
	}

	if c.queued != nil {
		req := *c.queued
		c.queued = nil
		c.dispatch(req)
	}
}

func (c *Compositor) advanceAutoplay(dt time.Duration) {
	if c.paused || c.timer <= 0 || c.length == 0 || c.current < 0 {
		return
	}
	c.remaining -= dt
	if c.remaining > 0 {
		return
	}
	c.remaining = c.timer

	if c.cfg.PauseAtLast && c.current == c.length-1 {
		log.Info("Reached the last image, pausing")
		c.paused = true
		return
	}
	c.dispatch(Request{Kind: Next})
}

// Progress returns the linear transition progress in [0,1], 0 when idle.
func (c *Compositor) Progress() float32 {
	if c.state != Transitioning || c.cfg.Duration <= 0 {
		return 0
	}
	return float32(c.elapsed.Seconds() / c.cfg.Duration.Seconds())
}

// Frame returns the textures and uniforms for a window of the given size.
func (c *Compositor) Frame(winW, winH int) Frame {
	cur := c.currentSlot()
	current := c.slots[cur]
	pending := c.slots[1-cur]
	if pending == nil {
		pending = current
	}

	var f Frame
	f.Slots[cur] = current
	f.Slots[1-cur] = pending

	scaled := current
	if scaled.Stretch && c.state == Transitioning {
		scaled = pending
	}
	f.Uniforms = gpu.Uniforms{
		Blend:        c.cfg.Easing.Apply(c.Progress()),
		Mode:         int32(c.mode),
		WindowScaleX: 1,
		WindowScaleY: 1,
		BG:           gpu.Color(c.cfg.Background),
	}
	if c.flip {
		f.Uniforms.Flip = 1
	}
	if !c.cfg.Stretch {
		f.Uniforms.WindowScaleX, f.Uniforms.WindowScaleY = gpu.WindowScale(winW, winH, scaled)
	}
	return f
}

func (c *Compositor) Pause() {
	c.paused = true
}

func (c *Compositor) Resume() {
	if c.timer <= 0 {
		log.Warn("Autoplay timer is 0, staying paused")
		return
	}
	c.paused = false
	c.remaining = c.timer
}

func (c *Compositor) TogglePause() {
	if c.paused {
		c.Resume()
	} else {
		c.Pause()
	}
}

func (c *Compositor) PauseAtLast() bool {
	return c.cfg.PauseAtLast
}

// TogglePauseAtLast flips whether autoplay stops on the last image.
func (c *Compositor) TogglePauseAtLast() {
	c.cfg.PauseAtLast = !c.cfg.PauseAtLast
}

// SetTimer changes the autoplay interval and restarts the countdown. A
// non-positive value pauses autoplay.
func (c *Compositor) SetTimer(d time.Duration) {
	c.timer = max(d, 0)
	c.remaining = c.timer
	if c.timer == 0 {
		c.paused = true
	}
}

// AdjustTimer shifts the autoplay interval by delta.
func (c *Compositor) AdjustTimer(delta time.Duration) {
	wasZero := c.timer == 0
	c.SetTimer(c.timer + delta)
	if wasZero && c.timer > 0 {
		c.paused = false
	}
}

// SetMode fixes the transition mode and turns random selection off. It takes
// effect with the next transition.
func (c *Compositor) SetMode(m transition.Mode) {
	c.cfg.Mode = m
	c.cfg.Random = false
}

func (c *Compositor) SetRandom(random bool) {
	c.cfg.Random = random
}

func (c *Compositor) RandomMode() bool {
	return c.cfg.Random
}

// Restart is called after the playlist was replaced. The image on screen
// stays until start, the new current index, is available. With an empty
// playlist the placeholder is shown.
func (c *Compositor) Restart(length, start int) {
	if c.state == Transitioning {
		pending := 1 - c.currentSlot()
		c.slots[pending].Release()
		c.slots[pending] = nil
		c.state = Idle
		c.elapsed = 0
	}
	c.queued = nil
	c.deferred = -1
	c.length = length
	c.current = -1
	c.target = -1
	c.remaining = c.timer

	if length == 0 {
		c.start(-1, c.placeholder)
		return
	}
	c.dispatch(Request{Kind: Jump, Index: start})
}

// Close releases the slot textures and the placeholder.
func (c *Compositor) Close() {
	for i := range c.slots {
		c.slots[i].Release()
		c.slots[i] = nil
	}
	c.placeholder.Release()
	c.placeholder = nil
}
