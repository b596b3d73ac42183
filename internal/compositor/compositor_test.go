package compositor

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matjam/sldshow/internal/cache"
	"github.com/matjam/sldshow/internal/gpu"
	"github.com/matjam/sldshow/internal/transition"
	"github.com/matjam/sldshow/internal/types"
)

type fakeSource struct {
	textures   map[int]*gpu.Texture
	states     map[int]cache.State
	recentered []int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		textures: make(map[int]*gpu.Texture),
		states:   make(map[int]cache.State),
	}
}

func (s *fakeSource) ready(indices ...int) {
	for _, i := range indices {
		s.textures[i] = gpu.NewTexture(uint32(100+i), 16, 9, nil)
		s.states[i] = cache.GPUReady
	}
}

func (s *fakeSource) Recenter(index int) {
	s.recentered = append(s.recentered, index)
	if s.states[index] == cache.Absent {
		s.states[index] = cache.Decoding
	}
}

func (s *fakeSource) TryGet(index int) *gpu.Texture {
	if s.states[index] == cache.GPUReady {
		return s.textures[index]
	}
	return nil
}

func (s *fakeSource) Status(index int) (cache.State, error) {
	if s.states[index] == cache.Failed {
		return cache.Failed, errors.New("corrupt")
	}
	return s.states[index], nil
}

func (s *fakeSource) PollCompleted() ([]cache.Result, error) { return nil, nil }

func placeholder() *gpu.Texture {
	tex := gpu.NewTexture(1, 1, 1, nil)
	tex.Stretch = true
	return tex
}

func defaultConfig() Config {
	return Config{
		Duration: 500 * time.Millisecond,
		Mode:     transition.Crossfade,
		Easing:   types.EasingLinear,
		Seed:     1,
	}
}

// showing returns the texture ID the compositor displays when idle.
func showing(c *Compositor) uint32 {
	return c.Frame(16, 9).Slots[c.currentSlot()].ID
}

func startAt(t *testing.T, src *fakeSource, cfg Config, length, index int) *Compositor {
	t.Helper()
	src.ready(index)
	c := New(cfg, src, length, placeholder())
	c.Navigate(Request{Kind: Jump, Index: index})
	c.Tick(time.Hour)
	if c.Current() != index {
		t.Fatalf("Current = %d, want %d", c.Current(), index)
	}
	return c
}

func TestTransitionClampsAndCommits(t *testing.T) {
	src := newFakeSource()
	c := startAt(t, src, defaultConfig(), 10, 0)
	src.ready(1)

	c.Navigate(Request{Kind: Next})
	if c.State() != Transitioning {
		t.Fatalf("State = %v, want transitioning", c.State())
	}

	c.Tick(200 * time.Millisecond)
	if got := c.Progress(); got < 0.39 || got > 0.41 {
		t.Errorf("Progress = %v, want 0.4", got)
	}
	if got := c.Frame(16, 9).Uniforms.Blend; got < 0.39 || got > 0.41 {
		t.Errorf("Blend = %v, want 0.4", got)
	}

	c.Tick(10 * time.Second)
	if c.State() != Idle || c.Current() != 1 {
		t.Errorf("after commit State = %v, Current = %d; want idle at 1", c.State(), c.Current())
	}
	if got := c.Frame(16, 9).Uniforms.Blend; got != 0 {
		t.Errorf("idle Blend = %v, want 0", got)
	}
	if !slices.Contains(src.recentered, 1) {
		t.Errorf("cache not recentered on 1: %v", src.recentered)
	}
}

func TestFlipCycle(t *testing.T) {
	src := newFakeSource()
	c := startAt(t, src, defaultConfig(), 10, 0)
	src.ready(1, 2)

	start := c.Flip()
	c.Navigate(Request{Kind: Next})
	c.Tick(time.Second)
	if c.Flip() == start {
		t.Fatal("flip did not toggle after one transition")
	}
	c.Navigate(Request{Kind: Next})
	c.Tick(time.Second)
	if c.Flip() != start {
		t.Error("flip did not return after two transitions")
	}
	if got := showing(c); got != 102 {
		t.Errorf("showing texture %d, want 102", got)
	}
}

func TestFlipSelectsFromAndTo(t *testing.T) {
	src := newFakeSource()
	c := startAt(t, src, defaultConfig(), 10, 0)
	src.ready(1)

	c.Navigate(Request{Kind: Next})
	f := c.Frame(16, 9)
	from, to := f.Slots[0], f.Slots[1]
	if f.Uniforms.Flip == 1 {
		from, to = to, from
	}
	if from.ID != 100 || to.ID != 101 {
		t.Errorf("from/to = %d/%d, want 100/101", from.ID, to.ID)
	}
}

func TestOldTextureReleasedOnCommit(t *testing.T) {
	src := newFakeSource()
	c := startAt(t, src, defaultConfig(), 10, 0)
	src.ready(1)
	first := src.textures[0]
	if got := first.Refs(); got != 2 {
		t.Fatalf("Refs = %d, want 2 (cache and slot)", got)
	}

	c.Navigate(Request{Kind: Next})
	c.Tick(time.Second)
	if got := first.Refs(); got != 1 {
		t.Errorf("Refs after commit = %d, want 1", got)
	}
}

func TestQueuedRequestLatestWins(t *testing.T) {
	src := newFakeSource()
	c := startAt(t, src, defaultConfig(), 10, 0)
	src.ready(1, 2, 5)

	c.Navigate(Request{Kind: Next})
	c.Navigate(Request{Kind: Next})
	c.Navigate(Request{Kind: Jump, Index: 5})

	c.Tick(time.Second)
	if c.Current() != 1 {
		t.Fatalf("Current = %d, want 1", c.Current())
	}
	if c.State() != Transitioning || c.Target() != 5 {
		t.Errorf("State = %v, Target = %d; want transitioning to 5", c.State(), c.Target())
	}
	c.Tick(time.Second)
	if c.Current() != 5 {
		t.Errorf("Current = %d, want 5", c.Current())
	}
}

func TestMissIsDeferredUntilReady(t *testing.T) {
	src := newFakeSource()
	c := startAt(t, src, defaultConfig(), 10, 0)

	c.Navigate(Request{Kind: Jump, Index: 6})
	if c.State() != Idle {
		t.Fatalf("State = %v, want idle while image 6 decodes", c.State())
	}
	if !slices.Contains(src.recentered, 6) {
		t.Errorf("miss outside the window should recenter the cache, got %v", src.recentered)
	}
	if err := c.Update(10 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if c.State() != Idle {
		t.Fatal("transition started before image 6 was ready")
	}

	src.ready(6)
	if err := c.Update(10 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if c.State() != Transitioning || c.Target() != 6 {
		t.Errorf("State = %v, Target = %d; want transitioning to 6", c.State(), c.Target())
	}
}

func TestFailedImageShowsPlaceholder(t *testing.T) {
	src := newFakeSource()
	c := startAt(t, src, defaultConfig(), 10, 0)
	src.states[4] = cache.Failed

	c.Navigate(Request{Kind: Jump, Index: 4})
	c.Tick(time.Second)

	if c.Current() != 4 {
		t.Fatalf("Current = %d, want 4", c.Current())
	}
	if got := showing(c); got != 1 {
		t.Errorf("showing texture %d, want placeholder", got)
	}
}

func TestSameIndexIsNoop(t *testing.T) {
	src := newFakeSource()
	c := startAt(t, src, defaultConfig(), 10, 3)

	c.Navigate(Request{Kind: Jump, Index: 13})
	if c.State() != Idle {
		t.Error("navigating to the current index should not transition")
	}
}

func TestReturningToCurrentRecentersCache(t *testing.T) {
	src := newFakeSource()
	c := startAt(t, src, defaultConfig(), 100, 3)

	c.Navigate(Request{Kind: Jump, Index: 50})
	if got := src.recentered[len(src.recentered)-1]; got != 50 {
		t.Fatalf("last recenter = %d, want 50", got)
	}

	c.Navigate(Request{Kind: Jump, Index: 3})
	if got := src.recentered[len(src.recentered)-1]; got != 3 {
		t.Errorf("last recenter = %d, want 3 after returning to the shown image", got)
	}
	if c.deferred != -1 {
		t.Errorf("deferred = %d, want none", c.deferred)
	}

	c.Update(time.Millisecond)
	if c.State() != Idle || c.Current() != 3 {
		t.Errorf("state %v at %d, want idle at 3", c.State(), c.Current())
	}
}

func TestZeroDurationCommitsOnFirstTick(t *testing.T) {
	cfg := defaultConfig()
	cfg.Duration = 0
	src := newFakeSource()
	c := startAt(t, src, cfg, 10, 0)
	src.ready(1)

	c.Navigate(Request{Kind: Next})
	c.Tick(0)
	if c.Current() != 1 {
		t.Errorf("Current = %d, want 1", c.Current())
	}
}

func TestRandomModeFixedForTransition(t *testing.T) {
	cfg := defaultConfig()
	cfg.Random = true
	src := newFakeSource()
	c := startAt(t, src, cfg, 10, 0)
	src.ready(1)

	c.Navigate(Request{Kind: Next})
	mode := c.Mode()
	for range 10 {
		c.Tick(40 * time.Millisecond)
		if c.State() == Transitioning && c.Mode() != mode {
			t.Fatalf("mode changed mid-transition from %v to %v", mode, c.Mode())
		}
	}
	if got := c.Frame(16, 9).Uniforms.Mode; got != int32(mode) {
		t.Errorf("uniform mode = %d, want %d", got, mode)
	}
}

func TestAutoplay(t *testing.T) {
	cfg := defaultConfig()
	cfg.Timer = time.Second
	src := newFakeSource()
	c := startAt(t, src, cfg, 3, 0)
	src.ready(1, 2)

	if err := c.Update(900 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if c.State() != Idle {
		t.Fatal("autoplay fired early")
	}
	if err := c.Update(200 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if c.State() != Transitioning || c.Target() != 1 {
		t.Fatalf("State = %v, Target = %d; want transitioning to 1", c.State(), c.Target())
	}

	c.Pause()
	c.Tick(time.Second)
	for range 5 {
		if err := c.Update(time.Second); err != nil {
			t.Fatal(err)
		}
	}
	if c.Current() != 1 {
		t.Errorf("paused autoplay advanced to %d", c.Current())
	}
}

func TestPauseAtLast(t *testing.T) {
	cfg := defaultConfig()
	cfg.Timer = time.Second
	cfg.PauseAtLast = true
	src := newFakeSource()
	c := startAt(t, src, cfg, 3, 2)

	if err := c.Update(2 * time.Second); err != nil {
		t.Fatal(err)
	}
	if !c.Paused() || c.State() != Idle {
		t.Errorf("Paused = %v, State = %v; want paused and idle at the last image", c.Paused(), c.State())
	}
}

func TestTogglePauseAtLast(t *testing.T) {
	cfg := defaultConfig()
	cfg.Timer = time.Second
	cfg.PauseAtLast = true
	src := newFakeSource()
	c := startAt(t, src, cfg, 3, 2)
	src.ready(0)

	c.TogglePauseAtLast()
	if c.PauseAtLast() {
		t.Fatal("PauseAtLast still on after toggle")
	}
	if err := c.Update(1100 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if c.Paused() || c.State() != Transitioning || c.Target() != 0 {
		t.Errorf("Paused = %v, State = %v, Target = %d; want wrap to 0", c.Paused(), c.State(), c.Target())
	}

	c.TogglePauseAtLast()
	if !c.PauseAtLast() {
		t.Error("PauseAtLast off after second toggle")
	}
}

func TestManualNavigationResetsTimer(t *testing.T) {
	cfg := defaultConfig()
	cfg.Timer = time.Second
	src := newFakeSource()
	c := startAt(t, src, cfg, 10, 0)
	src.ready(1)

	_ = c.Update(800 * time.Millisecond)
	c.Navigate(Request{Kind: Next})
	if c.Remaining() != time.Second {
		t.Errorf("Remaining = %v, want 1s", c.Remaining())
	}
}

func TestTimerZeroStartsPaused(t *testing.T) {
	src := newFakeSource()
	c := New(defaultConfig(), src, 10, placeholder())
	if !c.Paused() {
		t.Error("timer 0 should start paused")
	}
	c.AdjustTimer(5 * time.Second)
	if c.Paused() || c.Timer() != 5*time.Second {
		t.Errorf("Paused = %v, Timer = %v after adjust", c.Paused(), c.Timer())
	}
	c.AdjustTimer(-10 * time.Second)
	if !c.Paused() || c.Timer() != 0 {
		t.Errorf("Paused = %v, Timer = %v after adjust below zero", c.Paused(), c.Timer())
	}
}

func TestWindowScaleUniform(t *testing.T) {
	src := newFakeSource()
	c := startAt(t, src, defaultConfig(), 10, 0)

	// 16x9 texture in a square window leaves bars top and bottom
	u := c.Frame(100, 100).Uniforms
	if u.WindowScaleX != 1 || u.WindowScaleY <= 1 {
		t.Errorf("window scale = %v,%v; want 1 and >1", u.WindowScaleX, u.WindowScaleY)
	}

	cfg := defaultConfig()
	cfg.Stretch = true
	stretched := startAt(t, newFakeSource(), cfg, 10, 0)
	u = stretched.Frame(100, 100).Uniforms
	if u.WindowScaleX != 1 || u.WindowScaleY != 1 {
		t.Errorf("stretched window scale = %v,%v; want 1,1", u.WindowScaleX, u.WindowScaleY)
	}
}

func TestRestartEmptyPlaylistShowsPlaceholder(t *testing.T) {
	src := newFakeSource()
	c := startAt(t, src, defaultConfig(), 10, 0)

	c.Restart(0, 0)
	c.Tick(time.Second)
	if got := showing(c); got != 1 {
		t.Errorf("showing texture %d, want placeholder", got)
	}
}

func TestRequestResolve(t *testing.T) {
	tests := []struct {
		req     Request
		current int
		want    int
	}{
		{Request{Kind: Next}, 9, 0},
		{Request{Kind: Prev}, 0, 9},
		{Request{Kind: Next, Amount: 10}, 3, 3},
		{Request{Kind: Prev, Amount: 10}, 3, 3},
		{Request{Kind: First}, 5, 0},
		{Request{Kind: Last}, 5, 9},
		{Request{Kind: Jump, Index: -1}, 5, 9},
		{Request{Kind: Next}, -1, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v from %d", tt.req, tt.current), func(t *testing.T) {
			if got := tt.req.resolve(tt.current, 10, nil); got != tt.want {
				t.Errorf("resolve = %d, want %d", got, tt.want)
			}
		})
	}
}

// colorDecoder fills each image with red equal to its playlist index so
// uploaded textures can be traced back to their source.
type colorDecoder struct {
	mu    sync.Mutex
	calls map[string]int
}

func (d *colorDecoder) Decode(path string, _ image.Point, _ types.ResizeFilter) (*image.RGBA, error) {
	d.mu.Lock()
	d.calls[path]++
	d.mu.Unlock()

	var i int
	fmt.Sscanf(path, "img%d.png", &i)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for p := 0; p < len(img.Pix); p += 4 {
		img.Pix[p] = uint8(i)
		img.Pix[p+3] = 255
	}
	return img, nil
}

type tracingUploader struct {
	next    uint32
	indexOf map[uint32]int
}

func (u *tracingUploader) Upload(img *image.RGBA) (*gpu.Texture, error) {
	u.next++
	u.indexOf[u.next] = int(img.Pix[0])
	return gpu.NewTexture(u.next, 2, 2, nil), nil
}

type paths []string

func (p paths) Len() int            { return len(p) }
func (p paths) PathAt(i int) string { return p[i] }

func TestNavigateForwardThroughCache(t *testing.T) {
	pl := make(paths, 10)
	for i := range pl {
		pl[i] = fmt.Sprintf("img%d.png", i)
	}
	dec := &colorDecoder{calls: make(map[string]int)}
	up := &tracingUploader{indexOf: make(map[uint32]int)}

	ch := cache.New(cache.Config{Extent: 2, Workers: 2}, pl, dec.Decode, up)
	defer ch.Close()

	cfg := defaultConfig()
	cfg.Background = color.NRGBA{A: 255}
	c := New(cfg, ch, len(pl), placeholder())
	defer c.Close()

	c.Restart(len(pl), 0)
	if got := ch.Window(); !slices.Equal(got, []int{0, 1, 9, 2, 8}) {
		t.Fatalf("window = %v, want [0 1 9 2 8]", got)
	}

	waitIdleAt := func(index int) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for c.Current() != index || c.State() != Idle {
			if err := c.Update(100 * time.Millisecond); err != nil {
				t.Fatal(err)
			}
			if time.Now().After(deadline) {
				t.Fatalf("never reached index %d (current %d, %v)", index, c.Current(), c.State())
			}
			time.Sleep(time.Millisecond)
		}
	}

	waitIdleAt(0)
	var seen []int
	for step := 1; step <= 3; step++ {
		c.Navigate(Request{Kind: Next})
		waitIdleAt(step)
		seen = append(seen, up.indexOf[showing(c)])
	}

	if !slices.Equal(seen, []int{1, 2, 3}) {
		t.Errorf("textures shown came from %v, want [1 2 3]", seen)
	}
	dec.mu.Lock()
	defer dec.mu.Unlock()
	for path, n := range dec.calls {
		if n != 1 {
			t.Errorf("%s decoded %d times, want 1", path, n)
		}
	}
}
