// Package player runs the slideshow: one loop that owns the GPU context,
// drives the compositor at the configured frame rate and executes commands
// from the keyboard, the control socket and the playlist watcher.
package player

import (
	"context"
	"errors"
	"image"
	"image/color"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow/internal/cache"
	"github.com/matjam/sldshow/internal/compositor"
	"github.com/matjam/sldshow/internal/config"
	"github.com/matjam/sldshow/internal/decoder"
	"github.com/matjam/sldshow/internal/gpu"
	"github.com/matjam/sldshow/internal/ipc"
	"github.com/matjam/sldshow/internal/playlist"
	"github.com/matjam/sldshow/internal/types"
)

// Display is the window the player draws into. It is created and used on
// the loop goroutine only.
type Display interface {
	gpu.Uploader
	SolidTexture(c color.NRGBA) (*gpu.Texture, error)
	Draw(slots [2]*gpu.Texture, u gpu.Uniforms)
	Size() (int, int)
	PollEvents()
	Commands() <-chan ipc.Command
	ShouldClose() bool
	Cleanup()
}

// OpenDisplay creates the Display. It is called from inside Run.
type OpenDisplay func() (Display, error)

// ErrQueueFull is returned when commands arrive faster than frames.
var ErrQueueFull = errors.New("command queue full")

// commandRescan carries an already scanned playlist from the watcher.
const commandRescan ipc.CommandType = "rescan"

type Player struct {
	cfg      *config.Config
	playlist *playlist.Playlist
	cmds     chan ipc.Command

	mu     sync.Mutex
	status ipc.PlayerStatus

	// owned by the loop
	display Display
	cache   *cache.Cache
	comp    *compositor.Compositor
	size    image.Point

	ctx         context.Context
	stopWatcher context.CancelFunc
	watchGen    int
}

// New prepares a player for paths. Nothing is opened until Run.
func New(cfg *config.Config, paths []string) *Player {
	pl := playlist.New(paths)
	if cfg.Viewer.Shuffle {
		pl.Shuffle()
	}
	return &Player{
		cfg:      cfg,
		playlist: pl,
		cmds:     make(chan ipc.Command, 16),
	}
}

// EnqueueCommand hands a command to the loop without blocking.
func (p *Player) EnqueueCommand(cmd ipc.Command) error {
	select {
	case p.cmds <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Status returns the snapshot published after the last frame.
func (p *Player) Status() ipc.PlayerStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Run blocks until the window closes, a stop command arrives or ctx is
// done. A failed texture upload ends the loop with that error.
func (p *Player) Run(ctx context.Context, open OpenDisplay) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p.ctx = ctx

	display, err := open()
	if err != nil {
		return err
	}
	p.display = display
	defer display.Cleanup()

	w, h := display.Size()
	p.size = image.Pt(w, h)
	checkMemory(p.cfg.Viewer.CacheExtent, p.size)

	dec := &decoder.Decoder{Scaling: p.cfg.Scaling(), Background: p.cfg.Background()}
	p.cache = cache.New(cache.Config{
		Extent:            p.cfg.Viewer.CacheExtent,
		Filter:            p.cfg.Filter(),
		Workers:           p.cfg.Workers(),
		MaxUploadsPerPoll: p.cfg.Viewer.UploadsPerFrame,
		TargetSize:        p.size,
	}, p.playlist, dec.Decode, display)
	defer p.cache.Close()

	placeholder, err := display.SolidTexture(p.cfg.Placeholder())
	if err != nil {
		return err
	}
	p.comp = compositor.New(compositor.Config{
		Duration:    p.cfg.TransitionTime(),
		Mode:        p.cfg.Mode(),
		Random:      p.cfg.Transition.Random,
		Easing:      p.cfg.Easing(),
		Timer:       p.cfg.Timer(),
		PauseAtLast: p.cfg.Viewer.PauseAtLast,
		Stretch:     p.cfg.Scaling() == types.ScalingModeStretch,
		Background:  p.cfg.Background(),
	}, p.cache, p.playlist.Len(), placeholder)
	defer p.comp.Close()

	p.watch(p.cfg.Viewer.ImagePaths)

	log.Infof("Showing %d images", p.playlist.Len())
	p.comp.Restart(p.playlist.Len(), 0)

	ticker := time.NewTicker(p.cfg.FrameInterval())
	defer ticker.Stop()
	last := time.Now()

	for !display.ShouldClose() {
		select {
		case <-ctx.Done():
			log.Info("Stopping slideshow ...")
			return nil
		case <-ticker.C:
		}

		display.PollEvents()
		if !p.drainCommands() {
			log.Info("Stopping slideshow ...")
			return nil
		}

		w, h := display.Size()
		if size := image.Pt(w, h); size != p.size && w > 0 && h > 0 {
			log.Debugf("Window resized to %vx%v", w, h)
			p.size = size
			p.cache.SetTargetSize(size)
		}

		now := time.Now()
		if err := p.comp.Update(now.Sub(last)); err != nil {
			log.Errorf("Rendering stopped: %v", err)
			return err
		}
		last = now

		frame := p.comp.Frame(w, h)
		display.Draw(frame.Slots, frame.Uniforms)
		p.publishStatus()
	}

	log.Info("Window closed")
	return nil
}

// drainCommands runs every pending command. It returns false on stop.
func (p *Player) drainCommands() bool {
	for {
		var cmd ipc.Command
		select {
		case cmd = <-p.display.Commands():
		case cmd = <-p.cmds:
		default:
			return true
		}
		if !p.handle(cmd) {
			return false
		}
	}
}

// watch replaces the playlist watcher with one on inputs. Rescans carry the
// watcher generation so that updates from a replaced watcher are ignored.
func (p *Player) watch(inputs []string) {
	if p.stopWatcher != nil {
		p.stopWatcher()
		p.stopWatcher = nil
	}
	p.watchGen++
	if !p.cfg.Viewer.Watch {
		return
	}

	gen := strconv.Itoa(p.watchGen)
	w, err := playlist.NewWatcher(inputs, p.cfg.Viewer.ScanSubfolders, func(paths []string) {
		cmd := ipc.Command{Type: commandRescan, Args: append([]string{gen}, paths...)}
		if err := p.EnqueueCommand(cmd); err != nil {
			log.Warnf("Dropping playlist update: %v", err)
		}
	})
	if err != nil {
		log.Errorf("Not watching image paths: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(p.ctx)
	p.stopWatcher = cancel
	go w.Run(ctx)
}

func (p *Player) publishStatus() {
	s := ipc.PlayerStatus{
		Index:      p.comp.Current(),
		Count:      p.playlist.Len(),
		State:      p.comp.State().String(),
		Mode:       p.comp.Mode().String(),
		Random:     p.comp.RandomMode(),
		Paused:     p.comp.Paused(),
		PauseAtEnd: p.comp.PauseAtLast(),
		Timer:      p.comp.Timer().Seconds(),
		Remaining:  p.comp.Remaining().Seconds(),
		Cache:      p.cache.Stats(),
		WindowSize: [2]int{p.size.X, p.size.Y},
	}
	if s.Index >= 0 && s.Index < s.Count {
		s.Path = p.playlist.PathAt(s.Index)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = s
}
