package player

import (
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow/internal/compositor"
	"github.com/matjam/sldshow/internal/ipc"
	"github.com/matjam/sldshow/internal/playlist"
	"github.com/matjam/sldshow/internal/transition"
)

// navigation maps the navigation commands onto compositor requests.
func navigation(cmd ipc.Command) (compositor.Request, bool) {
	switch cmd.Type {
	case ipc.CommandNext:
		return compositor.Request{Kind: compositor.Next}, true
	case ipc.CommandPrev:
		return compositor.Request{Kind: compositor.Prev}, true
	case ipc.CommandNext10:
		return compositor.Request{Kind: compositor.Next, Amount: 10}, true
	case ipc.CommandPrev10:
		return compositor.Request{Kind: compositor.Prev, Amount: 10}, true
	case ipc.CommandFirst:
		return compositor.Request{Kind: compositor.First}, true
	case ipc.CommandLast:
		return compositor.Request{Kind: compositor.Last}, true
	case ipc.CommandRandom:
		return compositor.Request{Kind: compositor.Random}, true
	case ipc.CommandJump:
		if len(cmd.Args) != 1 {
			return compositor.Request{}, false
		}
		i, err := strconv.Atoi(cmd.Args[0])
		if err != nil {
			return compositor.Request{}, false
		}
		return compositor.Request{Kind: compositor.Jump, Index: i}, true
	}
	return compositor.Request{}, false
}

// handle executes one command on the loop. It returns false for stop.
func (p *Player) handle(cmd ipc.Command) bool {
	if req, ok := navigation(cmd); ok {
		log.Debugf("Received %v", req)
		p.comp.Navigate(req)
		return true
	}

	switch cmd.Type {
	case ipc.CommandStop:
		log.Info("Received stop command")
		return false

	case ipc.CommandPause:
		p.comp.Pause()
	case ipc.CommandResume:
		p.comp.Resume()
	case ipc.CommandTogglePause:
		p.comp.TogglePause()
		log.Infof("Paused: %v", p.comp.Paused())

	case ipc.CommandPauseAtLast:
		p.comp.TogglePauseAtLast()
		log.Infof("Pause at last: %v", p.comp.PauseAtLast())
	case ipc.CommandResetTimer:
		p.comp.SetTimer(p.cfg.Timer())
		log.Infof("Timer: %v (reset, paused: %v)", p.comp.Timer(), p.comp.Paused())

	case ipc.CommandMode:
		if len(cmd.Args) != 1 {
			log.Error("mode command needs a name")
			break
		}
		if cmd.Args[0] == "random" {
			p.comp.SetRandom(true)
			log.Info("Transition mode: random")
			break
		}
		m, err := transition.ParseMode(cmd.Args[0])
		if err != nil {
			log.Errorf("mode command: %v", err)
			break
		}
		p.comp.SetMode(m)
		log.Infof("Transition mode: %s", m)

	case ipc.CommandTimer:
		if len(cmd.Args) != 1 {
			log.Error("timer command needs a value")
			break
		}
		secs, relative, err := ipc.ParseTimer(cmd.Args[0])
		if err != nil {
			log.Errorf("timer command: %v", err)
			break
		}
		d := time.Duration(secs * float64(time.Second))
		if relative {
			p.comp.AdjustTimer(d)
		} else {
			p.comp.SetTimer(d)
		}
		log.Infof("Timer: %v (paused: %v)", p.comp.Timer(), p.comp.Paused())

	case ipc.CommandLoad:
		if len(cmd.Args) == 0 {
			log.Error("No images specified for load command")
			break
		}
		paths := playlist.Scan(cmd.Args, p.cfg.Viewer.ScanSubfolders)
		if len(paths) == 0 {
			log.Errorf("No images found in %v", cmd.Args)
			break
		}
		p.replacePlaylist(paths, p.cfg.Viewer.Shuffle)
		p.watch(cmd.Args)
		log.Infof("Loaded %d images", len(paths))

	case commandRescan:
		if len(cmd.Args) == 0 || cmd.Args[0] != strconv.Itoa(p.watchGen) {
			log.Debug("Ignoring rescan from a replaced watcher")
			break
		}
		paths := cmd.Args[1:]
		p.replacePlaylist(paths, p.cfg.Viewer.Shuffle)
		log.Infof("Playlist changed, %d images", len(paths))

	default:
		log.Errorf("Unknown command: %v", cmd.Type)
	}
	return true
}

// replacePlaylist swaps in a new list and keeps showing the current image
// when it is still part of it.
func (p *Player) replacePlaylist(paths []string, shuffle bool) {
	var currentPath string
	if i := p.comp.Current(); i >= 0 && i < p.playlist.Len() {
		currentPath = p.playlist.PathAt(i)
	}

	pl := playlist.New(paths)
	if shuffle {
		pl.Shuffle()
	}
	start := max(pl.IndexOf(currentPath), 0)

	p.playlist = pl
	p.cache.Reset(pl)
	p.comp.Restart(pl.Len(), start)
}
