package playlist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long the watcher waits for a burst of file events to
// end before rescanning.
const DefaultSettle = 500 * time.Millisecond

// Watcher rescans the input paths when images are added, removed or renamed
// and reports the new list.
type Watcher struct {
	inputs    []string
	recursive bool
	settle    time.Duration
	onChange  func(paths []string)

	watcher *fsnotify.Watcher
	watched map[string]bool
}

func NewWatcher(inputs []string, recursive bool, onChange func(paths []string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		inputs:    inputs,
		recursive: recursive,
		settle:    DefaultSettle,
		onChange:  onChange,
		watcher:   fw,
		watched:   make(map[string]bool),
	}

	for _, input := range inputs {
		path := CanonicalPath(input)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			path = filepath.Dir(path)
		}
		if err := w.addDir(path); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	return w, nil
}

func (w *Watcher) addDir(dir string) error {
	if w.watched[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("error watching %s: %w", dir, err)
	}
	w.watched[dir] = true
	log.Debugf("Watching %s", dir)

	if !w.recursive {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := w.addDir(filepath.Join(dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	defer func() { _ = w.watcher.Close() }()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			log.Debugf("Playlist change: %s", event)
			if timer == nil {
				timer = time.NewTimer(w.settle)
			} else {
				timer.Reset(w.settle)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("Watcher error: %v", err)

		case <-fire:
			fire = nil
			paths := Scan(w.inputs, w.recursive)
			log.Infof("Rescanned playlist: %d images", len(paths))
			w.onChange(paths)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) && w.recursive {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDir(event.Name); err != nil {
				log.Errorf("%v", err)
			}
			return true
		}
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return IsSupported(event.Name)
}
