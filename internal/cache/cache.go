// Package cache keeps a window of decoded, GPU-ready images around the
// current playlist index so navigation never waits on a decode.
//
// All methods except the workers are meant to be called from the thread that
// owns the GPU context. Workers only produce pixel buffers and hand them back
// over a single channel drained by PollCompleted.
package cache

import (
	"fmt"
	"image"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow/internal/gpu"
	"github.com/matjam/sldshow/internal/types"
	"github.com/samber/lo"
)

type State int

const (
	Absent State = iota
	Pending
	Decoding
	Ready
	GPUReady
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Decoding:
		return "decoding"
	case Ready:
		return "ready"
	case GPUReady:
		return "gpu-ready"
	case Failed:
		return "failed"
	default:
		return "absent"
	}
}

// Entry is the cache's record for one playlist index inside the window.
type Entry struct {
	Index      int
	State      State
	Pixels     *image.RGBA  // Ready only
	Texture    *gpu.Texture // GPUReady only
	Err        error        // Failed only
	Generation uint64
}

// Playlist is the read side of the image list.
type Playlist interface {
	Len() int
	PathAt(i int) string
}

// DecodeFunc produces the pixels for one image. It is called from worker
// goroutines and must be safe for concurrent use.
type DecodeFunc func(path string, size image.Point, filter types.ResizeFilter) (*image.RGBA, error)

type Config struct {
	Extent            int // images kept on each side of the current one
	Filter            types.ResizeFilter
	Workers           int // 0 means half the CPUs
	MaxUploadsPerPoll int // 0 means unlimited
	TargetSize        image.Point
}

// Result reports an index that finished during a PollCompleted call, either
// uploaded or failed.
type Result struct {
	Index int
	Err   error
}

type Stats struct {
	Pending        int    `json:"pending"`
	Decoding       int    `json:"decoding"`
	Ready          int    `json:"ready"`
	GPUReady       int    `json:"gpu_ready"`
	Failed         int    `json:"failed"`
	Queued         int    `json:"queued"`
	Discarded      uint64 `json:"discarded"`
	DecodesStarted uint64 `json:"decodes_started"`
}

type decoded struct {
	index      int
	generation uint64
	pixels     *image.RGBA
	err        error
}

type Cache struct {
	cfg      Config
	playlist Playlist
	decode   DecodeFunc
	uploader gpu.Uploader

	entries map[int]*Entry
	window  []int
	rank    map[int]int
	nextGen uint64
	size    image.Point

	queue   *workQueue
	results chan decoded
	done    chan struct{}
	wg      sync.WaitGroup

	discarded      uint64
	decodesStarted atomic.Uint64
	closeOnce      sync.Once
}

// New starts the worker pool. The cache is empty until the first Recenter.
func New(cfg Config, pl Playlist, decode DecodeFunc, uploader gpu.Uploader) *Cache {
	if cfg.Extent < 0 {
		cfg.Extent = 0
	}
	if cfg.Workers <= 0 {
		cfg.Workers = max(1, runtime.NumCPU()/2)
	}
	if cfg.Filter == "" {
		cfg.Filter = types.FilterLinear
	}

	c := &Cache{
		cfg:      cfg,
		playlist: pl,
		decode:   decode,
		uploader: uploader,
		entries:  make(map[int]*Entry),
		rank:     make(map[int]int),
		size:     cfg.TargetSize,
		queue:    newWorkQueue(),
		results:  make(chan decoded, 2*cfg.Extent+1),
		done:     make(chan struct{}),
	}

	c.wg.Add(cfg.Workers)
	for range cfg.Workers {
		go c.worker()
	}
	log.Debugf("Image cache started with %d workers, extent %d", cfg.Workers, cfg.Extent)
	return c
}

func (c *Cache) worker() {
	defer c.wg.Done()
	for {
		j, ok := c.queue.Pop()
		if !ok {
			return
		}
		c.decodesStarted.Add(1)
		pixels, err := c.decode(j.path, j.size, j.filter)

		select {
		case c.results <- decoded{index: j.index, generation: j.generation, pixels: pixels, err: err}:
		case <-c.done:
			return
		}
	}
}

// Recenter moves the window to index. Entries that fall outside are evicted
// and their queued jobs dropped; new indices get an entry and a decode job.
// It never blocks on decoding.
func (c *Cache) Recenter(index int) {
	n := c.playlist.Len()
	if n == 0 {
		c.evictAll()
		return
	}
	if index < 0 || index >= n {
		panic(fmt.Sprintf("cache: recenter on index %d outside playlist of %d", index, n))
	}

	c.window = Window(index, n, c.cfg.Extent)
	clear(c.rank)
	for r, i := range c.window {
		c.rank[i] = r
	}

	for i, e := range c.entries {
		if _, ok := c.rank[i]; !ok {
			c.evict(e)
			delete(c.entries, i)
		}
	}

	for _, i := range c.window {
		e, ok := c.entries[i]
		if !ok {
			c.nextGen++
			e = &Entry{Index: i, State: Pending, Generation: c.nextGen}
			c.entries[i] = e
		}
		if e.State == Pending {
			c.queue.Push(job{
				index:      i,
				generation: e.Generation,
				path:       c.playlist.PathAt(i),
				size:       c.size,
				filter:     c.cfg.Filter,
			})
			e.State = Decoding
		}
	}

	c.queue.Retain(func(j job) (int, bool) {
		e, ok := c.entries[j.index]
		if !ok || e.Generation != j.generation {
			return 0, false
		}
		return c.rank[j.index], true
	})
}

// TryGet returns the texture for index when it is GPU-ready. The caller must
// Retain it to keep it past the next eviction.
func (c *Cache) TryGet(index int) *gpu.Texture {
	if e, ok := c.entries[index]; ok && e.State == GPUReady {
		return e.Texture
	}
	return nil
}

// Status reports the state of index and its decode error when Failed.
func (c *Cache) Status(index int) (State, error) {
	e, ok := c.entries[index]
	if !ok {
		return Absent, nil
	}
	return e.State, e.Err
}

// Lookup returns a copy of the entry for index.
func (c *Cache) Lookup(index int) (Entry, bool) {
	e, ok := c.entries[index]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Window returns the indices currently held, in prefetch order.
func (c *Cache) Window() []int {
	return slices.Clone(c.window)
}

// PollCompleted drains finished decodes without blocking and uploads ready
// images nearest first. Results for entries that were evicted or replaced are
// discarded. An upload failure is returned wrapped in gpu.ErrUpload.
func (c *Cache) PollCompleted() ([]Result, error) {
	var out []Result

drain:
	for {
		select {
		case r := <-c.results:
			e, ok := c.entries[r.index]
			if !ok || e.Generation != r.generation || e.State != Decoding {
				c.discarded++
				continue
			}
			if r.err != nil {
				e.State = Failed
				e.Err = r.err
				log.Warnf("Failed to load image %d: %v", r.index, r.err)
				out = append(out, Result{Index: r.index, Err: r.err})
				continue
			}
			e.State = Ready
			e.Pixels = r.pixels
		default:
			break drain
		}
	}

	ready := lo.Filter(c.window, func(i int, _ int) bool {
		e, ok := c.entries[i]
		return ok && e.State == Ready
	})
	if c.cfg.MaxUploadsPerPoll > 0 && len(ready) > c.cfg.MaxUploadsPerPoll {
		ready = ready[:c.cfg.MaxUploadsPerPoll]
	}

	for _, i := range ready {
		e := c.entries[i]
		tex, err := c.uploader.Upload(e.Pixels)
		if err != nil {
			return out, fmt.Errorf("%w: index %d: %w", gpu.ErrUpload, i, err)
		}
		e.Texture = tex
		e.Pixels = nil
		e.State = GPUReady
		out = append(out, Result{Index: i})
	}

	return out, nil
}

// SetTargetSize changes the size future decodes are scaled to. Images already
// decoded at another size stay valid.
func (c *Cache) SetTargetSize(size image.Point) {
	c.size = size
}

// Reset evicts everything and switches to a new playlist.
func (c *Cache) Reset(pl Playlist) {
	c.evictAll()
	c.playlist = pl
}

func (c *Cache) Stats() Stats {
	s := Stats{
		Queued:         c.queue.Len(),
		Discarded:      c.discarded,
		DecodesStarted: c.decodesStarted.Load(),
	}
	for _, e := range c.entries {
		switch e.State {
		case Pending:
			s.Pending++
		case Decoding:
			s.Decoding++
		case Ready:
			s.Ready++
		case GPUReady:
			s.GPUReady++
		case Failed:
			s.Failed++
		}
	}
	return s
}

// Close stops the workers and releases every texture the cache holds.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.queue.Close()
		c.wg.Wait()
		c.evictAll()
		log.Debug("Image cache closed")
	})
}

func (c *Cache) evictAll() {
	for i, e := range c.entries {
		c.evict(e)
		delete(c.entries, i)
	}
	c.window = nil
	clear(c.rank)
	c.queue.Retain(func(job) (int, bool) { return 0, false })
}

func (c *Cache) evict(e *Entry) {
	if e.State == GPUReady {
		e.Texture.Release()
	}
	e.Texture = nil
	e.Pixels = nil
	e.State = Absent
}
