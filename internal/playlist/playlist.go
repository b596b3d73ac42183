package playlist

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
)

// maxScanDepth bounds recursion when scan_subfolders is enabled.
const maxScanDepth = 999

// SupportedExtensions lists the file types the decoder can open.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff"}

// Playlist is an ordered list of image paths.
type Playlist struct {
	sync.Mutex
	paths []string
}

func New(paths []string) *Playlist {
	return &Playlist{paths: slices.Clone(paths)}
}

func (p *Playlist) Len() int {
	p.Lock()
	defer p.Unlock()
	return len(p.paths)
}

// PathAt returns the path at index i. i must be in [0, Len()).
func (p *Playlist) PathAt(i int) string {
	p.Lock()
	defer p.Unlock()
	return p.paths[i]
}

func (p *Playlist) Paths() []string {
	p.Lock()
	defer p.Unlock()
	return slices.Clone(p.paths)
}

// IndexOf returns the index of path, or -1.
func (p *Playlist) IndexOf(path string) int {
	p.Lock()
	defer p.Unlock()
	return slices.Index(p.paths, path)
}

func (p *Playlist) Shuffle() {
	p.Lock()
	defer p.Unlock()

	rand.Shuffle(len(p.paths), func(i, j int) {
		p.paths[i], p.paths[j] = p.paths[j], p.paths[i]
	})
}

// Wrap maps any integer onto [0, n). n must be positive.
func Wrap(i, n int) int {
	return ((i % n) + n) % n
}

// Step moves amount positions from current, wrapping at both ends.
func Step(current, amount, n int) int {
	if n <= 0 {
		return 0
	}
	return Wrap(current+amount, n)
}

// Distance is the shortest number of steps between a and b on a ring of n.
func Distance(a, b, n int) int {
	if a == b || n <= 0 {
		return 0
	}
	d := Wrap(b-a, n)
	if n-d < d {
		return n - d
	}
	return d
}

// Scan expands files and directories into a list of supported image paths.
// Directory entries are ordered naturally ("img2" before "img10").
func Scan(inputs []string, recursive bool) []string {
	var out []string
	for _, input := range inputs {
		path := CanonicalPath(input)
		info, err := os.Stat(path)
		if err != nil {
			log.Warnf("Skipping %s: %v", path, err)
			continue
		}
		if info.IsDir() {
			out = scanDir(out, path, recursive, 0)
		} else if IsSupported(path) {
			out = append(out, path)
		}
	}
	return lo.Uniq(out)
}

func scanDir(out []string, dir string, recursive bool, depth int) []string {
	if depth > maxScanDepth {
		return out
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warnf("Error reading directory %s: %v", dir, err)
		return out
	}

	names := lo.Map(entries, func(e os.DirEntry, _ int) string { return e.Name() })
	slices.SortFunc(names, NaturalCompare)
	isDir := lo.SliceToMap(entries, func(e os.DirEntry) (string, bool) { return e.Name(), e.IsDir() })

	for _, name := range names {
		path := filepath.Join(dir, name)
		if isDir[name] {
			if recursive {
				out = scanDir(out, path, recursive, depth+1)
			}
			continue
		}
		if IsSupported(path) {
			out = append(out, path)
		}
	}
	return out
}

func IsSupported(path string) bool {
	return lo.Contains(SupportedExtensions, strings.ToLower(filepath.Ext(path)))
}

func CanonicalPath(path string) string {
	if path == "" {
		return ""
	}

	if path == "~" {
		return os.Getenv("HOME")
	}

	if strings.HasPrefix(path, "~/") {
		homeDir := os.Getenv("HOME")
		return strings.Replace(path, "~", homeDir, 1)
	}

	return path
}
