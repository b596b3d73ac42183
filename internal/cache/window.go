package cache

import (
	"github.com/matjam/sldshow/internal/playlist"
	"github.com/samber/lo"
)

// Window returns the indices kept warm around current on a playlist of n
// images, in prefetch order: current, +1, -1, +2, -2 and so on. Indices wrap
// at both ends and appear once, so the result holds min(n, 2*extent+1)
// entries.
func Window(current, n, extent int) []int {
	if n <= 0 {
		return nil
	}
	if extent < 0 {
		extent = 0
	}

	size := min(n, 2*extent+1)
	out := make([]int, 0, size)
	out = append(out, playlist.Wrap(current, n))

	for d := 1; len(out) < size; d++ {
		for _, offset := range []int{d, -d} {
			if len(out) == size {
				break
			}
			i := playlist.Wrap(current+offset, n)
			if !lo.Contains(out, i) {
				out = append(out, i)
			}
		}
	}
	return out
}
