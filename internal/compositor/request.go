package compositor

import (
	"fmt"
	"math/rand/v2"

	"github.com/matjam/sldshow/internal/playlist"
)

type RequestKind int

const (
	Next RequestKind = iota
	Prev
	First
	Last
	Jump
	Random
)

func (k RequestKind) String() string {
	switch k {
	case Next:
		return "next"
	case Prev:
		return "prev"
	case First:
		return "first"
	case Last:
		return "last"
	case Jump:
		return "jump"
	case Random:
		return "random"
	default:
		return fmt.Sprintf("request(%d)", int(k))
	}
}

// Request is a navigation command. Amount applies to Next and Prev (0 means
// 1); Index applies to Jump and wraps.
type Request struct {
	Kind   RequestKind
	Amount int
	Index  int
}

func (r Request) String() string {
	switch r.Kind {
	case Next, Prev:
		return fmt.Sprintf("%s %d", r.Kind, max(r.Amount, 1))
	case Jump:
		return fmt.Sprintf("jump %d", r.Index)
	default:
		return r.Kind.String()
	}
}

// resolve returns the playlist index a request leads to from current. A
// current of -1 means nothing is shown yet.
func (r Request) resolve(current, n int, rng *rand.Rand) int {
	if n <= 0 {
		return -1
	}
	amount := max(r.Amount, 1)
	from := max(current, 0)

	switch r.Kind {
	case Next:
		if current < 0 {
			return 0
		}
		return playlist.Step(from, amount, n)
	case Prev:
		if current < 0 {
			return playlist.Wrap(-amount, n)
		}
		return playlist.Step(from, -amount, n)
	case First:
		return 0
	case Last:
		return n - 1
	case Jump:
		return playlist.Wrap(r.Index, n)
	case Random:
		if n == 1 || current < 0 {
			return rng.IntN(n)
		}
		i := rng.IntN(n - 1)
		if i >= current {
			i++
		}
		return i
	}
	return current
}
