// Package transition defines the transition modes and a CPU rendition of
// the blend each one performs. The GLSL shader in glrender implements the
// same masks; keep the two in step.
package transition

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// Mode selects how the outgoing and incoming image combine over progress t.
type Mode int32

const (
	Crossfade Mode = iota
	SmoothCrossfade
	RollRight
	RollLeft
	RollDown
	RollUp
	Roll45TopLeft
	Roll45TopRight
	Roll45BottomLeft
	Roll45BottomRight
	SlidingDoorOutHorizontal
	SlidingDoorOutVertical
	SlidingDoorInHorizontal
	SlidingDoorInVertical
	BlindRight
	BlindLeft
	BlindDown
	BlindUp
	BoxOut
	BoxIn
	RandomSquares
	Angular

	// Count is the number of modes. The shader switches on 0..Count-1.
	Count = int(Angular) + 1
)

// edge is the width of the soft border between the two images, in uv units.
const edge = 0.05

const (
	blindCount  = 10
	squareCount = 16
)

var modeNames = [Count]string{
	"crossfade",
	"smooth-crossfade",
	"roll-right",
	"roll-left",
	"roll-down",
	"roll-up",
	"roll-45-top-left",
	"roll-45-top-right",
	"roll-45-bottom-left",
	"roll-45-bottom-right",
	"sliding-door-out-horizontal",
	"sliding-door-out-vertical",
	"sliding-door-in-horizontal",
	"sliding-door-in-vertical",
	"blind-right",
	"blind-left",
	"blind-down",
	"blind-up",
	"box-out",
	"box-in",
	"random-squares",
	"angular",
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", int32(m))
	}
	return modeNames[m]
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= 0 && int(m) < Count
}

// Names lists every mode name in index order.
func Names() []string {
	return modeNames[:]
}

// ParseMode accepts a mode name or its index.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	var idx int
	if _, err := fmt.Sscanf(s, "%d", &idx); err == nil && fmt.Sprint(idx) == s {
		if m := Mode(idx); m.Valid() {
			return m, nil
		}
	}
	return Crossfade, fmt.Errorf("unknown transition mode %q", s)
}

// Random draws a mode uniformly.
func Random(rng *rand.Rand) Mode {
	return Mode(rng.IntN(Count))
}

// Mask returns how much of the incoming image shows at uv for progress t.
// uv is in screen space with the origin at the top left. Every mask is 0 at
// t=0 and 1 at t=1 for all uv in [0,1]x[0,1]. Unknown modes behave like
// Crossfade.
func Mask(m Mode, t, u, v float64) float64 {
	switch m {
	case SmoothCrossfade:
		return smoothstep(0, 1, t)
	case RollRight:
		return sweep(u, t)
	case RollLeft:
		return sweep(1-u, t)
	case RollDown:
		return sweep(v, t)
	case RollUp:
		return sweep(1-v, t)
	case Roll45TopLeft:
		return sweep((u+v)/2, t)
	case Roll45TopRight:
		return sweep((1-u+v)/2, t)
	case Roll45BottomLeft:
		return sweep((u+1-v)/2, t)
	case Roll45BottomRight:
		return sweep((2-u-v)/2, t)
	case SlidingDoorOutHorizontal:
		return sweep(math.Abs(u-0.5)*2, t)
	case SlidingDoorOutVertical:
		return sweep(math.Abs(v-0.5)*2, t)
	case SlidingDoorInHorizontal:
		return sweep(1-math.Abs(u-0.5)*2, t)
	case SlidingDoorInVertical:
		return sweep(1-math.Abs(v-0.5)*2, t)
	case BlindRight:
		return sweep(fract(u*blindCount), t)
	case BlindLeft:
		return sweep(1-fract(u*blindCount), t)
	case BlindDown:
		return sweep(fract(v*blindCount), t)
	case BlindUp:
		return sweep(1-fract(v*blindCount), t)
	case BoxOut:
		return sweep(math.Max(math.Abs(u-0.5), math.Abs(v-0.5))*2, t)
	case BoxIn:
		return sweep(1-math.Max(math.Abs(u-0.5), math.Abs(v-0.5))*2, t)
	case RandomSquares:
		return sweep(cellNoise(math.Floor(u*squareCount), math.Floor(v*squareCount)), t)
	case Angular:
		a := math.Atan2(v-0.5, u-0.5)/(2*math.Pi) + 0.5
		return sweep(clamp01(a), t)
	default:
		return t
	}
}

// sweep reveals positions with small x first. The edge is widened so the
// whole [0,1] range is covered exactly at t=0 and t=1.
func sweep(x, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	p := t * (1 + edge)
	return 1 - smoothstep(p-edge, p, x)
}

func smoothstep(e0, e1, x float64) float64 {
	k := clamp01((x - e0) / (e1 - e0))
	return k * k * (3 - 2*k)
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

func fract(x float64) float64 {
	return x - math.Floor(x)
}

// cellNoise is the usual shader hash; the result is in [0,1).
func cellNoise(x, y float64) float64 {
	return fract(math.Sin(x*12.9898+y*78.233) * 43758.5453)
}
