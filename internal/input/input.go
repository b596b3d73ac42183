// Package input maps window keyboard, mouse and drop events onto slideshow
// actions. It knows nothing about the windowing library; the renderer
// translates its events into the types here.
package input

import (
	"time"

	"github.com/matjam/sldshow/internal/ipc"
)

type Key int

const (
	KeyUnknown Key = iota
	KeyRight
	KeyLeft
	KeyUp
	KeyDown
	KeyPageDown
	KeyPageUp
	KeyPeriod
	KeyComma
	KeyEnter
	KeyHome
	KeyEnd
	KeySpace
	KeyPause
	KeyBackspace
	KeyLeftBracket
	KeyRightBracket
	KeyEscape
	KeyF11
	Key0
	Key1
	Key2
	KeyD
	KeyF
	KeyL
	KeyM
	KeyP
	KeyQ
	KeyR
	KeyT
)

type Mods uint8

const (
	ModShift Mods = 1 << iota
	ModAlt
	ModControl
)

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// WindowOp is an action the renderer performs on its own window.
type WindowOp int

const (
	NoWindowOp WindowOp = iota
	ToggleFullscreen
	ToggleAlwaysOnTop
	ToggleTitlebar
	Minimize
	ScaleHalf
	ScaleOriginal
	ScaleDouble
)

// Scale is the window size factor for the Scale ops, relative to the
// configured window size, and 0 for every other op.
func (o WindowOp) Scale() float64 {
	switch o {
	case ScaleHalf:
		return 0.5
	case ScaleOriginal:
		return 1
	case ScaleDouble:
		return 2
	}
	return 0
}

// Action is either a player command or a window operation.
type Action struct {
	Command ipc.Command
	Window  WindowOp
}

// TimerStep is the amount in seconds the bracket keys change the timer by.
const TimerStep = "5"

func command(t ipc.CommandType, args ...string) (Action, bool) {
	return Action{Command: ipc.Command{Type: t, Args: args}}, true
}

func window(op WindowOp) (Action, bool) {
	return Action{Window: op}, true
}

// step moves one image, or ten with shift held.
func step(forward bool, mods Mods) (Action, bool) {
	switch {
	case forward && mods&ModShift != 0:
		return command(ipc.CommandNext10)
	case forward:
		return command(ipc.CommandNext)
	case mods&ModShift != 0:
		return command(ipc.CommandPrev10)
	}
	return command(ipc.CommandPrev)
}

// KeyPress maps a key press. Held keys repeat only image steps.
func KeyPress(k Key, mods Mods, repeat bool) (Action, bool) {
	switch k {
	case KeyRight, KeyDown, KeyPageDown, KeyPeriod, KeyEnter:
		if mods&ModAlt == 0 {
			return step(true, mods)
		}
	case KeyLeft, KeyUp, KeyPageUp, KeyComma:
		if mods&ModAlt == 0 {
			return step(false, mods)
		}
	}
	if repeat {
		return Action{}, false
	}

	if mods&ModAlt != 0 {
		switch k {
		case Key0:
			return window(ScaleHalf)
		case Key1:
			return window(ScaleOriginal)
		case Key2:
			return window(ScaleDouble)
		case KeyM, KeyDown:
			return window(Minimize)
		case KeyEnter:
			return window(ToggleFullscreen)
		}
		return Action{}, false
	}

	switch k {
	case KeyF, KeyF11:
		return window(ToggleFullscreen)
	case KeyT:
		return window(ToggleAlwaysOnTop)
	case KeyD:
		return window(ToggleTitlebar)
	case KeyHome:
		return command(ipc.CommandFirst)
	case KeyEnd:
		return command(ipc.CommandLast)
	case KeyR:
		return command(ipc.CommandRandom)
	case KeySpace, KeyP:
		return command(ipc.CommandTogglePause)
	case KeyPause:
		return command(ipc.CommandPause)
	case KeyL:
		return command(ipc.CommandPauseAtLast)
	case KeyBackspace:
		return command(ipc.CommandResetTimer)
	case KeyRightBracket:
		return command(ipc.CommandTimer, "+"+TimerStep)
	case KeyLeftBracket:
		return command(ipc.CommandTimer, "-"+TimerStep)
	case KeyQ, KeyEscape:
		return command(ipc.CommandStop)
	}
	return Action{}, false
}

// Scroll maps the vertical wheel offset. Up goes back.
func Scroll(dy float64, mods Mods) (Action, bool) {
	if dy == 0 {
		return Action{}, false
	}
	return step(dy < 0, mods)
}

// Drop replaces the playlist with the dropped files and folders.
func Drop(paths []string) (Action, bool) {
	if len(paths) == 0 {
		return Action{}, false
	}
	return command(ipc.CommandLoad, paths...)
}

// DefaultDoubleClick is the longest gap between two left presses that still
// counts as a double click.
const DefaultDoubleClick = 400 * time.Millisecond

// Mouse maps button events. A left click steps forward, a double click
// toggles fullscreen instead.
type Mouse struct {
	DoubleClick time.Duration

	lastLeft time.Time
	swallow  bool // the release ending a double click
}

func (m *Mouse) Press(b Button, now time.Time) (Action, bool) {
	if b != ButtonLeft {
		return Action{}, false
	}
	gap := m.DoubleClick
	if gap <= 0 {
		gap = DefaultDoubleClick
	}
	if !m.lastLeft.IsZero() && now.Sub(m.lastLeft) <= gap {
		m.lastLeft = time.Time{}
		m.swallow = true
		return window(ToggleFullscreen)
	}
	m.lastLeft = now
	return Action{}, false
}

func (m *Mouse) Release(b Button, mods Mods) (Action, bool) {
	switch b {
	case ButtonLeft:
		if m.swallow {
			m.swallow = false
			return Action{}, false
		}
		return step(true, mods)
	case ButtonRight:
		return step(false, mods)
	case ButtonMiddle:
		return command(ipc.CommandStop)
	}
	return Action{}, false
}

// DefaultCursorDelay is how long the pointer must rest before it is hidden.
const DefaultCursorDelay = 3 * time.Second

// CursorHider tracks pointer activity for hiding an idle cursor.
type CursorHider struct {
	Delay time.Duration

	lastMove time.Time
	hidden   bool
}

// Moved records pointer movement. It reports whether the cursor was hidden
// and must be shown again.
func (h *CursorHider) Moved(now time.Time) bool {
	h.lastMove = now
	if h.hidden {
		h.hidden = false
		return true
	}
	return false
}

// Idle reports whether the cursor should be hidden now. It returns true once
// per idle period.
func (h *CursorHider) Idle(now time.Time) bool {
	if h.hidden {
		return false
	}
	if h.lastMove.IsZero() {
		h.lastMove = now
	}
	delay := h.Delay
	if delay <= 0 {
		delay = DefaultCursorDelay
	}
	if now.Sub(h.lastMove) < delay {
		return false
	}
	h.hidden = true
	return true
}
