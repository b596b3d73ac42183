package glrender

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/matjam/sldshow/internal/input"
)

var keys = map[glfw.Key]input.Key{
	glfw.KeyRight:        input.KeyRight,
	glfw.KeyLeft:         input.KeyLeft,
	glfw.KeyUp:           input.KeyUp,
	glfw.KeyDown:         input.KeyDown,
	glfw.KeyPageDown:     input.KeyPageDown,
	glfw.KeyPageUp:       input.KeyPageUp,
	glfw.KeyPeriod:       input.KeyPeriod,
	glfw.KeyComma:        input.KeyComma,
	glfw.KeyEnter:        input.KeyEnter,
	glfw.KeyKPEnter:      input.KeyEnter,
	glfw.KeyHome:         input.KeyHome,
	glfw.KeyEnd:          input.KeyEnd,
	glfw.KeySpace:        input.KeySpace,
	glfw.KeyPause:        input.KeyPause,
	glfw.KeyBackspace:    input.KeyBackspace,
	glfw.KeyLeftBracket:  input.KeyLeftBracket,
	glfw.KeyRightBracket: input.KeyRightBracket,
	glfw.KeyEscape:       input.KeyEscape,
	glfw.KeyF11:          input.KeyF11,
	glfw.Key0:            input.Key0,
	glfw.Key1:            input.Key1,
	glfw.Key2:            input.Key2,
	glfw.KeyD:            input.KeyD,
	glfw.KeyF:            input.KeyF,
	glfw.KeyL:            input.KeyL,
	glfw.KeyM:            input.KeyM,
	glfw.KeyP:            input.KeyP,
	glfw.KeyQ:            input.KeyQ,
	glfw.KeyR:            input.KeyR,
	glfw.KeyT:            input.KeyT,
}

var buttons = map[glfw.MouseButton]input.Button{
	glfw.MouseButtonLeft:   input.ButtonLeft,
	glfw.MouseButtonRight:  input.ButtonRight,
	glfw.MouseButtonMiddle: input.ButtonMiddle,
}

func mods(m glfw.ModifierKey) input.Mods {
	var out input.Mods
	if m&glfw.ModShift != 0 {
		out |= input.ModShift
	}
	if m&glfw.ModAlt != 0 {
		out |= input.ModAlt
	}
	if m&glfw.ModControl != 0 {
		out |= input.ModControl
	}
	return out
}

func (r *Renderer) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, m glfw.ModifierKey) {
	k, ok := keys[key]
	if !ok || action == glfw.Release {
		return
	}
	r.apply(input.KeyPress(k, mods(m), action == glfw.Repeat))
}

func (r *Renderer) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, m glfw.ModifierKey) {
	b, ok := buttons[button]
	if !ok {
		return
	}
	if action == glfw.Press {
		r.apply(r.mouse.Press(b, time.Now()))
		return
	}
	r.apply(r.mouse.Release(b, mods(m)))
}

func (r *Renderer) onScroll(_ *glfw.Window, _, dy float64) {
	mod := input.Mods(0)
	if r.win.GetKey(glfw.KeyLeftShift) == glfw.Press || r.win.GetKey(glfw.KeyRightShift) == glfw.Press {
		mod = input.ModShift
	}
	r.apply(input.Scroll(dy, mod))
}

func (r *Renderer) onDrop(_ *glfw.Window, names []string) {
	log.Infof("Dropped %d paths", len(names))
	r.apply(input.Drop(names))
}

func (r *Renderer) onCursorPos(_ *glfw.Window, _, _ float64) {
	if r.cursor.Moved(time.Now()) {
		r.win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

// apply runs a window op right away and hands commands to the player.
func (r *Renderer) apply(a input.Action, ok bool) {
	if !ok {
		return
	}
	if a.Window != input.NoWindowOp {
		r.windowOp(a.Window)
		return
	}
	select {
	case r.commands <- a.Command:
	default:
		log.Warnf("Dropping %s, the player is busy", a.Command.Type)
	}
}

func (r *Renderer) windowOp(op input.WindowOp) {
	switch op {
	case input.ToggleFullscreen:
		r.ToggleFullscreen()
	case input.ToggleAlwaysOnTop:
		on := r.win.GetAttrib(glfw.Floating) != glfw.True
		r.win.SetAttrib(glfw.Floating, glfwBool(on))
		log.Infof("Always on top: %v", on)
	case input.ToggleTitlebar:
		on := r.win.GetAttrib(glfw.Decorated) != glfw.True
		w, h := r.win.GetSize()
		r.win.SetAttrib(glfw.Decorated, glfwBool(on))
		r.win.SetSize(w, h)
		log.Infof("Titlebar: %v", on)
	case input.Minimize:
		r.win.Iconify()
	case input.ScaleHalf, input.ScaleOriginal, input.ScaleDouble:
		if r.fullscreen {
			r.ToggleFullscreen()
		}
		s := op.Scale()
		r.win.SetSize(int(float64(r.base.X)*s), int(float64(r.base.Y)*s))
		log.Infof("Window scale: %.1f", s)
	}
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
