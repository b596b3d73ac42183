// Package glrender draws compositor frames with OpenGL 2.1 in a GLFW window
// and uploads decoded images as textures.
//
// Everything in this package must run on the goroutine that called New; it
// locks that goroutine to its OS thread.
package glrender

import (
	"fmt"
	"image"
	"image/color"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/matjam/sldshow/internal/gpu"
	"github.com/matjam/sldshow/internal/input"
	"github.com/matjam/sldshow/internal/ipc"
)

type Options struct {
	Width          int
	Height         int
	Fullscreen     bool
	Title          string
	AlwaysOnTop    bool
	Titlebar       bool
	Resizable      bool
	MonitorIndex   int
	CursorAutoHide bool
}

type Renderer struct {
	win      *glfw.Window
	program  uint32
	uniforms uniformLocations
	commands chan ipc.Command

	monitor    *glfw.Monitor
	base       image.Point // configured window size, the 1.0 scale
	fullscreen bool
	windowed   image.Rectangle // position and size to restore from fullscreen

	mouse    input.Mouse
	cursor   input.CursorHider
	autoHide bool
}

// New creates the window and compiles the transition shader.
func New(opts Options) (*Renderer, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init failed: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Resizable, glfwBool(opts.Resizable))
	glfw.WindowHint(glfw.Decorated, glfwBool(opts.Titlebar))
	glfw.WindowHint(glfw.Floating, glfwBool(opts.AlwaysOnTop))
	glfw.WindowHint(glfw.Visible, glfw.False)

	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.Title == "" {
		opts.Title = "sldshow"
	}

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window failed: %w", err)
	}
	monitor := pickMonitor(opts.MonitorIndex)
	if monitor != nil {
		mx, my := monitor.GetPos()
		mode := monitor.GetVideoMode()
		win.SetPos(mx+(mode.Width-opts.Width)/2, my+(mode.Height-opts.Height)/2)
	}
	win.Show()
	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("gl init failed: %w", err)
	}
	log.Debugf("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := compileProgram(vertexShaderSrc, fragmentShaderSrc)
	if err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, err
	}

	r := &Renderer{
		win:      win,
		program:  prog,
		uniforms: lookupUniforms(prog),
		commands: make(chan ipc.Command, 16),
		monitor:  monitor,
		base:     image.Pt(opts.Width, opts.Height),
		autoHide: opts.CursorAutoHide,
	}

	fbW, fbH := win.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gl.Viewport(0, 0, int32(w), int32(h))
	})
	win.SetKeyCallback(r.onKey)
	win.SetMouseButtonCallback(r.onMouseButton)
	win.SetScrollCallback(r.onScroll)
	win.SetDropCallback(r.onDrop)
	win.SetCursorPosCallback(r.onCursorPos)

	if opts.Fullscreen {
		r.ToggleFullscreen()
	}
	return r, nil
}

// Upload implements gpu.Uploader.
func (r *Renderer) Upload(img *image.RGBA) (*gpu.Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return nil, fmt.Errorf("glGenTextures returned no name")
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix[img.PixOffset(b.Min.X, b.Min.Y):]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return nil, fmt.Errorf("glTexImage2D %dx%d: error 0x%x", b.Dx(), b.Dy(), code)
	}

	return gpu.NewTexture(tex, b.Dx(), b.Dy(), deleteTexture), nil
}

// SolidTexture returns a 1x1 texture of c that fills the window.
func (r *Renderer) SolidTexture(c color.NRGBA) (*gpu.Texture, error) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, c)
	tex, err := r.Upload(img)
	if err != nil {
		return nil, err
	}
	tex.Stretch = true
	return tex, nil
}

func deleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

// Draw renders one frame. slots[0] is bound as texture A, slots[1] as B.
func (r *Renderer) Draw(slots [2]*gpu.Texture, u gpu.Uniforms) {
	gl.ClearColor(u.BG[0], u.BG[1], u.BG[2], u.BG[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)

	if slots[0] == nil || slots[1] == nil {
		r.win.SwapBuffers()
		return
	}

	gl.UseProgram(r.program)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, slots[0].ID)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, slots[1].ID)
	gl.ActiveTexture(gl.TEXTURE0)

	gl.Uniform1i(r.uniforms.texA, 0)
	gl.Uniform1i(r.uniforms.texB, 1)
	gl.Uniform1f(r.uniforms.blend, u.Blend)
	gl.Uniform1f(r.uniforms.flip, u.Flip)
	gl.Uniform1i(r.uniforms.mode, u.Mode)
	gl.Uniform2f(r.uniforms.windowScale, u.WindowScaleX, u.WindowScaleY)
	gl.Uniform4f(r.uniforms.bg, u.BG[0], u.BG[1], u.BG[2], u.BG[3])

	drawQuad()
	gl.UseProgram(0)

	r.win.SwapBuffers()
}

func drawQuad() {
	gl.Begin(gl.QUADS)
	gl.TexCoord2f(0, 1)
	gl.Vertex2f(-1, -1)
	gl.TexCoord2f(1, 1)
	gl.Vertex2f(1, -1)
	gl.TexCoord2f(1, 0)
	gl.Vertex2f(1, 1)
	gl.TexCoord2f(0, 0)
	gl.Vertex2f(-1, 1)
	gl.End()
}

// Size returns the framebuffer size in pixels.
func (r *Renderer) Size() (int, int) {
	return r.win.GetFramebufferSize()
}

func (r *Renderer) PollEvents() {
	glfw.PollEvents()
	if r.autoHide && r.cursor.Idle(time.Now()) {
		r.win.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	}
}

// Commands delivers key presses, clicks and drops translated into player
// commands.
func (r *Renderer) Commands() <-chan ipc.Command {
	return r.commands
}

func (r *Renderer) ShouldClose() bool {
	return r.win.ShouldClose()
}

func (r *Renderer) Close() {
	r.win.SetShouldClose(true)
}

func (r *Renderer) ToggleFullscreen() {
	if r.fullscreen {
		w := r.windowed
		r.win.SetMonitor(nil, w.Min.X, w.Min.Y, w.Dx(), w.Dy(), 0)
		r.fullscreen = false
		return
	}

	monitor := r.monitor
	if monitor == nil {
		log.Warn("No monitor available for fullscreen")
		return
	}
	x, y := r.win.GetPos()
	w, h := r.win.GetSize()
	r.windowed = image.Rect(x, y, x+w, y+h)

	mode := monitor.GetVideoMode()
	r.win.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
	r.fullscreen = true
}

// pickMonitor returns the monitor at index, or the primary monitor when
// there is no such monitor.
func pickMonitor(index int) *glfw.Monitor {
	monitors := glfw.GetMonitors()
	if index >= 0 && index < len(monitors) {
		return monitors[index]
	}
	if index != 0 {
		log.Warnf("Monitor %d not found, using the primary monitor", index)
	}
	return glfw.GetPrimaryMonitor()
}

// Cleanup destroys the window. Textures still referenced elsewhere must be
// released before.
func (r *Renderer) Cleanup() {
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
	if r.win != nil {
		r.win.Destroy()
		r.win = nil
	}
	glfw.Terminate()
}
