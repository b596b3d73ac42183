package transition

import (
	"image"
	"image/color"
)

// RGBA is a color with float channels in [0,1].
type RGBA [4]float64

func fromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	return RGBA{float64(r) / 0xffff, float64(g) / 0xffff, float64(b) / 0xffff, float64(a) / 0xffff}
}

func (c RGBA) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c[0])*255 + 0.5),
		G: uint8(clamp01(c[1])*255 + 0.5),
		B: uint8(clamp01(c[2])*255 + 0.5),
		A: uint8(clamp01(c[3])*255 + 0.5),
	}
}

// Blend is the pure transition function: the color at screen uv for
// progress t when a is outgoing and b incoming.
func Blend(m Mode, a, b RGBA, t, u, v float64) RGBA {
	k := Mask(m, t, u, v)
	if k == 0 {
		return a
	}
	if k == 1 {
		return b
	}
	var out RGBA
	for i := range out {
		out[i] = a[i]*(1-k) + b[i]*k
	}
	return out
}

// Frame describes one composited frame.
type Frame struct {
	Mode       Mode
	T          float64
	ScaleX     float64
	ScaleY     float64
	Background color.Color
}

// Sample reads img at screen uv after applying the window scale. Points that
// fall outside the image return bg instead of a clamped texel.
func Sample(img image.Image, u, v, scaleX, scaleY float64, bg RGBA) RGBA {
	tu := (u-0.5)*scaleX + 0.5
	tv := (v-0.5)*scaleY + 0.5
	if tu < 0 || tu > 1 || tv < 0 || tv > 1 {
		return bg
	}

	b := img.Bounds()
	x := b.Min.X + int(tu*float64(b.Dx()))
	y := b.Min.Y + int(tv*float64(b.Dy()))
	if x >= b.Max.X {
		x = b.Max.X - 1
	}
	if y >= b.Max.Y {
		y = b.Max.Y - 1
	}
	return fromColor(img.At(x, y))
}

// Composite renders the frame the shader would draw for a window of size
// w x h, using nearest sampling.
func Composite(from, to image.Image, w, h int, f Frame) *image.RGBA {
	bg := RGBA{0, 0, 0, 1}
	if f.Background != nil {
		bg = fromColor(f.Background)
	}
	scaleX, scaleY := f.ScaleX, f.ScaleY
	if scaleX == 0 {
		scaleX = 1
	}
	if scaleY == 0 {
		scaleY = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		v := (float64(y) + 0.5) / float64(h)
		for x := 0; x < w; x++ {
			u := (float64(x) + 0.5) / float64(w)
			a := Sample(from, u, v, scaleX, scaleY, bg)
			b := Sample(to, u, v, scaleX, scaleY, bg)
			out.SetRGBA(x, y, Blend(f.Mode, a, b, f.T, u, v).toRGBA())
		}
	}
	return out
}
