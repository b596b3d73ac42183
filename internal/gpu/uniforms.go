package gpu

import "image/color"

// Uniforms is the only state handed to the transition shader each frame.
// Field order matches the shader's uniform declarations.
type Uniforms struct {
	Blend        float32
	Flip         float32 // 0 or 1
	Mode         int32   // 0..21
	WindowScaleX float32
	WindowScaleY float32
	BG           [4]float32
}

// Color converts an 8-bit RGBA color into shader floats.
func Color(c color.NRGBA) [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

// WindowScale returns the factors that map screen uv onto texture uv so the
// texture keeps its aspect ratio inside a window of the given size. Values
// above 1 leave bars on that axis.
func WindowScale(winW, winH int, tex *Texture) (float32, float32) {
	if tex == nil || tex.Stretch || winW <= 0 || winH <= 0 || tex.Width <= 0 || tex.Height <= 0 {
		return 1, 1
	}

	widthScale := float32(winW) / float32(tex.Width)
	heightScale := float32(winH) / float32(tex.Height)
	ratio := widthScale / heightScale

	switch {
	case ratio > 1:
		return ratio, 1
	case ratio < 1:
		return 1, 1 / ratio
	default:
		return 1, 1
	}
}
