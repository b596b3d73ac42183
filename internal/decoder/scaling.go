package decoder

import (
	"image"
	"image/color"
	"math"

	"github.com/matjam/sldshow/internal/types"
	"golang.org/x/image/draw"
)

var (
	gaussian = &draw.Kernel{Support: 2, At: func(t float64) float64 {
		const sigma = 0.5
		return math.Exp(-t * t / (2 * sigma * sigma))
	}}

	lanczos3 = &draw.Kernel{Support: 3, At: func(t float64) float64 {
		if t == 0 {
			return 1
		}
		x := math.Pi * t
		return 3 * math.Sin(x) * math.Sin(x/3) / (x * x)
	}}
)

// Interpolator returns the scaler for a resize filter. Unknown filters use
// bilinear.
func Interpolator(f types.ResizeFilter) draw.Interpolator {
	switch f {
	case types.FilterNearest:
		return draw.NearestNeighbor
	case types.FilterCubic:
		return draw.CatmullRom
	case types.FilterGaussian:
		return gaussian
	case types.FilterLanczos3:
		return lanczos3
	default:
		return draw.BiLinear
	}
}

// Placement returns where an image of srcW x srcH lands inside a
// targetW x targetH canvas for the scaling mode. Results are centered.
func Placement(srcW, srcH, targetW, targetH int, mode types.ScalingMode) image.Rectangle {
	if srcW <= 0 || srcH <= 0 {
		return image.Rectangle{}
	}

	var w, h int
	switch mode {
	case types.ScalingModeStretch:
		w, h = targetW, targetH
	case types.ScalingModeFitHorizontal:
		w = targetW
		h = int(math.Round(float64(srcH) * float64(targetW) / float64(srcW)))
	case types.ScalingModeFitVertical:
		h = targetH
		w = int(math.Round(float64(srcW) * float64(targetH) / float64(srcH)))
	case types.ScalingModeCenter:
		fallthrough
	default:
		// fit inside without cropping
		scale := math.Min(float64(targetW)/float64(srcW), float64(targetH)/float64(srcH))
		w = int(math.Round(float64(srcW) * scale))
		h = int(math.Round(float64(srcH) * scale))
	}

	x := (targetW - w) / 2
	y := (targetH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// Scale draws img onto a targetW x targetH canvas filled with bg.
func Scale(img image.Image, targetW, targetH int, mode types.ScalingMode, filter types.ResizeFilter, bg color.NRGBA) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	dstRect := Placement(img.Bounds().Dx(), img.Bounds().Dy(), targetW, targetH, mode)
	if dstRect.Empty() {
		return dst
	}
	Interpolator(filter).Scale(dst, dstRect, img, img.Bounds(), draw.Over, nil)
	return dst
}
