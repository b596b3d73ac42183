package types

import "fmt"

type ScalingMode string

const (
	ScalingModeCenter        ScalingMode = "center"
	ScalingModeStretch       ScalingMode = "stretched"
	ScalingModeFitHorizontal ScalingMode = "horizontal"
	ScalingModeFitVertical   ScalingMode = "vertical"
)

func (m ScalingMode) Valid() bool {
	switch m {
	case ScalingModeCenter, ScalingModeStretch, ScalingModeFitHorizontal, ScalingModeFitVertical:
		return true
	}
	return false
}

type EasingMode string

const (
	EasingLinear    EasingMode = "linear"
	EasingEaseIn    EasingMode = "ease-in"
	EasingEaseOut   EasingMode = "ease-out"
	EasingEaseInOut EasingMode = "ease-in-out"
)

func (m EasingMode) Valid() bool {
	switch m {
	case EasingLinear, EasingEaseIn, EasingEaseOut, EasingEaseInOut:
		return true
	}
	return false
}

// Apply maps linear progress t in [0,1] through the easing curve.
func (m EasingMode) Apply(t float32) float32 {
	switch m {
	case EasingEaseIn:
		return t * t
	case EasingEaseOut:
		return t * (2 - t)
	case EasingEaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	default:
		return t
	}
}

// ResizeFilter selects the kernel used when scaling decoded images.
type ResizeFilter string

const (
	FilterNearest  ResizeFilter = "nearest"
	FilterLinear   ResizeFilter = "linear"
	FilterCubic    ResizeFilter = "cubic"
	FilterGaussian ResizeFilter = "gaussian"
	FilterLanczos3 ResizeFilter = "lanczos3"
)

func ParseResizeFilter(s string) (ResizeFilter, error) {
	f := ResizeFilter(s)
	switch f {
	case FilterNearest, FilterLinear, FilterCubic, FilterGaussian, FilterLanczos3:
		return f, nil
	}
	return "", fmt.Errorf("unknown resize filter %q", s)
}
