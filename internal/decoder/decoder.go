// Package decoder turns image files into window-sized RGBA buffers ready for
// upload. It is safe for concurrent use.
package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"os"
	"time"

	// register image formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow/internal/types"
)

type Kind int

const (
	KindNotFound Kind = iota
	KindUnsupportedFormat
	KindCorrupt
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindUnsupportedFormat:
		return "unsupported format"
	case KindCorrupt:
		return "corrupt"
	default:
		return "io"
	}
}

// DecodeError is returned for any per-image failure.
type DecodeError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder scales every image into the requested size with the configured
// scaling mode and pads it with the background color.
type Decoder struct {
	Scaling    types.ScalingMode
	Background color.NRGBA
}

// Decode reads path and returns an RGBA image of exactly size. A zero size
// keeps the image's own dimensions.
func (d *Decoder) Decode(path string, size image.Point, filter types.ResizeFilter) (*image.RGBA, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		kind := KindIO
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindNotFound
		}
		return nil, &DecodeError{Kind: kind, Path: path, Err: err}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		kind := KindCorrupt
		if errors.Is(err, image.ErrFormat) {
			kind = KindUnsupportedFormat
		}
		return nil, &DecodeError{Kind: kind, Path: path, Err: err}
	}
	decoded := time.Since(start)

	img = Orient(img, exifOrientation(data))

	if size.X <= 0 || size.Y <= 0 {
		size = img.Bounds().Size()
	}
	out := Scale(img, size.X, size.Y, d.Scaling, filter, d.Background)

	log.Debugf("%s (%s %vx%v) decode: %v, resize: %v", path, format,
		img.Bounds().Dx(), img.Bounds().Dy(), decoded, time.Since(start)-decoded)

	return out, nil
}
