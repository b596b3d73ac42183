// Package gpu holds the types that cross the CPU/GPU boundary: textures,
// the uploader that creates them and the per-frame uniform block.
package gpu

import (
	"errors"
	"fmt"
	"image"
)

// ErrUpload wraps failures to allocate or fill a GPU texture. There is no
// recovery path from it.
var ErrUpload = errors.New("gpu upload failed")

// Uploader turns decoded pixels into textures. Implementations must only be
// called from the thread owning the GPU context.
type Uploader interface {
	Upload(img *image.RGBA) (*Texture, error)
}

// Texture is a reference counted handle to a GPU texture. The underlying
// object is deleted when the last reference is released.
type Texture struct {
	ID      uint32
	Width   int
	Height  int
	Stretch bool // fill the window regardless of aspect ratio

	refs    int
	destroy func(id uint32)
}

// NewTexture returns a handle holding one reference.
func NewTexture(id uint32, width, height int, destroy func(id uint32)) *Texture {
	return &Texture{
		ID:      id,
		Width:   width,
		Height:  height,
		refs:    1,
		destroy: destroy,
	}
}

// Retain adds a reference and returns the texture for chaining.
func (t *Texture) Retain() *Texture {
	if t == nil {
		return nil
	}
	if t.refs <= 0 {
		panic(fmt.Sprintf("gpu: retain of released texture %d", t.ID))
	}
	t.refs++
	return t
}

// Release drops a reference. Releasing a nil texture is a no-op.
func (t *Texture) Release() {
	if t == nil {
		return
	}
	if t.refs <= 0 {
		panic(fmt.Sprintf("gpu: texture %d released too many times", t.ID))
	}
	t.refs--
	if t.refs == 0 && t.destroy != nil {
		t.destroy(t.ID)
	}
}

// Live reports whether the texture still has references.
func (t *Texture) Live() bool {
	return t != nil && t.refs > 0
}

// Refs returns the current reference count.
func (t *Texture) Refs() int {
	if t == nil {
		return 0
	}
	return t.refs
}

// Aspect returns width/height, or 1 for degenerate sizes.
func (t *Texture) Aspect() float32 {
	if t == nil || t.Width <= 0 || t.Height <= 0 {
		return 1
	}
	return float32(t.Width) / float32(t.Height)
}
