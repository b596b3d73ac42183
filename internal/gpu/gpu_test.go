package gpu

import (
	"image/color"
	"testing"
)

func TestTextureRefcount(t *testing.T) {
	var destroyed []uint32
	tex := NewTexture(7, 4, 2, func(id uint32) { destroyed = append(destroyed, id) })

	tex.Retain()
	tex.Release()
	if len(destroyed) != 0 {
		t.Fatalf("destroyed after first release: %v", destroyed)
	}
	if !tex.Live() {
		t.Error("texture should still be live")
	}

	tex.Release()
	if len(destroyed) != 1 || destroyed[0] != 7 {
		t.Errorf("destroyed = %v, want [7]", destroyed)
	}
	if tex.Live() {
		t.Error("texture should not be live")
	}
}

func TestTextureOverReleasePanics(t *testing.T) {
	tex := NewTexture(1, 1, 1, nil)
	tex.Release()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on second release")
		}
	}()
	tex.Release()
}

func TestNilTextureRelease(t *testing.T) {
	var tex *Texture
	tex.Release()
	if tex.Retain() != nil {
		t.Error("Retain on nil should return nil")
	}
}

func TestWindowScale(t *testing.T) {
	tex := NewTexture(1, 1280, 720, nil)

	tests := []struct {
		name         string
		w, h         int
		wantX, wantY float32
	}{
		{"same size", 1280, 720, 1, 1},
		{"same aspect", 1920, 1080, 1, 1},
		{"wider window", 2560, 720, 2, 1},
		{"taller window", 1280, 1440, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := WindowScale(tt.w, tt.h, tex)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("WindowScale = (%v, %v), want (%v, %v)", x, y, tt.wantX, tt.wantY)
			}
		})
	}

	stretched := NewTexture(2, 2, 2, nil)
	stretched.Stretch = true
	if x, y := WindowScale(2560, 720, stretched); x != 1 || y != 1 {
		t.Errorf("stretched WindowScale = (%v, %v), want (1, 1)", x, y)
	}
}

func TestColor(t *testing.T) {
	got := Color(color.NRGBA{R: 255, G: 0, B: 51, A: 255})
	want := [4]float32{1, 0, 0.2, 1}
	if got != want {
		t.Errorf("Color = %v, want %v", got, want)
	}
}
