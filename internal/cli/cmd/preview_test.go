package cmd

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matjam/sldshow/internal/config"
	"github.com/matjam/sldshow/internal/transition"
	"github.com/spf13/viper"
)

func solidPNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Load(v)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	red := filepath.Join(dir, "red.png")
	blue := filepath.Join(dir, "blue.png")
	solidPNG(t, red, color.NRGBA{255, 0, 0, 255})
	solidPNG(t, blue, color.NRGBA{0, 0, 255, 255})

	tests := []struct {
		progress float64
		want     color.RGBA
	}{
		{0, color.RGBA{255, 0, 0, 255}},
		{1, color.RGBA{0, 0, 255, 255}},
	}
	for _, tt := range tests {
		out := filepath.Join(dir, "out.png")
		err := Preview(defaultConfig(t), PreviewOptions{
			From: red, To: blue, Out: out,
			Mode: transition.Crossfade, Progress: tt.progress,
			Width: 8, Height: 8,
		})
		if err != nil {
			t.Fatalf("Preview(%v) = %v", tt.progress, err)
		}
		img := readPNG(t, out)
		if got := img.Bounds().Size(); got != image.Pt(8, 8) {
			t.Errorf("size = %v, want 8x8", got)
		}
		if got := color.RGBAModel.Convert(img.At(4, 4)); got != tt.want {
			t.Errorf("progress %v: center = %v, want %v", tt.progress, got, tt.want)
		}
	}
}

func TestPreviewErrors(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	solidPNG(t, img, color.NRGBA{0, 255, 0, 255})

	tests := []struct {
		name string
		opts PreviewOptions
	}{
		{"progress above 1", PreviewOptions{From: img, To: img, Progress: 1.5, Width: 4, Height: 4}},
		{"missing image", PreviewOptions{From: img, To: filepath.Join(dir, "nope.png"), Progress: 0.5, Width: 4, Height: 4}},
	}
	for _, tt := range tests {
		tt.opts.Out = filepath.Join(dir, "out.png")
		if err := Preview(defaultConfig(t), tt.opts); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestModesListsEveryMode(t *testing.T) {
	cmd := NewModesCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, name := range transition.Names() {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("modes output is missing %q", name)
		}
	}
}
