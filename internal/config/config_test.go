package config

import (
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/matjam/sldshow"
	"github.com/matjam/sldshow/internal/transition"
	"github.com/matjam/sldshow/internal/types"
	"github.com/spf13/viper"
)

func load(t *testing.T, toml string) (*Config, error) {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(toml)); err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	return Load(v)
}

func TestDefaults(t *testing.T) {
	cfg, err := load(t, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.Timer(); got != 10*time.Second {
		t.Errorf("Timer = %v, want 10s", got)
	}
	if got := cfg.TransitionTime(); got != 500*time.Millisecond {
		t.Errorf("TransitionTime = %v, want 500ms", got)
	}
	if cfg.Viewer.CacheExtent != 3 {
		t.Errorf("CacheExtent = %d, want 3", cfg.Viewer.CacheExtent)
	}
	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("window = %dx%d, want 1280x720", cfg.Window.Width, cfg.Window.Height)
	}
	if got := cfg.FrameInterval(); got != time.Second/30 {
		t.Errorf("FrameInterval = %v", got)
	}
	if cfg.Mode() != transition.Crossfade || cfg.Filter() != types.FilterLinear || cfg.Scaling() != types.ScalingModeCenter {
		t.Errorf("mode/filter/scaling = %v/%v/%v", cfg.Mode(), cfg.Filter(), cfg.Scaling())
	}
	if got := cfg.Placeholder(); got != (color.NRGBA{A: 255}) {
		t.Errorf("Placeholder = %v, want the background", got)
	}
	if !cfg.Window.Titlebar || !cfg.Window.Resizable || cfg.Window.AlwaysOnTop || cfg.Window.CursorAutoHide {
		t.Errorf("window flags = %+v", cfg.Window)
	}
}

func TestFrameIntervalNeverZero(t *testing.T) {
	cfg := Config{Transition: Transition{FPS: 1e12}}
	if got := cfg.FrameInterval(); got <= 0 {
		t.Errorf("FrameInterval = %v, want positive", got)
	}
	cfg.Transition.FPS = MaxFPS
	if got := cfg.FrameInterval(); got != time.Millisecond {
		t.Errorf("FrameInterval at max fps = %v, want 1ms", got)
	}
}

func TestEmbeddedDefaultConfigIsValid(t *testing.T) {
	if _, err := load(t, sldshow.DefaultConfig); err != nil {
		t.Errorf("default config: %v", err)
	}
}

func TestOverrides(t *testing.T) {
	cfg, err := load(t, `
[viewer]
image_paths = ["/a", "/b"]
timer = 2.5
resize_filter = "lanczos3"

[transition]
mode = "box-in"
easing = "ease-in-out"

[style]
bg_color = [10, 20, 30]
placeholder_color = [255, 0, 0, 128]
`)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Viewer.ImagePaths) != 2 {
		t.Errorf("ImagePaths = %v", cfg.Viewer.ImagePaths)
	}
	if got := cfg.Timer(); got != 2500*time.Millisecond {
		t.Errorf("Timer = %v", got)
	}
	if cfg.Mode() != transition.BoxIn {
		t.Errorf("Mode = %v, want box-in", cfg.Mode())
	}
	if got := cfg.Background(); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("Background = %v", got)
	}
	if got := cfg.Placeholder(); got != (color.NRGBA{R: 255, A: 128}) {
		t.Errorf("Placeholder = %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{"negative timer", "[viewer]\ntimer = -1", "viewer.timer"},
		{"bad filter", "[viewer]\nresize_filter = \"blurry\"", "viewer.resize_filter"},
		{"bad mode", "[transition]\nmode = \"spiral\"", "transition.mode"},
		{"bad easing", "[transition]\neasing = \"bounce\"", "transition.easing"},
		{"zero fps", "[transition]\nfps = 0", "transition.fps"},
		{"huge fps", "[transition]\nfps = 1e12", "transition.fps"},
		{"huge cache extent", "[viewer]\ncache_extent = 1000000000", "viewer.cache_extent"},
		{"negative monitor", "[window]\nmonitor_index = -1", "window.monitor_index"},
		{"bad scale", "[window]\nscale_mode = \"zoom\"", "window.scale_mode"},
		{"short color", "[style]\nbg_color = [1, 2]", "style.bg_color"},
		{"color range", "[style]\nplaceholder_color = [1, 2, 300]", "style.placeholder_color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.toml)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}
