// Package config is the typed view of the viper settings.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"runtime"
	"time"

	"github.com/matjam/sldshow/internal/transition"
	"github.com/matjam/sldshow/internal/types"
	"github.com/spf13/viper"
)

type Config struct {
	Debug      bool       `mapstructure:"debug" json:"debug"`
	Viewer     Viewer     `mapstructure:"viewer" json:"viewer"`
	Transition Transition `mapstructure:"transition" json:"transition"`
	Window     Window     `mapstructure:"window" json:"window"`
	Style      Style      `mapstructure:"style" json:"style"`
}

type Viewer struct {
	ImagePaths      []string `mapstructure:"image_paths" json:"image_paths"`
	Timer           float64  `mapstructure:"timer" json:"timer"`
	ScanSubfolders  bool     `mapstructure:"scan_subfolders" json:"scan_subfolders"`
	Shuffle         bool     `mapstructure:"shuffle" json:"shuffle"`
	PauseAtLast     bool     `mapstructure:"pause_at_last" json:"pause_at_last"`
	ResizeFilter    string   `mapstructure:"resize_filter" json:"resize_filter"`
	CacheExtent     int      `mapstructure:"cache_extent" json:"cache_extent"`
	Watch           bool     `mapstructure:"watch" json:"watch"`
	DecodeWorkers   int      `mapstructure:"decode_workers" json:"decode_workers"`
	UploadsPerFrame int      `mapstructure:"uploads_per_frame" json:"uploads_per_frame"`
}

type Transition struct {
	Time   float64 `mapstructure:"time" json:"time"`
	FPS    float64 `mapstructure:"fps" json:"fps"`
	Random bool    `mapstructure:"random" json:"random"`
	Mode   string  `mapstructure:"mode" json:"mode"`
	Easing string  `mapstructure:"easing" json:"easing"`
}

type Window struct {
	Width          int    `mapstructure:"width" json:"width"`
	Height         int    `mapstructure:"height" json:"height"`
	Fullscreen     bool   `mapstructure:"fullscreen" json:"fullscreen"`
	ScaleMode      string `mapstructure:"scale_mode" json:"scale_mode"`
	AlwaysOnTop    bool   `mapstructure:"always_on_top" json:"always_on_top"`
	Titlebar       bool   `mapstructure:"titlebar" json:"titlebar"`
	Resizable      bool   `mapstructure:"resizable" json:"resizable"`
	MonitorIndex   int    `mapstructure:"monitor_index" json:"monitor_index"`
	CursorAutoHide bool   `mapstructure:"cursor_auto_hide" json:"cursor_auto_hide"`
}

const (
	MaxFPS         = 1000
	MaxCacheExtent = 64
)

type Style struct {
	BGColor          []int `mapstructure:"bg_color" json:"bg_color"`
	PlaceholderColor []int `mapstructure:"placeholder_color" json:"placeholder_color"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("viewer.image_paths", []string{"~/Pictures"})
	v.SetDefault("viewer.timer", 10.0)
	v.SetDefault("viewer.scan_subfolders", false)
	v.SetDefault("viewer.shuffle", false)
	v.SetDefault("viewer.pause_at_last", false)
	v.SetDefault("viewer.resize_filter", string(types.FilterLinear))
	v.SetDefault("viewer.cache_extent", 3)
	v.SetDefault("viewer.watch", false)
	v.SetDefault("viewer.decode_workers", 0)
	v.SetDefault("viewer.uploads_per_frame", 2)

	v.SetDefault("transition.time", 0.5)
	v.SetDefault("transition.fps", 30.0)
	v.SetDefault("transition.random", false)
	v.SetDefault("transition.mode", transition.Crossfade.String())
	v.SetDefault("transition.easing", string(types.EasingLinear))

	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.fullscreen", false)
	v.SetDefault("window.scale_mode", string(types.ScalingModeCenter))
	v.SetDefault("window.always_on_top", false)
	v.SetDefault("window.titlebar", true)
	v.SetDefault("window.resizable", true)
	v.SetDefault("window.monitor_index", 0)
	v.SetDefault("window.cursor_auto_hide", false)

	v.SetDefault("style.bg_color", []int{0, 0, 0, 255})
	v.SetDefault("style.placeholder_color", []int{})
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Viewer.Timer < 0 {
		errs = append(errs, fmt.Errorf("viewer.timer must not be negative, got %v", c.Viewer.Timer))
	}
	if _, err := types.ParseResizeFilter(c.Viewer.ResizeFilter); err != nil {
		errs = append(errs, fmt.Errorf("viewer.resize_filter: %w", err))
	}
	if c.Viewer.CacheExtent < 0 || c.Viewer.CacheExtent > MaxCacheExtent {
		errs = append(errs, fmt.Errorf("viewer.cache_extent must be between 0 and %d, got %d", MaxCacheExtent, c.Viewer.CacheExtent))
	}
	if c.Viewer.DecodeWorkers < 0 {
		errs = append(errs, fmt.Errorf("viewer.decode_workers must not be negative, got %d", c.Viewer.DecodeWorkers))
	}
	if c.Viewer.UploadsPerFrame < 0 {
		errs = append(errs, fmt.Errorf("viewer.uploads_per_frame must not be negative, got %d", c.Viewer.UploadsPerFrame))
	}

	if c.Transition.Time < 0 {
		errs = append(errs, fmt.Errorf("transition.time must not be negative, got %v", c.Transition.Time))
	}
	if c.Transition.FPS <= 0 || c.Transition.FPS > MaxFPS {
		errs = append(errs, fmt.Errorf("transition.fps must be above 0 and at most %d, got %v", MaxFPS, c.Transition.FPS))
	}
	if _, err := transition.ParseMode(c.Transition.Mode); err != nil {
		errs = append(errs, fmt.Errorf("transition.mode: %w", err))
	}
	if !types.EasingMode(c.Transition.Easing).Valid() {
		errs = append(errs, fmt.Errorf("transition.easing: unknown easing %q", c.Transition.Easing))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.MonitorIndex < 0 {
		errs = append(errs, fmt.Errorf("window.monitor_index must not be negative, got %d", c.Window.MonitorIndex))
	}
	if !types.ScalingMode(c.Window.ScaleMode).Valid() {
		errs = append(errs, fmt.Errorf("window.scale_mode: unknown mode %q", c.Window.ScaleMode))
	}

	if _, err := parseColor(c.Style.BGColor); err != nil {
		errs = append(errs, fmt.Errorf("style.bg_color: %w", err))
	}
	if len(c.Style.PlaceholderColor) > 0 {
		if _, err := parseColor(c.Style.PlaceholderColor); err != nil {
			errs = append(errs, fmt.Errorf("style.placeholder_color: %w", err))
		}
	}

	return errors.Join(errs...)
}

func parseColor(c []int) (color.NRGBA, error) {
	if len(c) != 3 && len(c) != 4 {
		return color.NRGBA{}, fmt.Errorf("want [r, g, b] or [r, g, b, a], got %v", c)
	}
	for _, v := range c {
		if v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("component %d out of range 0-255", v)
		}
	}
	out := color.NRGBA{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2]), A: 255}
	if len(c) == 4 {
		out.A = uint8(c[3])
	}
	return out, nil
}

func (c *Config) Background() color.NRGBA {
	bg, _ := parseColor(c.Style.BGColor)
	return bg
}

// Placeholder is the color shown for images that failed to load. It defaults
// to the background.
func (c *Config) Placeholder() color.NRGBA {
	if p, err := parseColor(c.Style.PlaceholderColor); err == nil {
		return p
	}
	return c.Background()
}

func (c *Config) Filter() types.ResizeFilter {
	f, err := types.ParseResizeFilter(c.Viewer.ResizeFilter)
	if err != nil {
		return types.FilterLinear
	}
	return f
}

func (c *Config) Scaling() types.ScalingMode {
	return types.ScalingMode(c.Window.ScaleMode)
}

func (c *Config) Easing() types.EasingMode {
	return types.EasingMode(c.Transition.Easing)
}

func (c *Config) Mode() transition.Mode {
	m, _ := transition.ParseMode(c.Transition.Mode)
	return m
}

func (c *Config) Timer() time.Duration {
	return seconds(c.Viewer.Timer)
}

func (c *Config) TransitionTime() time.Duration {
	return seconds(c.Transition.Time)
}

// FrameInterval is the time between frames at the configured fps.
func (c *Config) FrameInterval() time.Duration {
	if c.Transition.FPS <= 0 {
		return time.Second / 30
	}
	return max(seconds(1/c.Transition.FPS), time.Second/MaxFPS)
}

// Workers is the decode pool size.
func (c *Config) Workers() int {
	if c.Viewer.DecodeWorkers > 0 {
		return c.Viewer.DecodeWorkers
	}
	return max(1, runtime.NumCPU()/2)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
