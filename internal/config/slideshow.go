package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// SlideshowExt marks a TOML config file that describes one slideshow. Given
// as the first argument it replaces the user config.
const SlideshowExt = ".sldshow"

// IsSlideshowFile reports whether path is an existing slideshow file.
func IsSlideshowFile(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), SlideshowExt) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ResolveImagePaths makes relative image paths relative to base, the folder
// holding the slideshow file. Absolute and home relative paths are kept.
func ResolveImagePaths(paths []string, base string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		switch {
		case p == "", p == "~", strings.HasPrefix(p, "~/"), filepath.IsAbs(p):
			out[i] = p
		default:
			out[i] = filepath.Join(base, p)
		}
	}
	return out
}

// ReadSlideshowFile makes the slideshow file at path the config file of v.
// Image paths it sets are resolved against its folder.
func ReadSlideshowFile(v *viper.Viper, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	v.SetConfigFile(abs)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading slideshow file %s: %w", path, err)
	}
	if v.InConfig("viewer.image_paths") {
		v.Set("viewer.image_paths", ResolveImagePaths(v.GetStringSlice("viewer.image_paths"), filepath.Dir(abs)))
	}
	return nil
}
