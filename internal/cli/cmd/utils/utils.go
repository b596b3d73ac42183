package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow"
	"github.com/tidwall/pretty"
)

func PrintJSONColored(data any) {
	j, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Errorf("Error marshalling JSON: %v", err)
		return
	}

	jPretty := pretty.Color(j, nil)
	log.Info(string(jPretty))
}

// ConfigPath is where InstallDefaultConfig writes the config file.
func ConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "sldshow", "sldshow.toml")
}

func InstallDefaultConfig() {
	if err := WriteDefaultConfig(ConfigPath()); err != nil {
		log.Fatal(err)
	}
}

// WriteDefaultConfig writes the embedded default config to path unless a
// file already exists there.
func WriteDefaultConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		log.Warnf("Config file already exists at %v", configPath)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(sldshow.DefaultConfig), 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	log.Infof("Installed default config file at %v", configPath)
	return nil
}
