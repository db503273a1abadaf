package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const fileName = "holocard.yaml"

// Load loads configuration with priority: defaults < file < flags, then validates it.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		filepath.Join(".", fileName),
		filepath.Join(ConfigDir(), fileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Holocard")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Holocard")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "holocard")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "holocard")
	}
}

// loadFromFile merges a YAML file over the existing values.
// Relative asset dirs are resolved against the file's directory.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}

	var overlay struct {
		Assets struct {
			Dirs []string `yaml:"dirs"`
		} `yaml:"assets"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return err
	}

	if len(overlay.Assets.Dirs) > 0 {
		base := filepath.Dir(path)
		for i, dir := range cfg.Assets.Dirs {
			if !filepath.IsAbs(dir) {
				cfg.Assets.Dirs[i] = filepath.Join(base, dir)
			}
		}
	}
	return nil
}
