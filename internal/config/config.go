// Package config loads and persists moplots settings from YAML.
//
// Lookup order follows the usual CLI convention: a local .moplots.yaml wins,
// then <user config dir>/moplots/config.yaml. The selected color theme is
// written back to the user config file so it sticks across runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultTheme  = "dracula"
	DefaultGrid   = 80
	DefaultFormat = "BINARY"

	localFile = ".moplots.yaml"
	configDir = "moplots"
	userFile  = "config.yaml"
)

// App holds the persisted application configuration.
type App struct {
	Theme  string `yaml:"theme"`
	Grid   int    `yaml:"grid"`
	Format string `yaml:"format"`
	Debug  bool   `yaml:"debug"`
}

func defaults() *App {
	return &App{Theme: DefaultTheme, Grid: DefaultGrid, Format: DefaultFormat}
}

// Load reads configuration, falling back to defaults on any problem. A
// malformed file is reported to stderr but never fatal: moplots still runs.
func Load() *App {
	cfg := defaults()

	path := findPath()
	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "moplots: warning: reading config %s: %v\n", path, err)
		}
		return cfg
	}

	var loaded App
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		fmt.Fprintf(os.Stderr, "moplots: warning: parsing config %s: %v\n", path, err)
		return cfg
	}

	if loaded.Theme != "" {
		cfg.Theme = loaded.Theme
	}
	if loaded.Grid > 0 {
		cfg.Grid = loaded.Grid
	}
	if loaded.Format != "" {
		cfg.Format = loaded.Format
	}
	cfg.Debug = loaded.Debug
	if os.Getenv("MOPLOTS_DEBUG") != "" {
		cfg.Debug = true
	}
	return cfg
}

// SaveTheme persists the active theme name to the user config file, creating
// the directory on first use.
func SaveTheme(theme string) error {
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return fmt.Errorf("no user config directory: %v", err)
	}

	dir := filepath.Join(configHome, configDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(dir, userFile)

	// Keep other persisted fields intact when the file already exists.
	cfg := defaults()
	if data, err := os.ReadFile(path); err == nil {
		_ = yaml.Unmarshal(data, cfg)
	}
	cfg.Theme = theme

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// findPath returns the first config file that exists, or "".
func findPath() string {
	if _, err := os.Stat(localFile); err == nil {
		return localFile
	}

	configHome, err := os.UserConfigDir()
	if err == nil && configHome != "" && configHome != "/" {
		path := filepath.Join(configHome, configDir, userFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
