// Package config handles loading and saving arbor configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/arbor/config.yaml
//   - State:   ~/.local/state/arbor/ (recent roots, visit history)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SortConfig holds the default sibling ordering.
type SortConfig struct {
	Field     string `yaml:"field,omitempty"`     // name, size, modified, ext
	Ascending *bool  `yaml:"ascending,omitempty"` // default true
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	Icons      bool `yaml:"icons,omitempty"`       // Render type glyphs in front of names
	ShowHidden bool `yaml:"show_hidden,omitempty"` // Show dot-entries
}

// HistoryConfig controls the visited-roots database.
type HistoryConfig struct {
	Disabled bool `yaml:"disabled,omitempty"` // Skip recording and quick-jump ranking
	MaxJump  int  `yaml:"max_jump,omitempty"` // Entries shown in the quick-jump modal (default 15)
}

// Config is the top-level configuration for arbor.
type Config struct {
	DefaultDepth int           `yaml:"default_depth,omitempty"` // Initial expansion depth (0 = unlimited)
	Sort         SortConfig    `yaml:"sort,omitempty"`
	UI           UIConfig      `yaml:"ui,omitempty"`
	History      HistoryConfig `yaml:"history,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	asc := true
	return Config{
		DefaultDepth: 1,
		Sort:         SortConfig{Field: "name", Ascending: &asc},
		UI:           UIConfig{Icons: true},
		History:      HistoryConfig{MaxJump: 15},
	}
}

// SortAscending returns the configured direction, defaulting to ascending.
func (c Config) SortAscending() bool {
	return c.Sort.Ascending == nil || *c.Sort.Ascending
}

// ConfigDir returns the XDG config directory for arbor.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "arbor")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "arbor")
}

// StateDir returns the XDG state directory for arbor.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "arbor")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "arbor")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.History.MaxJump <= 0 {
		cfg.History.MaxJump = 15
	}
	if cfg.DefaultDepth < 0 {
		cfg.DefaultDepth = 0
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
