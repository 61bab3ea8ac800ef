package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/wmkeys/internal/config/loader"
)

// Load reads path over the defaults and validates the result. A missing
// file returns ErrFileNotFound.
func Load(path string) (*Config, error) {
	return LoadFS(loader.DefaultFS(), path)
}

// LoadFS is Load on a custom file system.
func LoadFS(fsys loader.FileSystem, path string) (*Config, error) {
	l, err := loader.ForPath(fsys, path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	defaults := cfg.Keybindings.Bindings
	// A file that lists bindings replaces the default list.
	cfg.Keybindings.Bindings = nil
	found, err := l.LoadFrom(path, cfg)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if cfg.Keybindings.Bindings == nil {
		cfg.Keybindings.Bindings = defaults
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load that falls back to Default when path is empty or
// missing.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, ErrFileNotFound) {
		return Default(), nil
	}
	return nil, err
}

// DefaultPath returns $XDG_CONFIG_HOME/wmkeys/wmkeys.toml, or an empty
// string when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wmkeys", "wmkeys.toml")
}
