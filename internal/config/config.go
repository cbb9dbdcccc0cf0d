// Package config loads the board's TOML configuration. Everything has
// a workable default: with no file at all the board runs as a local,
// anonymous canvas with persistence disabled.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Backend Backend `toml:"backend"`
	Log     Log     `toml:"log"`
}

// Backend points at the Supabase-compatible project. Empty URL or key
// disables persistence.
type Backend struct {
	URL     string `toml:"url"`
	AnonKey string `toml:"anon_key"`
	Bucket  string `toml:"bucket"`
}

type Log struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Backend: Backend{Bucket: "cards"},
		Log:     Log{Level: "info"},
	}
}

// DefaultPath is the per-user config file location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "driftboard", "config.toml"), nil
}

// Load reads the file at path, or the default path when empty. A
// missing file yields the defaults without error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, os.ErrNotExist) {
		if explicit {
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if un := meta.Undecoded(); len(un) > 0 {
		return cfg, fmt.Errorf("config: %s: unknown key %q", path, un[0].String())
	}
	if cfg.Backend.Bucket == "" {
		cfg.Backend.Bucket = "cards"
	}
	return cfg, nil
}
