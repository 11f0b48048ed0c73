// Package config loads console configuration from an optional YAML file
// with environment overrides on top.
//
// Precedence, lowest to highest: built-in defaults, ~/.libi/config.yaml
// (or the file given to Load), LIBI_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full console configuration.
type Config struct {
	// APIBaseURL is the platform REST API root.
	APIBaseURL string `yaml:"api_base_url"`

	// Database is the path of the local state SQLite file.
	Database string `yaml:"database"`

	Sound SoundConfig `yaml:"sound"`
}

// SoundConfig are the local notification sound defaults, used until the
// merchant profile's own preferences are known.
type SoundConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBaseURL: "https://api.libi.app",
		Database:   filepath.Join(homeDir(), ".libi", "state.db"),
		Sound:      SoundConfig{Enabled: true, Volume: 0.8},
	}
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".libi", "config.yaml")
}

// Load reads configuration from path, falling back to DefaultPath when path
// is empty. A missing file is not an error; the defaults apply. Environment
// overrides are applied last:
//
//	LIBI_API_URL, LIBI_DATABASE, LIBI_SOUND_ENABLED, LIBI_SOUND_VOLUME
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No config file is the common case.
	case err != nil:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.APIBaseURL == "" {
		return errors.New("config: api_base_url must not be empty")
	}
	if c.Sound.Volume < 0 || c.Sound.Volume > 1 {
		return fmt.Errorf("config: sound.volume %v out of range [0, 1]", c.Sound.Volume)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("LIBI_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("LIBI_DATABASE"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("LIBI_SOUND_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: LIBI_SOUND_ENABLED=%q: %w", v, err)
		}
		cfg.Sound.Enabled = enabled
	}
	if v := os.Getenv("LIBI_SOUND_VOLUME"); v != "" {
		volume, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: LIBI_SOUND_VOLUME=%q: %w", v, err)
		}
		cfg.Sound.Volume = volume
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
