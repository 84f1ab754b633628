// Package config loads tool configuration from TOML files. Settings
// follow XDG conventions: the default file lives at
// $XDG_CONFIG_HOME/thalweg/config.toml (falling back to
// ~/.config/thalweg/config.toml). Every field has a working default so
// a missing file is not an error.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/dgroleau/thalweg/pkg/errors"
)

const appName = "thalweg"

// Config is the full tool configuration.
type Config struct {
	Relax  RelaxConfig  `toml:"relax"`
	XSect  XSectConfig  `toml:"cross_sections"`
	Minima MinimaConfig `toml:"minima"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RelaxConfig holds centerline relaxation defaults.
type RelaxConfig struct {
	SearchDistance float64 `toml:"search_distance"`
	Spacing        float64 `toml:"spacing"`
	MinDelta       float64 `toml:"min_delta"`
}

// XSectConfig holds cross-section generation defaults.
type XSectConfig struct {
	Interval float64 `toml:"interval"`
	Width    float64 `toml:"width"`
	Spacing  float64 `toml:"spacing"`
}

// MinimaConfig holds local-minimum detection defaults.
type MinimaConfig struct {
	Interval  float64 `toml:"interval"`
	Threshold float64 `toml:"threshold"`
}

// CacheConfig selects the elevation/result cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir overrides the file backend's directory.
	Dir string `toml:"dir"`

	// Redis settings, used when Backend is "redis".
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`

	// JobStore is "memory" or "mongo".
	JobStore string `toml:"job_store"`

	// MongoURI is used when JobStore is "mongo".
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Relax: RelaxConfig{
			SearchDistance: 10,
			Spacing:        1,
			MinDelta:       0.2,
		},
		XSect: XSectConfig{
			Interval: 50,
			Width:    30,
			Spacing:  1,
		},
		Minima: MinimaConfig{
			Interval:  1,
			Threshold: 2,
		},
		Cache: CacheConfig{
			Backend:   "file",
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr:          ":8080",
			JobStore:      "memory",
			MongoDatabase: appName,
		},
	}
}

// Load reads path over the defaults. Unknown keys are rejected so typos
// fail loudly instead of silently falling back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput,
			"unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, cfg.validate()
}

// LoadDefault reads the XDG config file if present; a missing file
// yields the built-in defaults.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}

// DefaultPath returns the XDG location of the config file.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

func (c Config) validate() error {
	if err := errors.ValidateDistance("relax.search_distance", c.Relax.SearchDistance); err != nil {
		return err
	}
	if err := errors.ValidateDistance("relax.spacing", c.Relax.Spacing); err != nil {
		return err
	}
	if err := errors.ValidateDistance("cross_sections.interval", c.XSect.Interval); err != nil {
		return err
	}
	if err := errors.ValidateDistance("cross_sections.width", c.XSect.Width); err != nil {
		return err
	}
	if err := errors.ValidateDistance("minima.interval", c.Minima.Interval); err != nil {
		return err
	}
	if err := errors.ValidateThreshold("minima.threshold", c.Minima.Threshold); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"cache.backend must be file, redis, or none, got %q", c.Cache.Backend)
	}
	switch c.Server.JobStore {
	case "memory", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"server.job_store must be memory or mongo, got %q", c.Server.JobStore)
	}
	return nil
}
