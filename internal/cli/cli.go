// Package cli implements the thalweg command-line interface.
//
// This package provides commands for relaxing stream centerlines onto a
// digital elevation model, generating cross-section transects, locating
// local channel minima, and rendering elevation profiles. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - relax: Pull centerline vertices toward the channel thalweg
//   - cross-sections: Generate perpendicular transects along a centerline
//   - minima: Locate local low points along a centerline
//   - profile: Render cross-section elevation profiles as SVG
//   - serve: Run the HTTP API
//   - cache: Manage the elevation and result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dgroleau/thalweg/pkg/buildinfo"
	"github.com/dgroleau/thalweg/pkg/cache"
	"github.com/dgroleau/thalweg/pkg/config"
	"github.com/dgroleau/thalweg/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "thalweg"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location when set
	// via the --config persistent flag.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "thalweg",
		Short:        "Thalweg relaxes stream centerlines onto elevation surfaces",
		Long:         `Thalweg is a CLI tool for hydrographic centerline conditioning: it pulls digitized stream centerlines toward the lowest path of the channel on a DEM, generates cross-section transects, and locates local channel minima.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: ~/.config/thalweg/config.toml)")

	// Every command reaches its logger through cmd.Context().
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.relaxCommand())
	root.AddCommand(c.xsectCommand())
	root.AddCommand(c.minimaCommand())
	root.AddCommand(c.profileCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig resolves the effective configuration: the --config file when
// given, otherwise the default path (falling back to built-in defaults when
// no file exists).
func (c *CLI) loadConfig() (config.Config, error) {
	if c.ConfigPath != "" {
		return config.Load(c.ConfigPath)
	}
	return config.LoadDefault()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == "redis" {
		return cache.NewRedisCache(context.Background(), cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/thalweg/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// defaultOutput derives an output path from the input path by inserting a
// suffix before the extension, e.g. streams.geojson -> streams.relaxed.geojson.
// When ext is non-empty it replaces the input extension entirely.
func defaultOutput(input, suffix, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if ext == "" {
		ext = filepath.Ext(input)
	}
	return fmt.Sprintf("%s.%s%s", base, suffix, ext)
}
