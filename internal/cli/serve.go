package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgroleau/thalweg/pkg/config"
	"github.com/dgroleau/thalweg/pkg/job"
	"github.com/dgroleau/thalweg/pkg/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Exposes the relaxation, cross-section, and minima operations over HTTP,
both synchronously and as background jobs. Job state lives in memory by
default; configure a MongoDB store for persistence across restarts.

The server shuts down gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe builds the runner and job store, then serves until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	jobs, closeJobs, err := newJobStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize job store: %w", err)
	}
	defer closeJobs()

	jobStore := cfg.Server.JobStore
	if jobStore == "" {
		jobStore = "memory"
	}
	if noCache {
		printWarning("Caching disabled; every request recomputes from scratch")
	}
	printKeyValue("Address", addr)
	printKeyValue("Job store", jobStore)

	srv := server.New(runner, jobs, c.Logger)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Sweep expired jobs in the background.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := jobs.Cleanup(ctx); err != nil {
					c.Logger.Warn("job cleanup failed", "err", err)
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	c.Logger.Info("server stopped")
	return nil
}

// newJobStore builds the configured job store and a close function.
func newJobStore(ctx context.Context, cfg config.Config) (job.Store, func(), error) {
	if cfg.Server.JobStore == "mongo" {
		store, err := job.NewMongoStore(ctx, job.MongoConfig{
			URI:      cfg.Server.MongoURI,
			Database: cfg.Server.MongoDatabase,
		})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = store.Close(closeCtx)
		}
		return store, closeFn, nil
	}
	return job.NewMemoryStore(), func() {}, nil
}
