package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghtopdep/ghtopdep/pkg/report"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command, a development report endpoint
// that the --report flag can point at via GHTOPDEP_BASE_URL (or the
// GHTOPDEP_ENV=development default).
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		backend  string
		redisURL string
		mongoURI string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a development report endpoint",
		Long: `Starts an HTTP server implementing the report protocol:

  GET  /repos/{owner}/{repo}   previously submitted result, or 404
  POST /repos                  store a scrape result

Results live in memory by default; pass --store redis or --store mongo
to persist them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, backend, redisURL, mongoURI)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3000", "listen address")
	cmd.Flags().StringVar(&backend, "store", "memory", "result store: memory, redis, or mongo")
	cmd.Flags().StringVar(&redisURL, "redis-url", "redis://127.0.0.1:6379/0", "Redis connection URL for --store redis")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "mongodb://127.0.0.1:27017", "MongoDB connection URI for --store mongo")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, backend, redisURL, mongoURI string) error {
	store, err := c.openStore(ctx, backend, redisURL, mongoURI)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			c.Logger.Warn("store close failed", "err", err)
		}
	}()

	srv := &http.Server{
		Addr:              addr,
		Handler:           report.NewServer(store, c.Logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	printInfo("Report endpoint listening on http://%s", addr)
	printDetail("store: %s", backend)
	c.Logger.Info("serving", "addr", addr, "store", backend)

	select {
	case err := <-errCh:
		return fmt.Errorf("report server: %w", err)
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("report server shutdown: %w", err)
	}
	return nil
}

// openStore builds the result store for the chosen backend.
func (c *CLI) openStore(ctx context.Context, backend, redisURL, mongoURI string) (report.Store, error) {
	switch backend {
	case "memory":
		return report.NewMemoryStore(), nil
	case "redis":
		return report.NewRedisStore(ctx, redisURL)
	case "mongo":
		return report.NewMongoStore(ctx, mongoURI)
	default:
		return nil, errors.New("unknown store backend: " + backend + " (want memory, redis, or mongo)")
	}
}
