package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/breachscan/internal/config"
	"github.com/nao1215/breachscan/internal/history"
	"github.com/nao1215/breachscan/internal/log"
	"github.com/nao1215/breachscan/internal/server"
	"github.com/nao1215/breachscan/internal/transport"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the breach checker over HTTP",
		Long: `Serve starts an HTTP server with a web form at / and a JSON endpoint at
POST /check. It also exposes /healthz and Prometheus metrics at /metrics.

The server receives plaintext passwords, so it listens on loopback by
default. Put it behind TLS before exposing it to anyone else.

Examples:
  # Listen on the default address (127.0.0.1:5000)
  breachscan serve

  # Listen on another port and allow 16 concurrent checks
  breachscan serve --addr 127.0.0.1:8080 --max-inflight 16

  # Check from the command line
  curl -s -X POST http://127.0.0.1:5000/check \
    -H 'Content-Type: application/json' \
    -d '{"email":"alice@example.com","password":"hunter2"}'`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	addLookupFlags(cmd, config.DefaultServePause, config.DefaultServeSourceCap)

	cmd.Flags().StringP("addr", "a", config.DefaultListenAddress,
		"Listen address")
	cmd.Flags().Int("max-inflight", config.DefaultMaxInflight,
		"Maximum number of checks running at once")
	cmd.Flags().Bool("save", false,
		"Record every verdict in the local history (never the email or password)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServe(ctx, cfg, cmd.ErrOrStderr(), logger)
}

// buildServeConfig creates a Config from the serve defaults, the config file
// and flags.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd, config.NewServeConfig())
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		if cfg.ListenAddress, err = flags.GetString("addr"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-inflight") {
		if cfg.MaxInflight, err = flags.GetInt("max-inflight"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("save") {
		if cfg.SaveHistory, err = flags.GetBool("save"); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// runServe wires the check pipeline into the HTTP server and serves until
// ctx is cancelled.
func runServe(ctx context.Context, cfg *config.Config, stderr io.Writer, logger *slog.Logger) error {
	route, err := transport.Open(ctx, routeOptions(cfg, logger))
	if err != nil {
		return fmt.Errorf("failed to set up outbound route: %w", err)
	}
	defer func() {
		if err := route.Close(); err != nil {
			logger.Error("failed to close outbound route", "error", err)
		}
	}()

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithMaxInflight(cfg.MaxInflight),
		server.WithVersion(getVersion()),
	}

	if cfg.SaveHistory {
		store, err := history.Open(cfg.DBDir, history.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()
		opts = append(opts, server.WithRecorder(store))
		logger.Info("recording verdict history", "path", store.Path())
	}

	srv := server.New(newCheckPipeline(cfg, route.HTTPClient(), logger), opts...)

	fmt.Fprintf(stderr, "breachscan %s listening on http://%s (route: %s)\n",
		getVersion(), cfg.ListenAddress, route.Mode())
	if err := srv.ListenAndServe(ctx, cfg.ListenAddress); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
