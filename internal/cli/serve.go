package cli

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"todo-web/internal/app"
	"todo-web/internal/web"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *Options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTML UI and JSON API",
		Long: strings.TrimSpace(`
Serve the server-rendered task pages and the /api/tasks JSON API.

The server stops on SIGINT/SIGTERM, letting in-flight requests finish within
the configured shutdown timeout before the database is closed.
`),
		Example: strings.TrimSpace(`
# Serve on localhost with defaults (./data/todo.sqlite)
todo serve

# Serve from a config file on all interfaces
todo --config /etc/todo/todo.yaml serve --addr :5000
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			if v := strings.TrimSpace(addr); v != "" {
				cfg.Addr = v
			}
			logger := newLogger(cmd, cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() {
				if err := a.Close(); err != nil {
					logger.Error("close app", slog.Any("err", err))
				}
			}()

			srv, err := web.NewServer(a)
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()

			httpSrv := &http.Server{
				Handler:           srv.Handler(),
				ReadTimeout:       cfg.HTTP.ReadTimeout.Duration,
				ReadHeaderTimeout: cfg.HTTP.ReadTimeout.Duration,
				WriteTimeout:      cfg.HTTP.WriteTimeout.Duration,
				ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
			}

			_ = writeOut(cmd, opts, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       "http://" + actualAddr + "/",
					"db":        cfg.DBPath,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
			})
			logger.Info("todo web running", slog.String("addr", actualAddr), slog.String("db", cfg.DBPath))

			errCh := make(chan error, 1)
			go func() { errCh <- httpSrv.Serve(ln) }()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return writeErr(cmd, err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout.Duration)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port); overrides config")
	return cmd
}
