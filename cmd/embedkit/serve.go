package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	httpserver "github.com/fyrsmithlabs/embedkit/internal/http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured embedding function over HTTP",
		Long: `Resolve the configured provider once and serve it:

  GET  /health
  GET  /v1/providers
  POST /v1/embed   {"documents": ["..."]}

Examples:
  embedkit serve --config embedkit.yaml
  embedkit serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts.configPath)
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			_, fn, err := a.resolve(ctx)
			if err != nil {
				return err
			}

			metrics := httpserver.NewHTTPMetrics(
				a.telemetry.Meter("github.com/fyrsmithlabs/embedkit/internal/http"),
				a.logger.Underlying(),
			)
			server, err := httpserver.NewServer(fn, a.resolver.Providers(), a.logger, metrics, &httpserver.Config{
				Addr:     a.cfg.Server.Addr,
				Provider: a.providerLabel(),
			})
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration())
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				a.logger.Error(shutdownCtx, "http shutdown failed", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
