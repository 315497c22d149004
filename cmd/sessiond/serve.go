package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/cachesession/app/simple"
	"github.com/dmitrymomot/cachesession/core/config"
)

func serveCmd() *cobra.Command {
	var (
		addr    string
		backend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server until SIGINT or SIGTERM.

Routes:
  GET  /         current session as JSON
  GET  /write    set ?key= to ?value= in the session
  POST /logout   delete the session
  GET  /healthz  backend health
  GET  /metrics  Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg simple.Config
			if err := config.Load(&cfg); err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if backend != "" {
				cfg.Backend = backend
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := simple.NewAppWithConfig(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			app.Logger().InfoContext(context.WithoutCancel(ctx), "stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SERVER_ADDR)")
	cmd.Flags().StringVar(&backend, "backend", "", "memory, redis, postgres or mongo (overrides SESSION_BACKEND)")

	return cmd
}
