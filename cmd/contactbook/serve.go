package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/contactbook/internal/config"
	"github.com/deppfellow/contactbook/internal/handler"
	"github.com/deppfellow/contactbook/internal/logger"
	"github.com/deppfellow/contactbook/internal/router"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flushed by Server.Shutdown.
			ls := logger.NewLoggerService(cfg.Observability)
			log := logger.NewLoggerWithService(cfg.Observability, ls)

			a, err := newApp(cfg, &log, ls)
			if err != nil {
				logger.Fatal(&log, err, "failed to initialize server")
			}

			h := handler.NewHandlers(a.server, a.services)
			a.server.SetupHTTPServer(router.NewRouter(a.server, h))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				if err := a.server.Start(); err != nil {
					logger.Fatal(&log, err, "failed to start server")
				}
			}()

			<-ctx.Done()
			log.Info().Msg("shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := a.server.Shutdown(shutdownCtx); err != nil {
				return err
			}

			log.Info().Msg("server exited properly")
			return nil
		},
	}
}
