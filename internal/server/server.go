// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the blob store holding the registry file
//   - the metrics set exposed on /metrics
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/rs/zerolog"

	"github.com/deppfellow/contactbook/internal/config"
	"github.com/deppfellow/contactbook/internal/store"

	loggerPkg "github.com/deppfellow/contactbook/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. It holds:
//   - the config
//   - the logger(s)
//   - the blob store
//   - an internal *http.Server used to listen and serve requests
type Server struct {
	// Config holds all environment/config values for the app.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	// If New Relic is disabled, this may exist but contain nil nrApp.
	LoggerService *loggerPkg.LoggerService

	// Store is the registry file host. It is nil while StoreErr is set.
	Store store.BlobStore

	// StoreErr is the *config.ConfigurationError every request fails with
	// while the remote store is not configured.
	StoreErr error

	// Metrics holds the request and registry metrics of this process.
	Metrics *metrics.Set

	// httpServer is configured in SetupHTTPServer and started in Start().
	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// It does NOT start the HTTP server directly. That is done in SetupHTTPServer + Start.
//
// Incomplete remote configuration is not fatal: the process starts, logs the
// problem and every request reports it.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Metrics:       metrics.NewSet(),
	}

	if err := cfg.CheckStore(); err != nil {
		logger.Error().Err(err).Msg("remote store not configured, requests will fail until it is")
		s.StoreErr = err
		return s, nil
	}

	blobs, err := store.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}
	s.Store = blobs

	return s, nil
}

// NewWithStore builds a Server around an existing blob store.
// Used by tests and by the CLI commands.
func NewWithStore(cfg *config.Config, logger *zerolog.Logger, blobs store.BlobStore) *Server {
	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: nil,
		Store:         blobs,
		Metrics:       metrics.NewSet(),
	}
}

// SetupHTTPServer configures the internal net/http server.
//
// The actual router/mux is passed in as handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		// Bind to port from config.
		Addr: ":" + s.Config.Server.Port,

		// Handler is your router/middleware stack.
		Handler: handler,

		// Config stores int values, interpreted here as seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server.
//
// It requires SetupHTTPServer to be called first. It blocks until the server
// stops; http.ErrServerClosed after Shutdown is not an error.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("backend", s.Config.Store.Backend).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server and its dependencies.
//
// It stops the HTTP server (finishing inflight requests until ctx deadline)
// and flushes New Relic data.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	s.LoggerService.Shutdown(5 * time.Second)

	return nil
}
