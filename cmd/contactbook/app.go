package main

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/deppfellow/contactbook/internal/config"
	"github.com/deppfellow/contactbook/internal/logger"
	"github.com/deppfellow/contactbook/internal/repository"
	"github.com/deppfellow/contactbook/internal/server"
	"github.com/deppfellow/contactbook/internal/service"
)

// app is the wired service stack shared by every command.
type app struct {
	server   *server.Server
	services *service.Services
}

func newApp(cfg *config.Config, log *zerolog.Logger, ls *logger.LoggerService) (*app, error) {
	srv, err := server.New(cfg, log, ls)
	if err != nil {
		return nil, err
	}

	services, err := service.NewService(srv, repository.NewRepositories(srv))
	if err != nil {
		return nil, err
	}

	return &app{server: srv, services: services}, nil
}

// newOfflineApp builds the stack for one-shot commands. Logs go to logs,
// never to the command output.
func newOfflineApp(cfg *config.Config, logs io.Writer) (*app, *zerolog.Logger, error) {
	log := logger.NewLogger(cfg.Observability, logs)
	a, err := newApp(cfg, &log, nil)
	if err != nil {
		return nil, nil, err
	}
	return a, &log, nil
}
