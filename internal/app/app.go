package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/codeprep/internal/config"
	"github.com/gokatarajesh/codeprep/internal/logging"
	"github.com/gokatarajesh/codeprep/internal/question"
	"github.com/gokatarajesh/codeprep/internal/server"
)

// Application aggregates shared infrastructure (store, lock, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	deps *Dependencies
	http *http.Server
}

// New bootstraps logger, question service and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	deps, err := Build(ctx, cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}

	handler := question.NewHTTPHandler(deps.Service, logger)
	apiServer := server.NewHTTPServer(cfg, logger, handler, deps.Redis)

	return &Application{
		cfg:    cfg,
		logger: logger,
		deps:   deps,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Str("store", a.deps.Store.Path()).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		a.closeDeps()
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}
	a.closeDeps()

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) closeDeps() {
	if err := a.deps.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}
}
