package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gokatarajesh/codeprep/internal/app"
	"github.com/gokatarajesh/codeprep/internal/config"
	"github.com/gokatarajesh/codeprep/internal/llm"
	"github.com/gokatarajesh/codeprep/internal/logging"
)

// completiond holds the vendor API key and answers POST /complete for API
// replicas configured with AI_PROVIDER=http.
func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.AI.Provider == "http" {
		log.Fatalf("completiond cannot forward to another completion service; set AI_PROVIDER to gemini, openai or anthropic")
	}

	logger := logging.New(cfg.Name+"-completiond", cfg.Env)

	provider, err := llm.NewProvider(ctx, app.LLMConfig(cfg.AI), logger)
	if err != nil {
		log.Fatalf("failed to build provider: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/complete", llm.NewCompletionHandler(provider, cfg.Completion.APIKey, logger))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    cfg.Completion.Addr,
		Handler: logging.Middleware(logger)(mux),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("model", provider.ModelID()).Msg("completion service listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		log.Fatalf("http server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
}
