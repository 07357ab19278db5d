package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gokatarajesh/codeprep/internal/app"
	"github.com/gokatarajesh/codeprep/internal/config"
	"github.com/gokatarajesh/codeprep/internal/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "questionctl",
		Short:         "Generate, verify and inspect stored coding questions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("store", "", "Path to the question JSON file (overrides STORE_PATH)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newListCmd())
	return root
}

// loadConfig reads configs/.env outside production, then the environment,
// then applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.App, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("store"); p != "" {
		cfg.Store.Path = p
	}
	return cfg, nil
}

func cliLogger(cmd *cobra.Command, cfg *config.App) zerolog.Logger {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Name, cfg.Env)
	if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}
	return logger
}

// openDeps builds the question service. withProvider selects whether a
// completion provider is required.
func openDeps(cmd *cobra.Command, withProvider bool) (*app.Dependencies, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := cliLogger(cmd, cfg)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if withProvider {
		return app.Build(ctx, cfg, logger, nil)
	}
	return app.OpenStore(ctx, cfg, logger)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
