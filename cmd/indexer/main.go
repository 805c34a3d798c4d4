// Package main provides the indexer CLI for building and inspecting the job index.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/config"
	applog "humanwrk/job-recommender/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:          "indexer",
	Short:        "Job index maintenance",
	Long:         "Builds and inspects the persisted job index used by the recommendation API.",
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration (including .env) and the logger shared by
// every subcommand.
func setup() (*config.Config, *zap.Logger, error) {
	cfg := config.Load()

	log, err := applog.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, log, nil
}
