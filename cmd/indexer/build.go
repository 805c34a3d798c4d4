package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"humanwrk/job-recommender/internal/bootstrap"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the job index from the database and persist it",
	Long:  "Reads every job, embeds its skills and replaces the stored index, ignoring whatever is currently persisted.",
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	components, err := bootstrap.New(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer components.Close()

	if err := components.Manager.Rebuild(cmd.Context()); err != nil {
		return fmt.Errorf("failed to build job index: %w", err)
	}

	status := components.Manager.Status()
	fmt.Fprintf(cmd.OutOrStdout(), "built %d jobs into %s (%s, %d dims)\n",
		status.JobCount, components.Store.Name(), status.EmbeddingModel, status.Dimension)
	return nil
}
