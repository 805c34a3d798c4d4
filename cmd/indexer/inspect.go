package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"humanwrk/job-recommender/internal/bootstrap"
	"humanwrk/job-recommender/internal/logger"
	"humanwrk/job-recommender/internal/services"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a summary of the persisted job index",
	RunE:  runInspect,
}

var inspectLimit int

func init() {
	inspectCmd.Flags().IntVarP(&inspectLimit, "limit", "n", 10, "Number of jobs to list")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := bootstrap.NewIndexStore(cfg, log)
	if err != nil {
		return err
	}

	index, err := store.Load(cmd.Context())
	if errors.Is(err, services.ErrIndexAbsent) {
		return fmt.Errorf("no usable index in %s, run 'indexer build' first", store.Name())
	}
	if err != nil {
		return fmt.Errorf("failed to load job index: %w", err)
	}

	printIndexSummary(cmd.OutOrStdout(), store.Name(), index, inspectLimit)
	return nil
}

func printIndexSummary(w io.Writer, storeName string, index *services.JobIndex, limit int) {
	fmt.Fprintf(w, "store:     %s\n", storeName)
	fmt.Fprintf(w, "jobs:      %d\n", index.Len())
	fmt.Fprintf(w, "model:     %s (%d dims)\n", index.Model(), index.Dimension())
	fmt.Fprintf(w, "built at:  %s\n", index.BuiltAt().Format(time.RFC3339))

	for i, entry := range index.Entries() {
		if i >= limit {
			fmt.Fprintf(w, "... %d more\n", index.Len()-limit)
			break
		}
		job := entry.Job
		fmt.Fprintf(w, "- %s %q [%.1f-%.1f yrs] %s\n",
			job.ID,
			job.Title,
			job.MinExperience,
			job.MaxExperience,
			logger.Truncate(strings.Join(job.Skills, ", "), 80),
		)
	}
}
