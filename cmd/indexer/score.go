package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/bootstrap"
	"humanwrk/job-recommender/internal/services"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an ad-hoc skill profile against an ad-hoc job profile",
	Long:  "Embeds both skill lists with the configured model and prints the blended match score and feedback, without touching the database.",
	RunE:  runScore,
}

var (
	scoreApplicantSkills string
	scoreApplicantMonths float64
	scoreJobSkills       string
	scoreJobMin          float64
	scoreJobMax          float64
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreApplicantSkills, "applicant-skills", "a", "", "Applicant skills, comma separated or JSON array (required)")
	scoreCmd.Flags().Float64VarP(&scoreApplicantMonths, "months", "m", 0, "Applicant total experience in months")
	scoreCmd.Flags().StringVarP(&scoreJobSkills, "job-skills", "j", "", "Job skills, comma separated or JSON array (required)")
	scoreCmd.Flags().Float64Var(&scoreJobMin, "min", 0, "Job minimum experience in years")
	scoreCmd.Flags().Float64Var(&scoreJobMax, "max", 0, "Job maximum experience in years")

	if err := scoreCmd.MarkFlagRequired("applicant-skills"); err != nil {
		panic(fmt.Sprintf("failed to mark applicant-skills flag as required: %v", err))
	}
	if err := scoreCmd.MarkFlagRequired("job-skills"); err != nil {
		panic(fmt.Sprintf("failed to mark job-skills flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	embedder, redisCache, err := bootstrap.NewEmbedder(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = redisCache.Close() }()

	normalizer := services.NewSkillNormalizer(nil, zap.NewNop())
	applicantSkills := normalizer.Normalize(scoreApplicantSkills)
	jobSkills := normalizer.Normalize(scoreJobSkills)

	scorer := services.NewMatchScorer(embedder, log)
	result := scorer.Score(cmd.Context(), applicantSkills, scoreApplicantMonths, jobSkills, scoreJobMin, scoreJobMax)
	if result.Failed() {
		return fmt.Errorf("failed to score: %w", result.Err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "match:      %.2f%%\n", result.FinalScore)
	fmt.Fprintf(out, "skills:     %.1f%% (%s)\n", result.SkillScore, strings.Join(applicantSkills, ", "))
	fmt.Fprintf(out, "experience: %.1f%%\n", result.ExperienceScore)
	fmt.Fprintf(out, "feedback:   %s\n", services.ComposeFeedback(applicantSkills, jobSkills, scoreApplicantMonths, scoreJobMin, scoreJobMax, result))
	return nil
}
