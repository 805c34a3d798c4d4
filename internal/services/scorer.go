package services

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/models"
)

const (
	SkillWeight      = 0.7
	ExperienceWeight = 0.3
)

type MatchScorer interface {
	// Score embeds both skill sets and blends their similarity with the
	// experience fit.
	Score(ctx context.Context, applicantSkills models.SkillSet, applicantMonths float64, jobSkills models.SkillSet, jobMinYears, jobMaxYears float64) models.ScoreResult
	// ScoreEmbeddings is Score for callers that already hold both vectors.
	ScoreEmbeddings(applicantVec, jobVec []float32, applicantMonths, jobMinYears, jobMaxYears float64) models.ScoreResult
}

type matchScorer struct {
	embedder SkillEmbedder
	log      *zap.Logger
}

func NewMatchScorer(embedder SkillEmbedder, log *zap.Logger) MatchScorer {
	return &matchScorer{embedder: embedder, log: log}
}

// Score implements MatchScorer.
func (s *matchScorer) Score(ctx context.Context, applicantSkills models.SkillSet, applicantMonths float64, jobSkills models.SkillSet, jobMinYears, jobMaxYears float64) models.ScoreResult {
	applicantVec, err := s.embedder.EmbedSkills(ctx, applicantSkills)
	if err != nil {
		s.log.Error("failed to embed applicant skills", zap.Error(err))
		return models.FailedScore(fmt.Errorf("failed to embed applicant skills: %w", err))
	}

	jobVec, err := s.embedder.EmbedSkills(ctx, jobSkills)
	if err != nil {
		s.log.Error("failed to embed job skills", zap.Error(err))
		return models.FailedScore(fmt.Errorf("failed to embed job skills: %w", err))
	}

	return s.ScoreEmbeddings(applicantVec, jobVec, applicantMonths, jobMinYears, jobMaxYears)
}

// ScoreEmbeddings implements MatchScorer.
func (s *matchScorer) ScoreEmbeddings(applicantVec, jobVec []float32, applicantMonths, jobMinYears, jobMaxYears float64) models.ScoreResult {
	if len(applicantVec) != len(jobVec) {
		err := fmt.Errorf("embedding length mismatch: %d != %d", len(applicantVec), len(jobVec))
		s.log.Error("failed to score match", zap.Error(err))
		return models.FailedScore(err)
	}

	similarity := CosineSimilarity(applicantVec, jobVec)
	if math.IsNaN(similarity) || math.IsInf(similarity, 0) {
		err := fmt.Errorf("non-finite similarity: %v", similarity)
		s.log.Error("failed to score match", zap.Error(err))
		return models.FailedScore(err)
	}

	return BlendScores(similarity, ExperienceScore(applicantMonths, jobMinYears, jobMaxYears))
}

// BlendScores combines a skill similarity and an experience fit, both in
// [0, 1], into rounded percentages. Negative similarity counts as no match.
func BlendScores(skillSimilarity, experienceFit float64) models.ScoreResult {
	skill := clamp(skillSimilarity, 0, 1)
	exp := clamp(experienceFit, 0, 1)
	final := SkillWeight*skill + ExperienceWeight*exp

	return models.ScoreResult{
		FinalScore:      roundTo(final*100, 2),
		SkillScore:      roundTo(skill*100, 1),
		ExperienceScore: roundTo(exp*100, 1),
		Status:          models.ScoreStatusScored,
	}
}
