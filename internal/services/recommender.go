package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/models"
)

var (
	ErrIndexNotReady     = errors.New("job index is not ready")
	ErrJobNotFound       = errors.New("job not found in index")
	ErrMissingIdentifier = errors.New("applicant_id or job_id is required")
	ErrInvalidRequest    = errors.New("invalid request")
)

type RecommendationService interface {
	// Recommend dispatches on the identifiers present: applicant only ranks
	// jobs, job only ranks applicants, both evaluates the pair.
	Recommend(ctx context.Context, req models.RecommendationRequest) (any, error)
	JobsForApplicant(ctx context.Context, applicantID string, topN int) (*models.JobsForApplicantResponse, error)
	ApplicantsForJob(ctx context.Context, jobID string, topN int) (*models.ApplicantsForJobResponse, error)
	Evaluate(ctx context.Context, applicantID, jobID string) (*models.EvaluationResponse, error)
}

type RecommendationOptions struct {
	DefaultTopN int
	MaxTopN     int
	Concurrency int
}

type recommendationService struct {
	index    IndexManager
	source   DataSource
	embedder SkillEmbedder
	scorer   MatchScorer
	opts     RecommendationOptions
	log      *zap.Logger
}

func NewRecommendationService(
	index IndexManager,
	source DataSource,
	embedder SkillEmbedder,
	scorer MatchScorer,
	opts RecommendationOptions,
	log *zap.Logger,
) RecommendationService {
	if opts.DefaultTopN < 1 {
		opts.DefaultTopN = 5
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &recommendationService{
		index:    index,
		source:   source,
		embedder: embedder,
		scorer:   scorer,
		opts:     opts,
		log:      log,
	}
}

// Recommend implements RecommendationService.
func (s *recommendationService) Recommend(ctx context.Context, req models.RecommendationRequest) (any, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	topN, err := s.resolveTopN(req.TopN)
	if err != nil {
		return nil, err
	}

	switch {
	case req.ApplicantID != "" && req.JobID != "":
		return s.Evaluate(ctx, req.ApplicantID, req.JobID)
	case req.ApplicantID != "":
		return s.JobsForApplicant(ctx, req.ApplicantID, topN)
	case req.JobID != "":
		return s.ApplicantsForJob(ctx, req.JobID, topN)
	default:
		return nil, ErrMissingIdentifier
	}
}

func (s *recommendationService) resolveTopN(topN int) (int, error) {
	switch {
	case topN == 0:
		return s.opts.DefaultTopN, nil
	case topN < 0:
		return 0, fmt.Errorf("%w: top_n must be positive", ErrInvalidRequest)
	case s.opts.MaxTopN > 0 && topN > s.opts.MaxTopN:
		return 0, fmt.Errorf("%w: top_n must not exceed %d", ErrInvalidRequest, s.opts.MaxTopN)
	}
	return topN, nil
}

func (s *recommendationService) readyIndex() (*JobIndex, error) {
	index := s.index.Current()
	if index.Len() == 0 {
		return nil, ErrIndexNotReady
	}
	return index, nil
}

// JobsForApplicant implements RecommendationService.
func (s *recommendationService) JobsForApplicant(ctx context.Context, applicantID string, topN int) (*models.JobsForApplicantResponse, error) {
	index, err := s.readyIndex()
	if err != nil {
		return nil, err
	}

	applicant, err := s.source.FetchApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	applicantVec, embedErr := s.embedder.EmbedSkills(ctx, applicant.Skills)
	if embedErr != nil {
		s.log.Error("failed to embed applicant skills",
			zap.String("applicant_id", applicantID),
			zap.Error(embedErr),
		)
	}

	entries := index.Entries()
	recs := make([]models.JobRecommendation, 0, len(entries))
	for _, entry := range entries {
		score := models.FailedScore(embedErr)
		if embedErr == nil {
			score = s.scorer.ScoreEmbeddings(applicantVec, entry.Embedding, applicant.TotalExperienceMonths, entry.Job.MinExperience, entry.Job.MaxExperience)
		}

		recs = append(recs, models.JobRecommendation{
			JobID:           entry.Job.ID,
			JobTitle:        entry.Job.Title,
			MatchPercentage: score.FinalScore,
			SkillScore:      score.SkillScore,
			ExperienceScore: score.ExperienceScore,
			Status:          score.Status,
			Feedback:        ComposeFeedback(applicant.Skills, entry.Job.Skills, applicant.TotalExperienceMonths, entry.Job.MinExperience, entry.Job.MaxExperience, score),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchPercentage > recs[j].MatchPercentage
	})
	if len(recs) > topN {
		recs = recs[:topN]
	}

	return &models.JobsForApplicantResponse{
		ApplicantID:     applicantID,
		Recommendations: recs,
	}, nil
}

// ApplicantsForJob implements RecommendationService. Applicants are read
// fresh on every call.
func (s *recommendationService) ApplicantsForJob(ctx context.Context, jobID string, topN int) (*models.ApplicantsForJobResponse, error) {
	index, err := s.readyIndex()
	if err != nil {
		return nil, err
	}

	entry, ok := index.Lookup(jobID)
	if !ok {
		return nil, ErrJobNotFound
	}
	job := entry.Job

	applicants, err := s.source.FetchAllApplicants(ctx)
	if err != nil {
		return nil, err
	}

	recs := make([]models.ApplicantRecommendation, len(applicants))
	runPool(ctx, len(applicants), s.opts.Concurrency, func(ctx context.Context, i int) {
		applicant := applicants[i]

		var score models.ScoreResult
		vec, err := s.embedder.EmbedSkills(ctx, applicant.Skills)
		if err != nil {
			s.log.Error("failed to embed applicant skills",
				zap.String("applicant_id", applicant.ID),
				zap.Error(err),
			)
			score = models.FailedScore(err)
		} else {
			score = s.scorer.ScoreEmbeddings(vec, entry.Embedding, applicant.TotalExperienceMonths, job.MinExperience, job.MaxExperience)
		}

		recs[i] = models.ApplicantRecommendation{
			ApplicantID:     applicant.ID,
			MatchPercentage: score.FinalScore,
			SkillScore:      score.SkillScore,
			ExperienceScore: score.ExperienceScore,
			Status:          score.Status,
			Feedback:        ComposeFeedback(applicant.Skills, job.Skills, applicant.TotalExperienceMonths, job.MinExperience, job.MaxExperience, score),
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchPercentage > recs[j].MatchPercentage
	})
	if len(recs) > topN {
		recs = recs[:topN]
	}

	return &models.ApplicantsForJobResponse{
		JobID:         job.ID,
		JobTitle:      job.Title,
		TopApplicants: recs,
	}, nil
}

// Evaluate implements RecommendationService.
func (s *recommendationService) Evaluate(ctx context.Context, applicantID, jobID string) (*models.EvaluationResponse, error) {
	index, err := s.readyIndex()
	if err != nil {
		return nil, err
	}

	entry, ok := index.Lookup(jobID)
	if !ok {
		return nil, ErrJobNotFound
	}
	job := entry.Job

	applicant, err := s.source.FetchApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	var score models.ScoreResult
	vec, err := s.embedder.EmbedSkills(ctx, applicant.Skills)
	if err != nil {
		s.log.Error("failed to embed applicant skills",
			zap.String("applicant_id", applicantID),
			zap.Error(err),
		)
		score = models.FailedScore(err)
	} else {
		score = s.scorer.ScoreEmbeddings(vec, entry.Embedding, applicant.TotalExperienceMonths, job.MinExperience, job.MaxExperience)
	}

	return &models.EvaluationResponse{
		ApplicantID:     applicantID,
		JobID:           job.ID,
		JobTitle:        job.Title,
		MatchPercentage: score.FinalScore,
		SkillScore:      score.SkillScore,
		ExperienceScore: score.ExperienceScore,
		Status:          score.Status,
		Feedback:        ComposeFeedback(applicant.Skills, job.Skills, applicant.TotalExperienceMonths, job.MinExperience, job.MaxExperience, score),
	}, nil
}

// runPool calls fn for every index in [0, n) from at most concurrency
// goroutines. Remaining work is skipped once ctx is done.
func runPool(ctx context.Context, n, concurrency int, fn func(ctx context.Context, i int)) {
	if n == 0 {
		return
	}
	concurrency = max(1, min(concurrency, n))

	queue := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				fn(ctx, i)
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case queue <- i:
		}
	}
	close(queue)
	wg.Wait()
}
