package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/models"
	"humanwrk/job-recommender/internal/repositories"
)

const (
	maxExperienceYears      = 30.0
	defaultExperienceSpread = 5.0
)

// DataSource is the read side of the platform database, already shaped into
// the domain model.
type DataSource interface {
	FetchJobs(ctx context.Context) ([]models.Job, error)
	FetchApplicant(ctx context.Context, applicantID string) (models.Applicant, error)
	FetchApplicantSkills(ctx context.Context, applicantID string) (models.SkillSet, error)
	FetchApplicantExperience(ctx context.Context, applicantID string) (float64, error)
	FetchAllApplicants(ctx context.Context) ([]models.Applicant, error)
}

type dataSource struct {
	jobRepo       repositories.JobRepository
	applicantRepo repositories.ApplicantRepository
	normalizer    SkillNormalizer
	log           *zap.Logger
}

func NewDataSource(
	jobRepo repositories.JobRepository,
	applicantRepo repositories.ApplicantRepository,
	normalizer SkillNormalizer,
	log *zap.Logger,
) DataSource {
	return &dataSource{
		jobRepo:       jobRepo,
		applicantRepo: applicantRepo,
		normalizer:    normalizer,
		log:           log,
	}
}

// FetchJobs implements DataSource. Postings without any usable skill are
// dropped.
func (s *dataSource) FetchJobs(ctx context.Context) ([]models.Job, error) {
	postings, err := s.jobRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("failed to fetch jobs", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	jobs := make([]models.Job, 0, len(postings))
	dropped := 0
	for _, p := range postings {
		job := s.toJob(p)
		if job.Skills.IsEmpty() {
			dropped++
			continue
		}
		jobs = append(jobs, job)
	}

	s.log.Info("fetched jobs",
		zap.Int("rows", len(postings)),
		zap.Int("jobs", len(jobs)),
		zap.Int("dropped_without_skills", dropped),
	)

	return jobs, nil
}

func (s *dataSource) toJob(p models.JobPosting) models.Job {
	skills := s.normalizer.Normalize(p.Skills.Raw)
	if p.Description != nil {
		skills = skills.Union(s.normalizer.ExtractFromDescription(*p.Description))
	}

	minExp, ok := CoerceFloat(p.MinExp.Raw)
	if !ok {
		if !p.MinExp.IsNull() {
			s.log.Warn("invalid minimum experience, using 0",
				zap.String("job_id", p.JobID),
				zap.Any("value", p.MinExp.Raw),
			)
		}
		minExp = 0
	}

	maxExp, ok := CoerceFloat(p.MaxExp.Raw)
	if !ok {
		if !p.MaxExp.IsNull() {
			s.log.Warn("invalid maximum experience, using minimum + 5",
				zap.String("job_id", p.JobID),
				zap.Any("value", p.MaxExp.Raw),
			)
		}
		maxExp = minExp + defaultExperienceSpread
	}

	minExp = clamp(minExp, 0, maxExperienceYears)
	maxExp = clamp(maxExp, 0, maxExperienceYears)
	if maxExp < minExp {
		maxExp = minExp
	}

	title := ""
	if p.JobTitle != nil {
		title = *p.JobTitle
	}

	return models.Job{
		ID:            p.JobID,
		Title:         title,
		Skills:        skills,
		MinExperience: minExp,
		MaxExperience: maxExp,
	}
}

// FetchApplicant implements DataSource. An unknown applicant is not an
// error: it comes back with no skills and no experience.
func (s *dataSource) FetchApplicant(ctx context.Context, applicantID string) (models.Applicant, error) {
	emp, err := s.applicantRepo.FindByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicantNotFound) {
			s.log.Warn("applicant not found, scoring with empty profile", zap.String("applicant_id", applicantID))
			return models.Applicant{ID: applicantID, Skills: models.SkillSet{}}, nil
		}
		s.log.Error("failed to fetch applicant", zap.String("applicant_id", applicantID), zap.Error(err))
		return models.Applicant{}, fmt.Errorf("failed to fetch applicant: %w", err)
	}

	return s.toApplicant(*emp), nil
}

// FetchApplicantSkills implements DataSource.
func (s *dataSource) FetchApplicantSkills(ctx context.Context, applicantID string) (models.SkillSet, error) {
	applicant, err := s.FetchApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	return applicant.Skills, nil
}

// FetchApplicantExperience implements DataSource. The result is in months.
func (s *dataSource) FetchApplicantExperience(ctx context.Context, applicantID string) (float64, error) {
	applicant, err := s.FetchApplicant(ctx, applicantID)
	if err != nil {
		return 0, err
	}
	return applicant.TotalExperienceMonths, nil
}

// FetchAllApplicants implements DataSource.
func (s *dataSource) FetchAllApplicants(ctx context.Context) ([]models.Applicant, error) {
	emps, err := s.applicantRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("failed to fetch applicants", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch applicants: %w", err)
	}

	applicants := make([]models.Applicant, 0, len(emps))
	for _, emp := range emps {
		applicants = append(applicants, s.toApplicant(emp))
	}

	return applicants, nil
}

func (s *dataSource) toApplicant(emp models.Employment) models.Applicant {
	months, ok := CoerceFloat(emp.TotalWorkExp.Raw)
	if !ok {
		if !emp.TotalWorkExp.IsNull() {
			s.log.Warn("invalid total work experience, using 0",
				zap.String("applicant_id", emp.ApplicantID),
				zap.Any("value", emp.TotalWorkExp.Raw),
			)
		}
		months = 0
	}
	if months < 0 {
		months = 0
	}

	return models.Applicant{
		ID:                    emp.ApplicantID,
		Skills:                s.normalizer.Normalize(emp.Skills.Raw),
		TotalExperienceMonths: months,
	}
}
