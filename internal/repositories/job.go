package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"humanwrk/job-recommender/internal/models"
)

type JobRepository interface {
	FindAll(ctx context.Context) ([]models.JobPosting, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// FindAll returns every posting that has either declared skills or a
// description to extract skills from.
func (r *jobRepository) FindAll(ctx context.Context) ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	err := r.db.WithContext(ctx).
		Where(`"skills" IS NOT NULL OR "description" IS NOT NULL`).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find jobs: %w", err)
	}

	return jobs, nil
}
