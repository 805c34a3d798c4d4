package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"humanwrk/job-recommender/internal/models"
)

var ErrApplicantNotFound = errors.New("applicant not found")

type ApplicantRepository interface {
	FindByID(ctx context.Context, applicantID string) (*models.Employment, error)
	FindAll(ctx context.Context) ([]models.Employment, error)
}

type applicantRepository struct {
	db *gorm.DB
}

func NewApplicantRepository(db *gorm.DB) ApplicantRepository {
	return &applicantRepository{db: db}
}

func (r *applicantRepository) FindByID(ctx context.Context, applicantID string) (*models.Employment, error) {
	var emp models.Employment
	err := r.db.WithContext(ctx).
		Where(`"applicantId" = ?`, applicantID).
		First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicantNotFound
		}
		return nil, fmt.Errorf("failed to find applicant: %w", err)
	}

	return &emp, nil
}

func (r *applicantRepository) FindAll(ctx context.Context) ([]models.Employment, error) {
	var emps []models.Employment
	if err := r.db.WithContext(ctx).Find(&emps).Error; err != nil {
		return nil, fmt.Errorf("failed to find applicants: %w", err)
	}

	return emps, nil
}
