package models

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

type RecommendationRequest struct {
	ApplicantID string `json:"applicant_id"`
	JobID       string `json:"job_id"`
	TopN        int    `json:"top_n" validate:"omitempty,min=1"`
}

// Validate checks field constraints; the identifier rules are enforced by the
// recommendation service so they map to their own error.
func (r *RecommendationRequest) Validate() error {
	r.ApplicantID = strings.TrimSpace(r.ApplicantID)
	r.JobID = strings.TrimSpace(r.JobID)

	validate := validator.New()
	return validate.Struct(r)
}

type JobRecommendation struct {
	JobID           string      `json:"job_id"`
	JobTitle        string      `json:"job_title"`
	MatchPercentage float64     `json:"match_percentage"`
	SkillScore      float64     `json:"skill_score"`
	ExperienceScore float64     `json:"experience_score"`
	Status          ScoreStatus `json:"status"`
	Feedback        string      `json:"feedback"`
}

type ApplicantRecommendation struct {
	ApplicantID     string      `json:"applicant_id"`
	MatchPercentage float64     `json:"match_percentage"`
	SkillScore      float64     `json:"skill_score"`
	ExperienceScore float64     `json:"experience_score"`
	Status          ScoreStatus `json:"status"`
	Feedback        string      `json:"feedback"`
}

type JobsForApplicantResponse struct {
	ApplicantID     string              `json:"applicant_id"`
	Recommendations []JobRecommendation `json:"recommendations"`
}

type ApplicantsForJobResponse struct {
	JobID         string                    `json:"job_id"`
	JobTitle      string                    `json:"job_title"`
	TopApplicants []ApplicantRecommendation `json:"top_applicants"`
}

type EvaluationResponse struct {
	ApplicantID     string      `json:"applicant_id"`
	JobID           string      `json:"job_id"`
	JobTitle        string      `json:"job_title"`
	MatchPercentage float64     `json:"match_percentage"`
	SkillScore      float64     `json:"skill_score"`
	ExperienceScore float64     `json:"experience_score"`
	Status          ScoreStatus `json:"status"`
	Feedback        string      `json:"feedback"`
}
