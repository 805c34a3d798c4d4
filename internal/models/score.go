package models

type ScoreStatus string

const (
	ScoreStatusScored ScoreStatus = "scored"
	ScoreStatusFailed ScoreStatus = "failed"
)

// ScoreResult carries percentages: Final rounded to 2 decimals, the
// components to 1. A failed result has all scores at zero and Err set.
type ScoreResult struct {
	FinalScore      float64     `json:"final_score"`
	SkillScore      float64     `json:"skill_score"`
	ExperienceScore float64     `json:"experience_score"`
	Status          ScoreStatus `json:"status"`
	Err             error       `json:"-"`
}

func (r ScoreResult) Failed() bool {
	return r.Status == ScoreStatusFailed
}

func FailedScore(err error) ScoreResult {
	return ScoreResult{Status: ScoreStatusFailed, Err: err}
}
