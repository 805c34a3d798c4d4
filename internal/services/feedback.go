package services

import (
	"fmt"
	"strings"

	"humanwrk/job-recommender/internal/models"
)

const maxMissingSkillsInFeedback = 7

// ComposeFeedback renders the human-readable summary attached to every
// recommendation: skill coverage, experience comparison and the skill score.
func ComposeFeedback(applicantSkills, jobSkills models.SkillSet, applicantMonths, jobMinYears, jobMaxYears float64, score models.ScoreResult) string {
	matched := jobSkills.Intersect(applicantSkills)
	missing := jobSkills.Difference(applicantSkills)

	parts := make([]string, 0, 4)

	skills := fmt.Sprintf("Skills: %d/%d matched.", len(matched), len(jobSkills))
	if len(missing) > 0 {
		shown := missing
		suffix := "."
		if len(shown) > maxMissingSkillsInFeedback {
			shown = shown[:maxMissingSkillsInFeedback]
			suffix = "..."
		}
		skills += fmt.Sprintf(" Missing: %s%s", strings.Join(shown, ", "), suffix)
	}
	parts = append(parts, skills)

	parts = append(parts, fmt.Sprintf(
		"Exp Match: %.1f%% (Applicant: %.1f yrs | Job Req: %.1f-%.1f yrs).",
		score.ExperienceScore, finiteOrZero(applicantMonths)/12.0, jobMinYears, jobMaxYears,
	))

	parts = append(parts, fmt.Sprintf("Skills Score: %.1f%%.", score.SkillScore))

	if score.Failed() {
		parts = append(parts, "Score unavailable: matching failed for this entry.")
	}

	return strings.Join(parts, " | ")
}
