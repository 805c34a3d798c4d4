package models

// JobPosting is a row of the platform's jobs table.
type JobPosting struct {
	JobID       string   `gorm:"column:jobId;type:text;primaryKey" json:"job_id"`
	JobTitle    *string  `gorm:"column:jobTitle;type:text" json:"job_title"`
	Skills      RawValue `gorm:"column:skills;type:text" json:"-"`
	Description *string  `gorm:"column:description;type:text" json:"description,omitempty"`
	MinExp      RawValue `gorm:"column:minExp;type:text" json:"-"`
	MaxExp      RawValue `gorm:"column:maxExp;type:text" json:"-"`
}

func (JobPosting) TableName() string {
	return "jobs"
}

// Job is a posting after ingestion: skills normalized and merged with those
// found in the description, experience range in years within [0, 30].
type Job struct {
	ID            string   `json:"job_id"`
	Title         string   `json:"job_title"`
	Skills        SkillSet `json:"skills"`
	MinExperience float64  `json:"min_experience"`
	MaxExperience float64  `json:"max_experience"`
}
