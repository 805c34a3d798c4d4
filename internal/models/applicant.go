package models

// Employment is a row of the platform's employment table.
type Employment struct {
	ApplicantID  string   `gorm:"column:applicantId;type:text;primaryKey" json:"applicant_id"`
	Skills       RawValue `gorm:"column:skills;type:text" json:"-"`
	TotalWorkExp RawValue `gorm:"column:totalWorkExp;type:text" json:"-"`
}

func (Employment) TableName() string {
	return "employment"
}

type Applicant struct {
	ID                    string   `json:"applicant_id"`
	Skills                SkillSet `json:"skills"`
	TotalExperienceMonths float64  `json:"total_experience_months"`
}

// ExperienceYears converts the stored month count to years.
func (a Applicant) ExperienceYears() float64 {
	return a.TotalExperienceMonths / 12.0
}
