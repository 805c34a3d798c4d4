package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSkillSet_SortsAndDeduplicates(t *testing.T) {
	set := NewSkillSet("python", "go", "", "python", "docker")

	assert.Equal(t, SkillSet{"docker", "go", "python"}, set)
	assert.True(t, set.Contains("go"))
	assert.False(t, set.Contains("java"))
}

func TestSkillSet_Operations(t *testing.T) {
	applicant := NewSkillSet("go", "sql", "docker")
	job := NewSkillSet("go", "kubernetes", "docker", "aws")

	assert.Equal(t, SkillSet{"docker", "go"}, job.Intersect(applicant))
	assert.Equal(t, SkillSet{"aws", "kubernetes"}, job.Difference(applicant))
	assert.Equal(t, SkillSet{"aws", "docker", "go", "kubernetes", "sql"}, job.Union(applicant))
	assert.True(t, SkillSet{}.IsEmpty())
}

func TestRawValue_Scan(t *testing.T) {
	var v RawValue

	require.NoError(t, v.Scan([]byte(`["Go","SQL"]`)))
	assert.Equal(t, `["Go","SQL"]`, v.Raw)

	require.NoError(t, v.Scan(nil))
	assert.True(t, v.IsNull())

	require.NoError(t, v.Scan(int64(36)))
	dv, err := v.Value()
	require.NoError(t, err)
	assert.Equal(t, int64(36), dv)
}

func TestRecommendationRequest_Validate(t *testing.T) {
	req := &RecommendationRequest{ApplicantID: "  app-1 ", TopN: 0}
	require.NoError(t, req.Validate())
	assert.Equal(t, "app-1", req.ApplicantID)

	req = &RecommendationRequest{JobID: "job-1", TopN: -3}
	assert.Error(t, req.Validate())
}
