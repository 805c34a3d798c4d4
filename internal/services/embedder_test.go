package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/cache"
	"humanwrk/job-recommender/internal/models"
)

type fixedEmbedder struct {
	vec []float32
	dim int
}

func (f fixedEmbedder) Embed(context.Context, string) ([]float32, error) { return f.vec, nil }
func (f fixedEmbedder) Dimension() int                                   { return f.dim }
func (f fixedEmbedder) ModelName() string                                { return "fixed" }

func TestSkillEmbedder_EmptySetIsZeroVector(t *testing.T) {
	inner := newHashEmbedder()
	embedder := NewSkillEmbedder(inner)

	vec, err := embedder.EmbedSkills(context.Background(), models.SkillSet{})
	require.NoError(t, err)
	assert.Len(t, vec, testDimension)
	for _, v := range vec {
		assert.Zero(t, v)
	}

	vec, err = embedder.EmbedSkills(context.Background(), models.SkillSet{"  ", `""`})
	require.NoError(t, err)
	assert.Len(t, vec, testDimension)
	assert.Equal(t, 0, inner.callCount())
}

func TestSkillEmbedder_Deterministic(t *testing.T) {
	embedder := NewSkillEmbedder(newHashEmbedder())

	first, err := embedder.EmbedSkills(context.Background(), models.NewSkillSet("go", "sql"))
	require.NoError(t, err)
	second, err := embedder.EmbedSkills(context.Background(), models.SkillSet{"SQL", "Go"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSkillEmbedder_RejectsWrongDimension(t *testing.T) {
	embedder := NewSkillEmbedder(fixedEmbedder{vec: []float32{1, 2, 3}, dim: 4})

	_, err := embedder.EmbedSkills(context.Background(), models.NewSkillSet("go"))
	assert.Error(t, err)
}

func TestSkillEmbedder_PropagatesProviderError(t *testing.T) {
	inner := newHashEmbedder()
	inner.failOn["go"] = true

	_, err := NewSkillEmbedder(inner).EmbedSkills(context.Background(), models.NewSkillSet("go"))
	assert.True(t, errors.Is(err, errEmbeddingUnavailable))
}

func TestCachedEmbedder_DisabledCacheFallsThrough(t *testing.T) {
	inner := newHashEmbedder()
	embedder := NewCachedEmbedder(inner, cache.Disabled(), time.Hour, zap.NewNop())

	a, err := embedder.Embed(context.Background(), "go sql")
	require.NoError(t, err)
	b, err := embedder.Embed(context.Background(), "go sql")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 2, inner.callCount())
	assert.Equal(t, testDimension, embedder.Dimension())
	assert.Equal(t, "hash-test", embedder.ModelName())
}

func TestEmbeddingCacheKey(t *testing.T) {
	a := embeddingCacheKey("model-a", 384, "go sql")

	assert.Equal(t, a, embeddingCacheKey("model-a", 384, "go sql"))
	assert.NotEqual(t, a, embeddingCacheKey("model-b", 384, "go sql"))
	assert.NotEqual(t, a, embeddingCacheKey("model-a", 768, "go sql"))
	assert.NotEqual(t, a, embeddingCacheKey("model-a", 384, "go"))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Zero(t, CosineSimilarity([]float32{1}, []float32{1, 1}))
	assert.Zero(t, CosineSimilarity(nil, nil))
}
