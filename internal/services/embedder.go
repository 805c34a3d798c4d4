package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/cache"
	"humanwrk/job-recommender/internal/models"
)

// Embedder maps text to a fixed-length dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	ModelName() string
}

type SkillEmbedder interface {
	// EmbedSkills embeds a skill set. The empty set always maps to the zero
	// vector without calling the provider.
	EmbedSkills(ctx context.Context, skills models.SkillSet) ([]float32, error)
	Dimension() int
	ModelName() string
}

type skillEmbedder struct {
	embedder Embedder
}

func NewSkillEmbedder(embedder Embedder) SkillEmbedder {
	return &skillEmbedder{embedder: embedder}
}

func (s *skillEmbedder) Dimension() int {
	return s.embedder.Dimension()
}

func (s *skillEmbedder) ModelName() string {
	return s.embedder.ModelName()
}

// EmbedSkills implements SkillEmbedder.
func (s *skillEmbedder) EmbedSkills(ctx context.Context, skills models.SkillSet) ([]float32, error) {
	cleaned := models.NewSkillSet(cleanTokens(skills)...)
	if cleaned.IsEmpty() {
		return make([]float32, s.Dimension()), nil
	}

	vec, err := s.embedder.Embed(ctx, strings.Join(cleaned, " "))
	if err != nil {
		return nil, err
	}
	if len(vec) != s.Dimension() {
		return nil, fmt.Errorf("embedding has %d dimensions, expected %d", len(vec), s.Dimension())
	}

	return vec, nil
}

type cachedEmbedder struct {
	next  Embedder
	cache *cache.Redis
	ttl   time.Duration
	log   *zap.Logger
}

// NewCachedEmbedder memoizes embeddings in Redis. Cache errors fall through
// to the wrapped embedder.
func NewCachedEmbedder(next Embedder, c *cache.Redis, ttl time.Duration, log *zap.Logger) Embedder {
	return &cachedEmbedder{next: next, cache: c, ttl: ttl, log: log}
}

func (c *cachedEmbedder) Dimension() int {
	return c.next.Dimension()
}

func (c *cachedEmbedder) ModelName() string {
	return c.next.ModelName()
}

// Embed implements Embedder.
func (c *cachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := embeddingCacheKey(c.next.ModelName(), c.next.Dimension(), text)

	var cached []float32
	found, err := c.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		c.log.Debug("embedding cache read failed", zap.Error(err))
	}
	if found && len(cached) == c.next.Dimension() {
		return cached, nil
	}

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetJSON(ctx, key, vec, c.ttl); err != nil {
		c.log.Debug("embedding cache write failed", zap.Error(err))
	}

	return vec, nil
}

func embeddingCacheKey(model string, dimension int, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("embedding:%s:%d:%s", model, dimension, hex.EncodeToString(sum[:]))
}

// CosineSimilarity returns the cosine of the angle between a and b. Zero
// vectors and length mismatches yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
