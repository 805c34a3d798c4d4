package services

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"

	"humanwrk/job-recommender/internal/models"
	"humanwrk/job-recommender/internal/repositories"
)

const testDimension = 16

var errEmbeddingUnavailable = errors.New("embedding provider unavailable")

// hashEmbedder buckets each word into a fixed-size vector so identical texts
// embed identically and overlapping texts have positive similarity.
type hashEmbedder struct {
	mu     sync.Mutex
	calls  int
	failOn map[string]bool
}

func newHashEmbedder() *hashEmbedder {
	return &hashEmbedder{failOn: map[string]bool{}}
}

func (h *hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	h.mu.Lock()
	h.calls++
	fail := h.failOn[text]
	h.mu.Unlock()

	if fail {
		return nil, errEmbeddingUnavailable
	}

	vec := make([]float32, testDimension)
	for _, word := range strings.Fields(text) {
		f := fnv.New32a()
		_, _ = f.Write([]byte(word))
		vec[f.Sum32()%testDimension] += 1
	}
	return vec, nil
}

func (h *hashEmbedder) Dimension() int    { return testDimension }
func (h *hashEmbedder) ModelName() string { return "hash-test" }

func (h *hashEmbedder) callCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

type fakeJobRepo struct {
	jobs []models.JobPosting
	err  error
}

func (f *fakeJobRepo) FindAll(context.Context) ([]models.JobPosting, error) {
	return f.jobs, f.err
}

type fakeApplicantRepo struct {
	byID map[string]models.Employment
	all  []models.Employment
	err  error
}

func (f *fakeApplicantRepo) FindByID(_ context.Context, id string) (*models.Employment, error) {
	if f.err != nil {
		return nil, f.err
	}
	emp, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrApplicantNotFound
	}
	return &emp, nil
}

func (f *fakeApplicantRepo) FindAll(context.Context) ([]models.Employment, error) {
	return f.all, f.err
}

func strPtr(s string) *string {
	return &s
}

func raw(v any) models.RawValue {
	return models.RawValue{Raw: v}
}
