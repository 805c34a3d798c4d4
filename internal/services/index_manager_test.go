package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/models"
)

type memoryStore struct {
	mu      sync.Mutex
	index   *JobIndex
	loadErr error
	saveErr error
	saves   int
}

func (m *memoryStore) Save(_ context.Context, index *JobIndex) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.index = index
	return nil
}

func (m *memoryStore) Load(context.Context) (*JobIndex, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.index == nil {
		return nil, ErrIndexAbsent
	}
	return m.index, nil
}

func (m *memoryStore) Name() string { return "memory" }

func testPostings() []models.JobPosting {
	return []models.JobPosting{
		{JobID: "j1", JobTitle: strPtr("Go Developer"), Skills: raw("go, docker"), MinExp: raw(1), MaxExp: raw(3)},
		{JobID: "j2", JobTitle: strPtr("Analyst"), Skills: raw(`["sql", "excel"]`), MinExp: raw(0), MaxExp: raw(2)},
		{JobID: "j3", JobTitle: strPtr("Nothing"), Skills: raw(nil)},
		{JobID: "j4", JobTitle: strPtr("Platform Engineer"), Skills: raw("go, kubernetes, terraform"), MinExp: raw(4), MaxExp: raw(8)},
	}
}

func newTestBuilder(jobs *fakeJobRepo, embedder Embedder) IndexBuilder {
	ds := NewDataSource(jobs, &fakeApplicantRepo{}, NewSkillNormalizer(nil, zap.NewNop()), zap.NewNop())
	return NewIndexBuilder(ds, NewSkillEmbedder(embedder), 3, zap.NewNop())
}

func TestIndexBuilder_Build(t *testing.T) {
	idx, err := newTestBuilder(&fakeJobRepo{jobs: testPostings()}, newHashEmbedder()).Build(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, idx.Len())
	ids := make([]string, 0, idx.Len())
	for _, e := range idx.Entries() {
		ids = append(ids, e.Job.ID)
		assert.Len(t, e.Embedding, testDimension)
	}
	assert.Equal(t, []string{"j1", "j2", "j4"}, ids)
	assert.Equal(t, models.IndexSourceBuilt, idx.Source())
	assert.Equal(t, "hash-test", idx.Model())
	assert.Equal(t, testDimension, idx.Dimension())
	assert.False(t, idx.BuiltAt().IsZero())
}

func TestIndexBuilder_EmbeddingFailureAbortsBuild(t *testing.T) {
	embedder := newHashEmbedder()
	embedder.failOn["excel sql"] = true

	_, err := newTestBuilder(&fakeJobRepo{jobs: testPostings()}, embedder).Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errEmbeddingUnavailable)
	assert.Contains(t, err.Error(), "j2")
}

func TestIndexBuilder_SourceFailure(t *testing.T) {
	boom := errors.New("database down")

	_, err := newTestBuilder(&fakeJobRepo{err: boom}, newHashEmbedder()).Build(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestIndexManager_BuildsWhenAbsentAndPersists(t *testing.T) {
	store := &memoryStore{}
	manager := NewIndexManager(newTestBuilder(&fakeJobRepo{jobs: testPostings()}, newHashEmbedder()), store, zap.NewNop())

	assert.Nil(t, manager.Current())
	assert.False(t, manager.Status().Ready)

	require.NoError(t, manager.LoadOrBuild(context.Background()))

	require.NotNil(t, manager.Current())
	assert.Equal(t, 3, manager.Current().Len())
	assert.Equal(t, 1, store.saves)

	status := manager.Status()
	assert.True(t, status.Ready)
	assert.Equal(t, 3, status.JobCount)
	assert.Equal(t, models.IndexSourceBuilt, status.Source)
	assert.NotNil(t, status.BuiltAt)
	assert.Equal(t, testDimension, status.Dimension)
}

func TestIndexManager_PrefersStoredIndex(t *testing.T) {
	stored := NewJobIndex(sampleIndex().Entries(), "hash-test", 4, time.Now(), models.IndexSourceLoaded)
	jobs := &fakeJobRepo{err: errors.New("must not be called")}
	manager := NewIndexManager(newTestBuilder(jobs, newHashEmbedder()), &memoryStore{index: stored}, zap.NewNop())

	require.NoError(t, manager.LoadOrBuild(context.Background()))
	assert.Same(t, stored, manager.Current())
	assert.Equal(t, models.IndexSourceLoaded, manager.Status().Source)
}

func TestIndexManager_CorruptStoreTriggersRebuild(t *testing.T) {
	store := &memoryStore{loadErr: errors.New("unexpected EOF")}
	manager := NewIndexManager(newTestBuilder(&fakeJobRepo{jobs: testPostings()}, newHashEmbedder()), store, zap.NewNop())

	require.NoError(t, manager.LoadOrBuild(context.Background()))
	assert.Equal(t, 3, manager.Current().Len())
}

func TestIndexManager_BuildFailureIsFatal(t *testing.T) {
	boom := errors.New("database down")
	manager := NewIndexManager(newTestBuilder(&fakeJobRepo{err: boom}, newHashEmbedder()), &memoryStore{}, zap.NewNop())

	err := manager.LoadOrBuild(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, manager.Current())
	assert.Contains(t, manager.Status().LastError, "database down")
}

func TestIndexManager_SaveFailureKeepsIndex(t *testing.T) {
	store := &memoryStore{saveErr: errors.New("disk full")}
	manager := NewIndexManager(newTestBuilder(&fakeJobRepo{jobs: testPostings()}, newHashEmbedder()), store, zap.NewNop())

	require.NoError(t, manager.LoadOrBuild(context.Background()))
	assert.Equal(t, 3, manager.Current().Len())
}

func TestIndexManager_FailedRebuildKeepsSnapshot(t *testing.T) {
	jobs := &fakeJobRepo{jobs: testPostings()}
	manager := NewIndexManager(newTestBuilder(jobs, newHashEmbedder()), &memoryStore{}, zap.NewNop())
	require.NoError(t, manager.LoadOrBuild(context.Background()))
	before := manager.Current()

	jobs.err = errors.New("database down")
	require.Error(t, manager.Rebuild(context.Background()))

	assert.Same(t, before, manager.Current())
	assert.True(t, manager.Status().Ready)
}

func TestIndexManager_WithFileStoreReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job_index.gob")
	embedder := newHashEmbedder()
	store := NewFileIndexStore(path, embedder.ModelName(), embedder.Dimension(), zap.NewNop())

	first := NewIndexManager(newTestBuilder(&fakeJobRepo{jobs: testPostings()}, embedder), store, zap.NewNop())
	require.NoError(t, first.LoadOrBuild(context.Background()))

	second := NewIndexManager(newTestBuilder(&fakeJobRepo{err: errors.New("unused")}, embedder), store, zap.NewNop())
	require.NoError(t, second.LoadOrBuild(context.Background()))

	assert.Equal(t, first.Current().Entries(), second.Current().Entries())
	assert.Equal(t, models.IndexSourceLoaded, second.Current().Source())
}
