package services

import (
	"context"
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/models"
)

func sampleIndex() *JobIndex {
	entries := []models.IndexEntry{
		{
			Job:       models.Job{ID: "j1", Title: "Backend Engineer", Skills: models.NewSkillSet("go", "sql"), MinExperience: 2, MaxExperience: 5},
			Embedding: []float32{0.1, -0.2, 0.3, 0.4},
		},
		{
			Job:       models.Job{ID: "j2", Title: "Data Scientist", Skills: models.NewSkillSet("python", "machine learning"), MinExperience: 0, MaxExperience: 3.5},
			Embedding: []float32{1, 0, 0, 0},
		},
	}
	return NewJobIndex(entries, "hash-test", 4, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), models.IndexSourceBuilt)
}

func TestFileIndexStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "job_index.gob")
	store := NewFileIndexStore(path, "hash-test", 4, zap.NewNop())
	original := sampleIndex()

	require.NoError(t, store.Save(context.Background(), original))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, original.Entries(), loaded.Entries())
	assert.True(t, original.BuiltAt().Equal(loaded.BuiltAt()))
	assert.Equal(t, models.IndexSourceLoaded, loaded.Source())
	assert.Equal(t, "hash-test", loaded.Model())
	assert.Equal(t, 4, loaded.Dimension())

	entry, ok := loaded.Lookup("j2")
	require.True(t, ok)
	assert.Equal(t, "Data Scientist", entry.Job.Title)
}

func TestFileIndexStore_OverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job_index.gob")
	store := NewFileIndexStore(path, "hash-test", 4, zap.NewNop())

	require.NoError(t, store.Save(context.Background(), sampleIndex()))
	smaller := NewJobIndex(sampleIndex().Entries()[:1], "hash-test", 4, time.Now().UTC(), models.IndexSourceBuilt)
	require.NoError(t, store.Save(context.Background(), smaller))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1, "temporary files must not be left behind")
}

func TestFileIndexStore_MissingIsAbsent(t *testing.T) {
	store := NewFileIndexStore(filepath.Join(t.TempDir(), "none.gob"), "hash-test", 4, zap.NewNop())

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrIndexAbsent)
}

func TestFileIndexStore_CorruptIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job_index.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0644))
	store := NewFileIndexStore(path, "hash-test", 4, zap.NewNop())

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrIndexAbsent)
}

func TestFileIndexStore_IncompatibleIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job_index.gob")
	require.NoError(t, NewFileIndexStore(path, "hash-test", 4, zap.NewNop()).Save(context.Background(), sampleIndex()))

	_, err := NewFileIndexStore(path, "other-model", 4, zap.NewNop()).Load(context.Background())
	assert.ErrorIs(t, err, ErrIndexAbsent)

	_, err = NewFileIndexStore(path, "hash-test", 8, zap.NewNop()).Load(context.Background())
	assert.ErrorIs(t, err, ErrIndexAbsent)
}

func TestFileIndexStore_OldFormatIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job_index.gob")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, gob.NewEncoder(f).Encode(&indexBlob{Version: indexFormatVersion + 1, Model: "hash-test", Dimension: 4}))
	require.NoError(t, f.Close())

	_, err = NewFileIndexStore(path, "hash-test", 4, zap.NewNop()).Load(context.Background())
	assert.ErrorIs(t, err, ErrIndexAbsent)
}

func TestJobIndex_Lookup(t *testing.T) {
	idx := sampleIndex()

	_, ok := idx.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, idx.Len())

	var empty *JobIndex
	assert.Zero(t, empty.Len())
	assert.Nil(t, empty.Entries())
	_, ok = empty.Lookup("j1")
	assert.False(t, ok)
}

func TestJobPointID_IsStable(t *testing.T) {
	assert.Equal(t, jobPointID("j1"), jobPointID("j1"))
	assert.NotEqual(t, jobPointID("j1"), jobPointID("j2"))
}
