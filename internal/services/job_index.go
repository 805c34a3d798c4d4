package services

import (
	"context"
	"errors"
	"time"

	"humanwrk/job-recommender/internal/models"
)

// ErrIndexAbsent means the store holds no index usable with the current
// embedding model and dimension.
var ErrIndexAbsent = errors.New("job index absent")

// IndexStore persists whole job indexes. There are no partial updates.
type IndexStore interface {
	Save(ctx context.Context, index *JobIndex) error
	// Load returns ErrIndexAbsent when nothing usable is stored.
	Load(ctx context.Context) (*JobIndex, error)
	Name() string
}

// JobIndex is an immutable snapshot of the indexed jobs. It is never
// modified after construction, so it can be shared between requests
// without locking.
type JobIndex struct {
	entries   []models.IndexEntry
	byID      map[string]int
	model     string
	dimension int
	builtAt   time.Time
	source    models.IndexSource
}

func NewJobIndex(entries []models.IndexEntry, model string, dimension int, builtAt time.Time, source models.IndexSource) *JobIndex {
	idx := &JobIndex{
		entries:   entries,
		byID:      make(map[string]int, len(entries)),
		model:     model,
		dimension: dimension,
		builtAt:   builtAt,
		source:    source,
	}
	for i, e := range entries {
		if _, dup := idx.byID[e.Job.ID]; !dup {
			idx.byID[e.Job.ID] = i
		}
	}
	return idx
}

// Entries returns the indexed jobs in build order. Callers must not modify
// the returned slice.
func (x *JobIndex) Entries() []models.IndexEntry {
	if x == nil {
		return nil
	}
	return x.entries
}

func (x *JobIndex) Lookup(jobID string) (models.IndexEntry, bool) {
	if x == nil {
		return models.IndexEntry{}, false
	}
	i, ok := x.byID[jobID]
	if !ok {
		return models.IndexEntry{}, false
	}
	return x.entries[i], true
}

func (x *JobIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.entries)
}

func (x *JobIndex) Model() string              { return x.model }
func (x *JobIndex) Dimension() int             { return x.dimension }
func (x *JobIndex) BuiltAt() time.Time         { return x.builtAt }
func (x *JobIndex) Source() models.IndexSource { return x.source }
