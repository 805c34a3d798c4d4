package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/models"
)

var ErrRebuildInProgress = errors.New("job index rebuild already in progress")

type IndexManager interface {
	// LoadOrBuild publishes the stored index, or builds and saves a new one
	// when the store has nothing usable. A failed build is returned.
	LoadOrBuild(ctx context.Context) error
	// Rebuild builds a fresh index and swaps it in. On failure the current
	// snapshot stays published.
	Rebuild(ctx context.Context) error
	// Current returns the published snapshot, or nil before the first
	// successful load or build.
	Current() *JobIndex
	Status() models.IndexStatusResponse
}

type indexManager struct {
	builder IndexBuilder
	store   IndexStore
	log     *zap.Logger

	current    atomic.Pointer[JobIndex]
	rebuilding atomic.Bool

	mu      sync.Mutex
	lastErr error
}

func NewIndexManager(builder IndexBuilder, store IndexStore, log *zap.Logger) IndexManager {
	return &indexManager{
		builder: builder,
		store:   store,
		log:     log,
	}
}

// LoadOrBuild implements IndexManager.
func (m *indexManager) LoadOrBuild(ctx context.Context) error {
	index, err := m.store.Load(ctx)
	switch {
	case err == nil && index.Len() > 0:
		m.current.Store(index)
		m.log.Info("job index loaded",
			zap.String("store", m.store.Name()),
			zap.Int("jobs", index.Len()),
			zap.Time("built_at", index.BuiltAt()),
		)
		return nil
	case err == nil, errors.Is(err, ErrIndexAbsent):
		m.log.Info("no stored job index, building", zap.String("store", m.store.Name()))
	default:
		m.log.Warn("failed to load job index, rebuilding",
			zap.String("store", m.store.Name()),
			zap.Error(err),
		)
	}

	if err := m.Rebuild(ctx); err != nil {
		return fmt.Errorf("failed to build job index: %w", err)
	}
	return nil
}

// Rebuild implements IndexManager.
func (m *indexManager) Rebuild(ctx context.Context) error {
	if !m.rebuilding.CompareAndSwap(false, true) {
		return ErrRebuildInProgress
	}
	defer m.rebuilding.Store(false)

	index, err := m.builder.Build(ctx)
	if err != nil {
		m.setLastErr(err)
		m.log.Error("job index build failed", zap.Error(err))
		return err
	}

	m.current.Store(index)
	m.setLastErr(nil)

	if err := m.store.Save(ctx, index); err != nil {
		m.log.Warn("failed to persist job index",
			zap.String("store", m.store.Name()),
			zap.Error(err),
		)
	}

	return nil
}

func (m *indexManager) Current() *JobIndex {
	return m.current.Load()
}

// Status implements IndexManager.
func (m *indexManager) Status() models.IndexStatusResponse {
	status := models.IndexStatusResponse{
		Rebuilding: m.rebuilding.Load(),
	}

	m.mu.Lock()
	if m.lastErr != nil {
		status.LastError = m.lastErr.Error()
	}
	m.mu.Unlock()

	index := m.current.Load()
	if index == nil {
		return status
	}

	builtAt := index.BuiltAt()
	status.Ready = index.Len() > 0
	status.JobCount = index.Len()
	status.Source = index.Source()
	status.BuiltAt = &builtAt
	status.EmbeddingModel = index.Model()
	status.Dimension = index.Dimension()
	return status
}

func (m *indexManager) setLastErr(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}
