package services

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/models"
)

// indexFormatVersion is bumped whenever indexBlob changes shape.
const indexFormatVersion = 1

type indexBlob struct {
	Version   int
	Model     string
	Dimension int
	BuiltAt   time.Time
	Entries   []models.IndexEntry
}

type fileIndexStore struct {
	path      string
	model     string
	dimension int
	log       *zap.Logger
}

// NewFileIndexStore keeps the index as a single gob file. Blobs written for
// another format version, model or dimension load as ErrIndexAbsent.
func NewFileIndexStore(path, model string, dimension int, log *zap.Logger) IndexStore {
	return &fileIndexStore{
		path:      path,
		model:     model,
		dimension: dimension,
		log:       log,
	}
}

func (s *fileIndexStore) Name() string {
	return "file:" + s.path
}

func (s *fileIndexStore) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}
	return nil
}

// Save writes to a temporary file in the same directory and renames it over
// the previous blob, so readers never see a partial file.
func (s *fileIndexStore) Save(ctx context.Context, index *JobIndex) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDir(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp index file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	blob := indexBlob{
		Version:   indexFormatVersion,
		Model:     index.Model(),
		Dimension: index.Dimension(),
		BuiltAt:   index.BuiltAt(),
		Entries:   index.Entries(),
	}
	if err := gob.NewEncoder(tmp).Encode(&blob); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync index file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close index file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace index file: %w", err)
	}

	s.log.Info("job index saved",
		zap.String("path", s.path),
		zap.Int("jobs", index.Len()),
	)
	return nil
}

// Load implements IndexStore.
func (s *fileIndexStore) Load(ctx context.Context) (*JobIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrIndexAbsent
		}
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer f.Close()

	var blob indexBlob
	if err := gob.NewDecoder(f).Decode(&blob); err != nil {
		return nil, fmt.Errorf("failed to decode index file: %w", err)
	}

	if blob.Version != indexFormatVersion || blob.Model != s.model || blob.Dimension != s.dimension {
		s.log.Warn("stored job index is incompatible, ignoring",
			zap.String("path", s.path),
			zap.Int("version", blob.Version),
			zap.String("model", blob.Model),
			zap.Int("dimension", blob.Dimension),
		)
		return nil, ErrIndexAbsent
	}

	for _, e := range blob.Entries {
		if len(e.Embedding) != s.dimension {
			return nil, fmt.Errorf("job %s has a %d-dimensional embedding, expected %d", e.Job.ID, len(e.Embedding), s.dimension)
		}
	}

	return NewJobIndex(blob.Entries, blob.Model, blob.Dimension, blob.BuiltAt, models.IndexSourceLoaded), nil
}
