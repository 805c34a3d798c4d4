package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"humanwrk/job-recommender/internal/models"
)

type IndexBuilder interface {
	// Build reads every job from the data source and embeds its skills.
	// Any failure aborts the build.
	Build(ctx context.Context) (*JobIndex, error)
}

type indexBuilder struct {
	source      DataSource
	embedder    SkillEmbedder
	concurrency int
	log         *zap.Logger
}

func NewIndexBuilder(source DataSource, embedder SkillEmbedder, concurrency int, log *zap.Logger) IndexBuilder {
	if concurrency < 1 {
		concurrency = 1
	}
	return &indexBuilder{
		source:      source,
		embedder:    embedder,
		concurrency: concurrency,
		log:         log,
	}
}

// Build implements IndexBuilder.
func (b *indexBuilder) Build(ctx context.Context) (*JobIndex, error) {
	started := time.Now()

	jobs, err := b.source.FetchJobs(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.IndexEntry, len(jobs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i := range jobs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			vec, err := b.embedder.EmbedSkills(gCtx, jobs[i].Skills)
			if err != nil {
				return fmt.Errorf("failed to embed job %s: %w", jobs[i].ID, err)
			}
			entries[i] = models.IndexEntry{Job: jobs[i], Embedding: vec}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.log.Info("job index built",
		zap.Int("jobs", len(entries)),
		zap.Int("workers", b.concurrency),
		zap.Duration("took", time.Since(started)),
	)

	return NewJobIndex(entries, b.embedder.ModelName(), b.embedder.Dimension(), time.Now().UTC(), models.IndexSourceBuilt), nil
}
