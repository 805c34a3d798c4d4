package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"humanwrk/job-recommender/internal/cache"
	"humanwrk/job-recommender/internal/config"
	"humanwrk/job-recommender/internal/repositories"
	"humanwrk/job-recommender/internal/services"
)

// Components are the long-lived services shared by the API server and the
// indexer CLI.
type Components struct {
	DB         *gorm.DB
	Cache      *cache.Redis
	DataSource services.DataSource
	Embedder   services.SkillEmbedder
	Scorer     services.MatchScorer
	Store      services.IndexStore
	Manager    services.IndexManager
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Components, error) {
	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	jobRepo := repositories.NewJobRepository(db)
	applicantRepo := repositories.NewApplicantRepository(db)

	dictionary, err := services.LoadSkillDictionary(cfg.Skills.DictionaryPath)
	if err != nil {
		log.Warn("skill dictionary unavailable, description skills disabled",
			zap.String("path", cfg.Skills.DictionaryPath),
			zap.Error(err),
		)
	}
	normalizer := services.NewSkillNormalizer(dictionary, log)
	log.Info("skill dictionary loaded", zap.Int("skills", normalizer.DictionarySize()))

	dataSource := services.NewDataSource(jobRepo, applicantRepo, normalizer, log)

	c := &Components{DB: db, DataSource: dataSource}

	c.Embedder, c.Cache, err = NewEmbedder(ctx, cfg, log)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Store, err = NewIndexStore(cfg, log)
	if err != nil {
		c.Close()
		return nil, err
	}

	builder := services.NewIndexBuilder(dataSource, c.Embedder, cfg.Index.BuildConcurrency, log)
	c.Scorer = services.NewMatchScorer(c.Embedder, log)
	c.Manager = services.NewIndexManager(builder, c.Store, log)

	return c, nil
}

// NewEmbedder returns the Gemini embedder behind the Redis embedding cache.
// The cache degrades to a pass-through when disabled or unreachable.
func NewEmbedder(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.SkillEmbedder, *cache.Redis, error) {
	embedder, err := services.NewGeminiEmbedder(ctx,
		cfg.Gemini.APIKey,
		cfg.Gemini.EmbeddingModel,
		cfg.Gemini.Dimension,
		cfg.Gemini.MaxRetries,
		log,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	redisCache := cache.Disabled()
	if cfg.Redis.Enabled {
		redisCache = cache.NewRedis(cfg.GetRedisAddr(), cfg.Redis.Password, log)
	}

	cached := services.NewCachedEmbedder(embedder, redisCache, cfg.Redis.EmbeddingTTL, log)
	return services.NewSkillEmbedder(cached), redisCache, nil
}

// NewIndexStore selects the index backend named by INDEX_STORE.
func NewIndexStore(cfg *config.Config, log *zap.Logger) (services.IndexStore, error) {
	switch cfg.Index.Store {
	case config.IndexStoreFile:
		return services.NewFileIndexStore(cfg.Index.BlobPath, cfg.Gemini.EmbeddingModel, cfg.Gemini.Dimension, log), nil
	case config.IndexStoreQdrant:
		store, err := services.NewQdrantIndexStore(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			cfg.Gemini.EmbeddingModel,
			cfg.Gemini.Dimension,
			log,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize qdrant index store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown index store %q", cfg.Index.Store)
	}
}

// Close releases the database pool and the cache connection.
func (c *Components) Close() {
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
