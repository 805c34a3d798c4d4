package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/models"
)

const qdrantUpsertBatchSize = 256

// jobPointNamespace derives stable point ids from job ids so a rebuild
// overwrites the same points.
var jobPointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("humanwrk:job-index"))

type qdrantIndexStore struct {
	client     *qdrant.Client
	collection string
	model      string
	dimension  int
	log        *zap.Logger
}

// NewQdrantIndexStore keeps the job index in a Qdrant collection, one point
// per job with the job fields in the payload.
func NewQdrantIndexStore(urlStr, apiKey, collection, model string, dimension int, log *zap.Logger) (IndexStore, error) {
	client, err := newQdrantClient(urlStr, apiKey)
	if err != nil {
		return nil, err
	}

	return &qdrantIndexStore{
		client:     client,
		collection: collection,
		model:      model,
		dimension:  dimension,
		log:        log,
	}, nil
}

func newQdrantClient(urlStr, apiKey string) (*qdrant.Client, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return client, nil
}

func (q *qdrantIndexStore) Name() string {
	return "qdrant:" + q.collection
}

// Save replaces the whole collection with the given index.
func (q *qdrantIndexStore) Save(ctx context.Context, index *JobIndex) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		if err := q.client.DeleteCollection(ctx, q.collection); err != nil {
			return fmt.Errorf("failed to drop collection: %w", err)
		}
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(index.Dimension()),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	builtAt := index.BuiltAt().UTC().Format(time.RFC3339Nano)
	entries := index.Entries()
	for start := 0; start < len(entries); start += qdrantUpsertBatchSize {
		end := min(start+qdrantUpsertBatchSize, len(entries))

		points := make([]*qdrant.PointStruct, 0, end-start)
		for i := start; i < end; i++ {
			points = append(points, q.toPoint(i, entries[i], index.Model(), builtAt))
		}

		_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: q.collection,
			Wait:           qdrant.PtrOf(true),
			Points:         points,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert points: %w", err)
		}
	}

	q.log.Info("job index saved",
		zap.String("collection", q.collection),
		zap.Int("jobs", len(entries)),
	)
	return nil
}

func (q *qdrantIndexStore) toPoint(position int, entry models.IndexEntry, model, builtAt string) *qdrant.PointStruct {
	skills := make([]any, 0, len(entry.Job.Skills))
	for _, s := range entry.Job.Skills {
		skills = append(skills, s)
	}

	return &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(jobPointID(entry.Job.ID)),
		Vectors: qdrant.NewVectors(entry.Embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"job_id":          entry.Job.ID,
			"job_title":       entry.Job.Title,
			"skills":          skills,
			"min_experience":  entry.Job.MinExperience,
			"max_experience":  entry.Job.MaxExperience,
			"position":        int64(position),
			"embedding_model": model,
			"built_at":        builtAt,
		}),
	}
}

func jobPointID(jobID string) string {
	return uuid.NewSHA1(jobPointNamespace, []byte(jobID)).String()
}

// Load implements IndexStore.
func (q *qdrantIndexStore) Load(ctx context.Context) (*JobIndex, error) {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection: %w", err)
	}
	if !exists {
		return nil, ErrIndexAbsent
	}

	count, err := q.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: q.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count points: %w", err)
	}
	if count == 0 {
		return nil, ErrIndexAbsent
	}

	points, err := q.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: q.collection,
		Limit:          qdrant.PtrOf(uint32(count)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scroll points: %w", err)
	}

	type positioned struct {
		position int64
		entry    models.IndexEntry
	}
	loaded := make([]positioned, 0, len(points))
	var builtAt time.Time

	for _, point := range points {
		payload := point.GetPayload()

		if model := payload["embedding_model"].GetStringValue(); model != q.model {
			q.log.Warn("stored job index uses another embedding model, ignoring",
				zap.String("collection", q.collection),
				zap.String("model", model),
			)
			return nil, ErrIndexAbsent
		}

		vector := point.GetVectors().GetVector().GetData()
		if len(vector) != q.dimension {
			q.log.Warn("stored job index has another dimension, ignoring",
				zap.String("collection", q.collection),
				zap.Int("dimension", len(vector)),
			)
			return nil, ErrIndexAbsent
		}

		var skills []string
		for _, v := range payload["skills"].GetListValue().GetValues() {
			skills = append(skills, v.GetStringValue())
		}

		if builtAt.IsZero() {
			if t, err := time.Parse(time.RFC3339Nano, payload["built_at"].GetStringValue()); err == nil {
				builtAt = t
			}
		}

		loaded = append(loaded, positioned{
			position: payload["position"].GetIntegerValue(),
			entry: models.IndexEntry{
				Job: models.Job{
					ID:            payload["job_id"].GetStringValue(),
					Title:         payload["job_title"].GetStringValue(),
					Skills:        models.NewSkillSet(skills...),
					MinExperience: payload["min_experience"].GetDoubleValue(),
					MaxExperience: payload["max_experience"].GetDoubleValue(),
				},
				Embedding: vector,
			},
		})
	}

	sort.SliceStable(loaded, func(i, j int) bool {
		return loaded[i].position < loaded[j].position
	})

	entries := make([]models.IndexEntry, 0, len(loaded))
	for _, p := range loaded {
		entries = append(entries, p.entry)
	}

	return NewJobIndex(entries, q.model, q.dimension, builtAt, models.IndexSourceLoaded), nil
}
