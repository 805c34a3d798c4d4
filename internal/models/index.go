package models

import "time"

// IndexEntry is a job together with the embedding of its skill set.
type IndexEntry struct {
	Job       Job
	Embedding []float32
}

// IndexSource tells whether a snapshot was read from the store or built.
type IndexSource string

const (
	IndexSourceLoaded IndexSource = "loaded"
	IndexSourceBuilt  IndexSource = "built"
)

type IndexStatusResponse struct {
	Ready          bool        `json:"ready"`
	JobCount       int         `json:"job_count"`
	Source         IndexSource `json:"source,omitempty"`
	BuiltAt        *time.Time  `json:"built_at,omitempty"`
	EmbeddingModel string      `json:"embedding_model,omitempty"`
	Dimension      int         `json:"dimension,omitempty"`
	Rebuilding     bool        `json:"rebuilding"`
	LastError      string      `json:"last_error,omitempty"`
}
