package domain

import "time"

// HealthReport aggregates store size, index freshness and the
// reachability of the external embedding and generation services.
type HealthReport struct {
	// Documents and Chunks are the persistent store counts.
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`

	// StorePath is the location of the SQLite database file.
	StorePath string `json:"store_path"`

	// IndexFresh is true when the in-memory vector index matches the
	// store's chunk count and revision marker.
	IndexFresh bool `json:"index_fresh"`

	// IndexBuiltAt is when the vector index was last rebuilt; zero when
	// it has never been built in this process.
	IndexBuiltAt time.Time `json:"index_built_at,omitzero"`

	// EmbeddingReachable and GenerationReachable report service pings.
	EmbeddingReachable  bool   `json:"embedding_reachable"`
	GenerationReachable bool   `json:"generation_reachable"`
	EmbeddingModel      string `json:"embedding_model"`
	GenerationModel     string `json:"generation_model"`

	// EmbeddingError and GenerationError carry ping failure causes.
	EmbeddingError  string `json:"embedding_error,omitempty"`
	GenerationError string `json:"generation_error,omitempty"`
}

// Healthy reports whether every component responded.
func (r *HealthReport) Healthy() bool {
	return r.EmbeddingReachable && r.GenerationReachable
}
