package domain

import "time"

// Document represents a source file that has been ingested.
// It is keyed by a stable ID derived from the file path; the content
// hash decides whether re-ingestion is needed.
type Document struct {
	// ID is the unique identifier for the document, stable across runs.
	ID string

	// Path is the location of the source file.
	Path string

	// Title is a human-readable title, usually derived from the filename.
	Title string

	// Hash is the SHA-256 hex digest of the raw file content.
	Hash string

	// ChunkCount is the number of chunks stored for this document.
	ChunkCount int

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-indexed.
	UpdatedAt time.Time
}

// Chunk is the atomic retrieval unit: a passage of document text with
// its position and, once computed, its embedding vector.
type Chunk struct {
	// ID is the unique chunk identifier. It is derived deterministically
	// from (DocumentID, SequenceIndex, Text), so re-embedding unchanged
	// content keeps the same ID.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// SequenceIndex is the ordinal position within the document,
	// contiguous from 0.
	SequenceIndex int

	// Text is the passage content.
	Text string

	// StartOffset and EndOffset are character offsets into the extracted
	// document text, kept for provenance.
	StartOffset int
	EndOffset   int

	// Embedding is the vector representation. Nil until embedded; once
	// set, its length is fixed by the embedding model configuration.
	Embedding []float32
}

// IngestSummary reports the outcome of an ingestion run.
type IngestSummary struct {
	// Processed is the number of documents extracted, embedded and stored.
	Processed int

	// Skipped is the number of documents whose content hash was unchanged.
	Skipped int

	// Failed is the number of documents that could not be ingested.
	Failed int

	// Removed is the number of documents deleted because their source
	// file disappeared.
	Removed int

	// ChunksStored is the total number of chunks written this run.
	ChunksStored int

	// Failures records per-document failure causes, keyed by path.
	Failures map[string]string
}

// Total returns the number of documents considered by the run.
func (s *IngestSummary) Total() int {
	return s.Processed + s.Skipped + s.Failed
}
