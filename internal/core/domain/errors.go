package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates invalid or missing configuration,
	// fatal at startup (e.g. overlap >= chunk size, missing dimension).
	ErrConfiguration = errors.New("invalid configuration")

	// ErrExtraction indicates a source file could not be read or parsed.
	// Per-document: ingestion records it and continues with the batch.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmbeddingService indicates the embedding service failed after
	// retries were exhausted. The affected document keeps its previous
	// chunk set; the error is never papered over with zero vectors.
	ErrEmbeddingService = errors.New("embedding service failed")

	// ErrGenerationService indicates the generation service failed.
	ErrGenerationService = errors.New("generation service failed")

	// ErrGenerationPermanent marks a generation failure that retrying
	// cannot fix (malformed prompt, exceeded token budget).
	ErrGenerationPermanent = errors.New("generation request rejected")

	// ErrStorage indicates a persistence failure. The store remains
	// internally consistent: per-document writes are transactional.
	ErrStorage = errors.New("storage failure")

	// ErrDimensionMismatch indicates an embedding whose length differs
	// from the dimension already established for the store.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrIngestInProgress indicates an ingestion run is already active.
	ErrIngestInProgress = errors.New("ingestion in progress")
)
