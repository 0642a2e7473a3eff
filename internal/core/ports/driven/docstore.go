package driven

import (
	"context"

	"github.com/corposearch/docqa-cli/internal/core/domain"
)

// DocumentStore persists documents and their chunks. It is the single
// source of truth; the in-memory vector index is a projection rebuilt
// from it.
//
// Backed by SQLite for durable storage.
type DocumentStore interface {
	// UpsertDocument atomically replaces the document record and all of
	// its chunks: delete-then-insert inside one transaction, so readers
	// never observe a partially replaced document.
	UpsertDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// DeleteDocument removes a document and all of its chunks.
	DeleteDocument(ctx context.Context, documentID string) error

	// DocumentHash returns the stored content hash for a document.
	// Returns domain.ErrNotFound when the document is absent.
	DocumentHash(ctx context.Context, documentID string) (string, error)

	// Documents returns all stored documents with their chunk counts.
	Documents(ctx context.Context) ([]domain.Document, error)

	// AllChunks scans every stored chunk in (document_id, sequence_index)
	// order, invoking fn for each. The scan is restartable: calling
	// AllChunks again begins a fresh pass. A non-nil error from fn stops
	// the scan and is returned.
	AllChunks(ctx context.Context, fn func(domain.Chunk) error) error

	// CountChunks returns the total number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// Revision returns a monotonically increasing marker bumped by every
	// write. The vector index compares it to detect staleness.
	Revision(ctx context.Context) (int64, error)

	// ClearAll removes every document and chunk.
	ClearAll(ctx context.Context) error

	// Close releases the underlying database handle.
	Close() error
}
