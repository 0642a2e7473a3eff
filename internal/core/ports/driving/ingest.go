package driving

import (
	"context"

	"github.com/corposearch/docqa-cli/internal/core/domain"
)

// Ingestor runs document ingestion over the configured source directory.
type Ingestor interface {
	// IngestDirectory discovers source files, ingests new or changed
	// documents, removes documents whose files disappeared, and returns
	// a summary. With force set, the content-hash check is bypassed and
	// every document is re-ingested.
	IngestDirectory(ctx context.Context, force bool) (*domain.IngestSummary, error)

	// Watch blocks, re-running ingestion whenever the source directory
	// changes, until ctx is cancelled.
	Watch(ctx context.Context) error

	// Clear deletes every document and chunk from the store.
	Clear(ctx context.Context) (int, error)
}
