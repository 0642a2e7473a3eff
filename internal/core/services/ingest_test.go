package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corposearch/docqa-cli/internal/core/domain"
)

func newTestIngestService(t *testing.T, dir string) (*IngestService, *keywordEmbedder) {
	t.Helper()
	store := setupTestStore(t)
	embedder := newKeywordEmbedder()
	svc := NewIngestService(store, embedder, &passthroughExtractor{}, newTestSplitter(t), dir, 2)
	return svc, embedder
}

func TestIngestDirectory(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "therapy.pdf", "Manual therapy mobilizes stiff joints.")
	writeCorpusFile(t, dir, "exercise.pdf", "Exercise programs build strength over time.")
	writeCorpusFile(t, dir, "notes.txt", "ignored, unsupported extension")

	svc, _ := newTestIngestService(t, dir)
	ctx := context.Background()

	summary, err := svc.IngestDirectory(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 0, summary.Removed)
	assert.Equal(t, 2, summary.ChunksStored)
	assert.Empty(t, summary.Failures)

	// Titles come from the extracted content, not the filename
	docs, err := svc.store.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Exercise programs build strength over time.", docs[0].Title)
	assert.Equal(t, "Manual therapy mobilizes stiff joints.", docs[1].Title)
}

func TestIngestDirectory_SkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "therapy.pdf", "Manual therapy mobilizes stiff joints.")

	svc, embedder := newTestIngestService(t, dir)
	ctx := context.Background()

	_, err := svc.IngestDirectory(ctx, false)
	require.NoError(t, err)
	callsAfterFirst := embedder.batchCalls.Load()

	summary, err := svc.IngestDirectory(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, callsAfterFirst, embedder.batchCalls.Load(),
		"unchanged documents must not be re-embedded")
}

func TestIngestDirectory_ForceReembeds(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "therapy.pdf", "Manual therapy mobilizes stiff joints.")

	svc, embedder := newTestIngestService(t, dir)
	ctx := context.Background()

	_, err := svc.IngestDirectory(ctx, false)
	require.NoError(t, err)
	callsAfterFirst := embedder.batchCalls.Load()

	summary, err := svc.IngestDirectory(ctx, true)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Greater(t, embedder.batchCalls.Load(), callsAfterFirst)
}

func TestIngestDirectory_ChangedFileReingested(t *testing.T) {
	dir := t.TempDir()
	path := writeCorpusFile(t, dir, "therapy.pdf", "Manual therapy mobilizes stiff joints.")

	svc, _ := newTestIngestService(t, dir)
	ctx := context.Background()

	_, err := svc.IngestDirectory(ctx, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("Revised: manual therapy relieves pain."), 0600))

	summary, err := svc.IngestDirectory(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)

	// Still one document; same path maps to the same ID
	docs, err := svc.store.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, DocumentID(path), docs[0].ID)
}

func TestIngestDirectory_FailureIsolation(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "good.pdf", "Exercise programs build strength.")
	bad := writeCorpusFile(t, dir, "corrupt.pdf", "unreadable")

	store := setupTestStore(t)
	extractor := &passthroughExtractor{
		failPaths: map[string]error{
			bad: domain.ErrExtraction,
		},
	}
	svc := NewIngestService(store, newKeywordEmbedder(), extractor, newTestSplitter(t), dir, 2)
	ctx := context.Background()

	summary, err := svc.IngestDirectory(ctx, false)
	require.NoError(t, err, "one bad document must not abort the run")

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, summary.Failures, bad)

	docs, err := store.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Exercise programs build strength.", docs[0].Title)
}

func TestIngestDirectory_EmbeddingFailureKeepsPriorChunks(t *testing.T) {
	dir := t.TempDir()
	path := writeCorpusFile(t, dir, "therapy.pdf", "Manual therapy mobilizes stiff joints.")

	svc, embedder := newTestIngestService(t, dir)
	ctx := context.Background()

	_, err := svc.IngestDirectory(ctx, false)
	require.NoError(t, err)

	firstHash, err := svc.store.DocumentHash(ctx, DocumentID(path))
	require.NoError(t, err)
	chunksBefore, err := svc.store.CountChunks(ctx)
	require.NoError(t, err)
	require.Greater(t, chunksBefore, 0)

	// The revised file fails to embed; the stored version must survive
	// untouched, not be half-replaced or dropped.
	require.NoError(t, os.WriteFile(path, []byte("Revised: manual therapy relieves pain."), 0600))
	embedder.batchErr = domain.ErrEmbeddingService

	summary, err := svc.IngestDirectory(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, summary.Failures, path)

	chunksAfter, err := svc.store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, chunksBefore, chunksAfter)

	hashAfter, err := svc.store.DocumentHash(ctx, DocumentID(path))
	require.NoError(t, err)
	assert.Equal(t, firstHash, hashAfter, "failed re-ingest must not overwrite the stored document")

	// Once embedding recovers the revision goes through
	embedder.batchErr = nil
	summary, err = svc.IngestDirectory(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
}

func TestIngestDirectory_RemovesVanished(t *testing.T) {
	dir := t.TempDir()
	keep := writeCorpusFile(t, dir, "keep.pdf", "Manual therapy mobilizes stiff joints.")
	gone := writeCorpusFile(t, dir, "gone.pdf", "Ultrasound imaging guides treatment.")

	svc, _ := newTestIngestService(t, dir)
	ctx := context.Background()

	_, err := svc.IngestDirectory(ctx, false)
	require.NoError(t, err)

	require.NoError(t, os.Remove(gone))

	summary, err := svc.IngestDirectory(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Removed)

	docs, err := svc.store.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, keep, docs[0].Path)
}

func TestIngestDirectory_MissingDirectory(t *testing.T) {
	svc, _ := newTestIngestService(t, "/nonexistent/docs")
	_, err := svc.IngestDirectory(context.Background(), false)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestIngestDirectory_ConcurrentRunRefused(t *testing.T) {
	dir := t.TempDir()
	svc, _ := newTestIngestService(t, dir)

	require.True(t, svc.tryAcquire())
	defer svc.release()

	_, err := svc.IngestDirectory(context.Background(), false)
	assert.ErrorIs(t, err, domain.ErrIngestInProgress)
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "a.pdf", "Manual therapy mobilizes stiff joints.")
	writeCorpusFile(t, dir, "b.pdf", "Exercise programs build strength.")

	svc, _ := newTestIngestService(t, dir)
	ctx := context.Background()

	_, err := svc.IngestDirectory(ctx, false)
	require.NoError(t, err)

	removed, err := svc.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	count, err := svc.store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDocumentID_Deterministic(t *testing.T) {
	assert.Equal(t, DocumentID("/docs/a.pdf"), DocumentID("/docs/a.pdf"))
	assert.NotEqual(t, DocumentID("/docs/a.pdf"), DocumentID("/docs/b.pdf"))
}

func TestChunkID_Deterministic(t *testing.T) {
	docID := DocumentID("/docs/a.pdf")

	assert.Equal(t, ChunkID(docID, 0, "text"), ChunkID(docID, 0, "text"))
	assert.NotEqual(t, ChunkID(docID, 0, "text"), ChunkID(docID, 1, "text"))
	assert.NotEqual(t, ChunkID(docID, 0, "text"), ChunkID(docID, 0, "other"))
}

func TestIngestDirectory_ContextCancelled(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "a.pdf", "Manual therapy mobilizes stiff joints.")

	svc, _ := newTestIngestService(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.IngestDirectory(ctx, false)
	assert.True(t, errors.Is(err, context.Canceled))
}
