package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/corposearch/docqa-cli/internal/chunker"
	"github.com/corposearch/docqa-cli/internal/core/domain"
	"github.com/corposearch/docqa-cli/internal/core/ports/driven"
	"github.com/corposearch/docqa-cli/internal/core/ports/driving"
	"github.com/corposearch/docqa-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// documentNamespace seeds deterministic document IDs. The same file path
// always maps to the same document ID across runs.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("docqa/document"))

// watchDebounce batches filesystem event bursts into one ingestion run.
const watchDebounce = 500 * time.Millisecond

// IngestService coordinates document ingestion: discovery, extraction,
// chunking, embedding and storage.
type IngestService struct {
	store     driven.DocumentStore
	embedder  driven.EmbeddingService
	extractor driven.Extractor
	splitter  *chunker.Splitter

	dir     string
	workers int

	// Serialises ingestion runs; a second concurrent run is refused.
	mu     sync.Mutex
	active bool
}

// NewIngestService creates an ingest service over the given document
// directory. workers bounds concurrent document processing.
func NewIngestService(
	store driven.DocumentStore,
	embedder driven.EmbeddingService,
	extractor driven.Extractor,
	splitter *chunker.Splitter,
	dir string,
	workers int,
) *IngestService {
	if workers <= 0 {
		workers = 1
	}
	return &IngestService{
		store:     store,
		embedder:  embedder,
		extractor: extractor,
		splitter:  splitter,
		dir:       dir,
		workers:   workers,
	}
}

// IngestDirectory discovers source files and ingests new or changed
// documents. Unchanged documents (same content hash) are skipped unless
// force is set. Documents whose files vanished are removed. One failing
// document never aborts the run; its error is recorded in the summary.
func (s *IngestService) IngestDirectory(ctx context.Context, force bool) (*domain.IngestSummary, error) {
	if !s.tryAcquire() {
		return nil, domain.ErrIngestInProgress
	}
	defer s.release()

	paths, err := s.discover()
	if err != nil {
		return nil, err
	}
	logger.Info("Found %d documents in %s", len(paths), s.dir)

	summary := &domain.IngestSummary{Failures: make(map[string]string)}
	var summaryMu sync.Mutex

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for _, path := range paths {
		select {
		case <-ctx.Done():
			wg.Wait()
			return summary, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			stored, err := s.ingestOne(ctx, path, force)
			summaryMu.Lock()
			defer summaryMu.Unlock()
			switch {
			case err != nil:
				logger.Warn("Failed to ingest %s: %v", path, err)
				summary.Failed++
				summary.Failures[path] = err.Error()
			case stored == 0:
				summary.Skipped++
			default:
				summary.Processed++
				summary.ChunksStored += stored
			}
		}(path)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	removed, err := s.removeVanished(ctx, paths)
	if err != nil {
		return summary, err
	}
	summary.Removed = removed

	logger.Info("Ingestion complete: %d processed, %d skipped, %d failed, %d removed",
		summary.Processed, summary.Skipped, summary.Failed, summary.Removed)
	return summary, nil
}

// Clear deletes every document and chunk from the store and returns the
// number of documents removed.
func (s *IngestService) Clear(ctx context.Context) (int, error) {
	if !s.tryAcquire() {
		return 0, domain.ErrIngestInProgress
	}
	defer s.release()

	docs, err := s.store.Documents(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.store.ClearAll(ctx); err != nil {
		return 0, err
	}
	logger.Info("Cleared %d documents from the store", len(docs))
	return len(docs), nil
}

// Watch blocks, re-running ingestion whenever a relevant file in the
// source directory changes, until ctx is cancelled.
func (s *IngestService) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watching %s: %w", s.dir, err)
	}
	logger.Info("Watching %s for changes", s.dir)

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevantEvent(event) {
				continue
			}
			logger.Debug("Change detected: %s (%s)", event.Name, event.Op)
			// Debounce: editors and copies fire event bursts
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-pending:
			pending = nil
			summary, err := s.IngestDirectory(ctx, false)
			switch {
			case errors.Is(err, context.Canceled):
				return err
			case errors.Is(err, domain.ErrIngestInProgress):
				logger.Debug("Ingestion already running, skipping")
			case err != nil:
				logger.Warn("Ingestion after change failed: %v", err)
			default:
				logger.Info("Re-ingested: %d processed, %d removed",
					summary.Processed, summary.Removed)
			}
		}
	}
}

// relevantEvent reports whether a filesystem event should trigger
// re-ingestion: create/write/remove/rename of a supported, non-hidden
// file.
func (s *IngestService) relevantEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return s.supported(event.Name)
}

// discover walks the source directory collecting supported files,
// sorted for deterministic processing order.
func (s *IngestService) discover() ([]string, error) {
	info, err := os.Stat(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: document directory %s: %w", domain.ErrConfiguration, s.dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrConfiguration, s.dir)
	}

	var paths []string
	err = filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if s.supported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.dir, err)
	}

	sort.Strings(paths)
	return paths, nil
}

func (s *IngestService) supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range s.extractor.SupportedExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// ingestOne processes a single file. Returns the number of chunks stored,
// zero when the document was skipped as unchanged.
func (s *IngestService) ingestOne(ctx context.Context, path string, force bool) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s: %w", domain.ErrExtraction, path, err)
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	docID := DocumentID(path)

	if !force {
		stored, err := s.store.DocumentHash(ctx, docID)
		switch {
		case err == nil && stored == hash:
			logger.Debug("Unchanged, skipping: %s", path)
			return 0, nil
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return 0, err
		}
	}

	text, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return 0, err
	}

	pieces := s.splitter.Split(text)
	if len(pieces) == 0 {
		return 0, fmt.Errorf("%w: %s produced no chunks", domain.ErrExtraction, path)
	}

	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.Text
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, err
	}
	if len(embeddings) != len(pieces) {
		return 0, fmt.Errorf("%w: expected %d embeddings, got %d",
			domain.ErrEmbeddingService, len(pieces), len(embeddings))
	}

	chunks := make([]domain.Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = domain.Chunk{
			ID:            ChunkID(docID, i, p.Text),
			DocumentID:    docID,
			SequenceIndex: i,
			Text:          p.Text,
			StartOffset:   p.Start,
			EndOffset:     p.End,
			Embedding:     embeddings[i],
		}
	}

	doc := &domain.Document{
		ID:    docID,
		Path:  path,
		Title: s.extractor.ExtractTitle(text, path),
		Hash:  hash,
	}
	if err := s.store.UpsertDocument(ctx, doc, chunks); err != nil {
		return 0, err
	}

	logger.Debug("Ingested %s: %d chunks", path, len(chunks))
	return len(chunks), nil
}

// removeVanished deletes stored documents whose source files are gone.
func (s *IngestService) removeVanished(ctx context.Context, present []string) (int, error) {
	known := make(map[string]struct{}, len(present))
	for _, p := range present {
		known[p] = struct{}{}
	}

	docs, err := s.store.Documents(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, doc := range docs {
		if _, ok := known[doc.Path]; ok {
			continue
		}
		logger.Debug("Removing vanished document: %s", doc.Path)
		if err := s.store.DeleteDocument(ctx, doc.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *IngestService) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return false
	}
	s.active = true
	return true
}

func (s *IngestService) release() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

// DocumentID derives the stable document ID for a file path.
func DocumentID(path string) string {
	return uuid.NewSHA1(documentNamespace, []byte(path)).String()
}

// ChunkID derives the stable chunk ID from its document, position and
// text. Re-embedding the same content yields the same IDs.
func ChunkID(documentID string, sequenceIndex int, text string) string {
	docUUID, err := uuid.Parse(documentID)
	if err != nil {
		docUUID = documentNamespace
	}
	return uuid.NewSHA1(docUUID, []byte(fmt.Sprintf("%d:%s", sequenceIndex, text))).String()
}
