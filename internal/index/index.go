// Package index provides an in-memory vector index over stored chunks.
//
// The index is a rebuildable projection of the document store, never a
// second source of truth: it is rebuilt from scratch whenever the store's
// chunk count or revision marker diverges from what the current snapshot
// was built from. Searches are brute-force cosine similarity scans, which
// keeps ordering semantics exact and deterministic.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/corposearch/docqa-cli/internal/core/domain"
	"github.com/corposearch/docqa-cli/internal/core/ports/driven"
	"github.com/corposearch/docqa-cli/internal/logger"
)

// entry is one indexed chunk with its precomputed vector norm.
type entry struct {
	chunk domain.Chunk
	norm  float64
}

// snapshot is an immutable build of the index. Readers search whichever
// snapshot was current when they started; rebuilds swap in a new one
// atomically.
type snapshot struct {
	entries  []entry
	count    int
	revision int64
	builtAt  time.Time
}

// Index is a shared, rebuildable vector index. Concurrent searches are
// permitted against the current snapshot while a rebuild is in progress;
// rebuilds themselves are mutually exclusive.
type Index struct {
	mu   sync.RWMutex // guards snap pointer
	snap *snapshot

	rebuildMu sync.Mutex // single-writer rebuild guard
}

// New creates an empty, unbuilt index.
func New() *Index {
	return &Index{}
}

// Built reports whether the index has been built at least once.
func (ix *Index) Built() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.snap != nil
}

// BuiltAt returns when the current snapshot was built, or the zero time.
func (ix *Index) BuiltAt() time.Time {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.snap == nil {
		return time.Time{}
	}
	return ix.snap.builtAt
}

// Size returns the number of indexed vectors.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.snap == nil {
		return 0
	}
	return len(ix.snap.entries)
}

// Stale reports whether the index must be rebuilt before the next search,
// given the store's current chunk count and revision marker. An index
// that has never been built is always stale.
func (ix *Index) Stale(count int, revision int64) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.snap == nil {
		return true
	}
	return ix.snap.count != count || ix.snap.revision != revision
}

// Rebuild constructs a fresh snapshot from the document store and swaps
// it in atomically. Only one rebuild runs at a time; searches against the
// previous snapshot proceed concurrently.
func (ix *Index) Rebuild(ctx context.Context, store driven.DocumentStore) error {
	ix.rebuildMu.Lock()
	defer ix.rebuildMu.Unlock()

	revision, err := store.Revision(ctx)
	if err != nil {
		return fmt.Errorf("read store revision: %w", err)
	}
	count, err := store.CountChunks(ctx)
	if err != nil {
		return fmt.Errorf("count chunks: %w", err)
	}

	// Another caller may have rebuilt while we waited for the guard.
	if !ix.Stale(count, revision) {
		logger.Debug("Index rebuild skipped: already fresh (revision %d)", revision)
		return nil
	}

	logger.Section("Vector Index Rebuild")
	logger.Debug("Rebuilding from store: %d chunks, revision %d", count, revision)

	entries := make([]entry, 0, count)
	err = store.AllChunks(ctx, func(c domain.Chunk) error {
		if len(c.Embedding) == 0 {
			logger.Warn("Chunk %s has no embedding, excluded from index", c.ID)
			return nil
		}
		entries = append(entries, entry{chunk: c, norm: vectorNorm(c.Embedding)})
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan chunks: %w", err)
	}

	snap := &snapshot{
		entries:  entries,
		count:    count,
		revision: revision,
		builtAt:  time.Now(),
	}

	ix.mu.Lock()
	ix.snap = snap
	ix.mu.Unlock()

	logger.Info("Vector index rebuilt: %d vectors", len(entries))
	return nil
}

// Search returns the k chunks most similar to the query vector by cosine
// similarity, descending. Ties are broken by ascending sequence index,
// then document ID. k is clamped to the number of indexed chunks; an
// empty or unbuilt index yields an empty result.
func (ix *Index) Search(query []float32, k int) domain.RetrievalResult {
	ix.mu.RLock()
	snap := ix.snap
	ix.mu.RUnlock()

	if snap == nil || len(snap.entries) == 0 || k <= 0 {
		return domain.RetrievalResult{}
	}

	queryNorm := vectorNorm(query)
	if queryNorm == 0 {
		return domain.RetrievalResult{}
	}

	scored := make([]domain.RetrievedChunk, 0, len(snap.entries))
	for i := range snap.entries {
		e := &snap.entries[i]
		scored = append(scored, domain.RetrievedChunk{
			Chunk: e.chunk,
			Score: cosine(query, queryNorm, e.chunk.Embedding, e.norm),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Chunk.SequenceIndex != b.Chunk.SequenceIndex {
			return a.Chunk.SequenceIndex < b.Chunk.SequenceIndex
		}
		return a.Chunk.DocumentID < b.Chunk.DocumentID
	})

	if k > len(scored) {
		k = len(scored)
	}
	return domain.RetrievalResult{Chunks: scored[:k]}
}

// cosine computes dot(a, b) / (|a| * |b|) with precomputed norms.
// Vectors of different lengths score zero rather than panicking; the
// store enforces a single dimension, so this only guards torn data.
func cosine(a []float32, aNorm float64, b []float32, bNorm float64) float64 {
	if len(a) != len(b) || aNorm == 0 || bNorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (aNorm * bNorm)
}

// vectorNorm returns the Euclidean length of v.
func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
