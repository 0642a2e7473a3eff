package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corposearch/docqa-cli/internal/adapters/driven/storage/sqlite"
	"github.com/corposearch/docqa-cli/internal/chunker"
	"github.com/corposearch/docqa-cli/internal/core/ports/driven"
)

// setupTestStore creates a temporary SQLite store for service tests.
func setupTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// keywordEmbedder produces deterministic vectors from keyword counts so
// similarity rankings in tests are predictable.
type keywordEmbedder struct {
	keywords   []string
	batchCalls atomic.Int32
	batchErr   error
	pingErr    error
}

var _ driven.EmbeddingService = (*keywordEmbedder)(nil)

func newKeywordEmbedder(keywords ...string) *keywordEmbedder {
	if len(keywords) == 0 {
		keywords = []string{"therapy", "exercise", "ultrasound"}
	}
	return &keywordEmbedder{keywords: keywords}
}

func (e *keywordEmbedder) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(e.keywords)+1)
	for i, kw := range e.keywords {
		v[i] = float32(strings.Count(lower, kw))
	}
	v[len(e.keywords)] = 0.1 // bias so no vector is ever zero
	return v
}

func (e *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return e.vector(text), nil
}

func (e *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.batchCalls.Add(1)
	if e.batchErr != nil {
		return nil, e.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *keywordEmbedder) Dimensions() int   { return len(e.keywords) + 1 }
func (e *keywordEmbedder) ModelName() string { return "keyword-test" }

func (e *keywordEmbedder) Ping(context.Context) error { return e.pingErr }
func (e *keywordEmbedder) Close() error               { return nil }

// cannedGenerator returns a fixed completion and records the prompts it
// was given.
type cannedGenerator struct {
	answer  string
	err     error
	pingErr error
	prompts []string
}

var _ driven.GenerationService = (*cannedGenerator)(nil)

func (g *cannedGenerator) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func (g *cannedGenerator) ModelName() string          { return "canned-test" }
func (g *cannedGenerator) Ping(context.Context) error { return g.pingErr }
func (g *cannedGenerator) Close() error               { return nil }

// passthroughExtractor treats source files as plain text.
type passthroughExtractor struct {
	failPaths map[string]error
}

var _ driven.Extractor = (*passthroughExtractor)(nil)

func (e *passthroughExtractor) Extract(_ context.Context, path string) (string, error) {
	if err, ok := e.failPaths[path]; ok {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (e *passthroughExtractor) ExtractTitle(content, path string) string {
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (e *passthroughExtractor) SupportedExtensions() []string { return []string{".pdf"} }

// newTestSplitter returns a splitter small enough that test corpora
// produce a few chunks without megabytes of fixture text.
func newTestSplitter(t *testing.T) *chunker.Splitter {
	t.Helper()
	splitter, err := chunker.NewSplitter(200, 40)
	require.NoError(t, err)
	return splitter
}

// writeCorpusFile puts a fake document in dir.
func writeCorpusFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}
