package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/corposearch/docqa-cli/internal/core/domain"
	"github.com/corposearch/docqa-cli/internal/core/ports/driven"
	"github.com/corposearch/docqa-cli/internal/core/ports/driving"
	"github.com/corposearch/docqa-cli/internal/index"
	"github.com/corposearch/docqa-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.Answerer = (*QueryService)(nil)

// emptyContextNote stands in for the context block when retrieval found
// nothing; the answer is then flagged context-free.
const emptyContextNote = "No relevant context available."

// QueryOptions carries the retrieval and generation defaults.
type QueryOptions struct {
	// TopK is the default number of chunks retrieved per question.
	TopK int

	// MaxTokens bounds the generated completion.
	MaxTokens int

	// Temperature controls generation randomness.
	Temperature float64

	// MaxContextChars bounds the assembled context block. Zero means
	// no bound beyond TopK.
	MaxContextChars int
}

// QueryService runs the question-answering pipeline: embed the question,
// retrieve supporting chunks from the index, assemble a prompt and
// generate an answer.
type QueryService struct {
	store     driven.DocumentStore
	embedder  driven.EmbeddingService
	generator driven.GenerationService
	idx       *index.Index
	opts      QueryOptions
}

// NewQueryService creates a query service.
func NewQueryService(
	store driven.DocumentStore,
	embedder driven.EmbeddingService,
	generator driven.GenerationService,
	idx *index.Index,
	opts QueryOptions,
) *QueryService {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	return &QueryService{
		store:     store,
		embedder:  embedder,
		generator: generator,
		idx:       idx,
		opts:      opts,
	}
}

// Ask answers a question using up to topK retrieved passages. Pipeline
// failures are reported inside the Answer rather than as a raw error so
// callers can render them; only context cancellation escapes as an error.
func (s *QueryService) Ask(ctx context.Context, question string, topK int) (*domain.Answer, error) {
	answer := &domain.Answer{Question: question}

	if strings.TrimSpace(question) == "" {
		answer.Error = "question must not be empty"
		return answer, nil
	}

	result, err := s.Retrieve(ctx, question, topK)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		answer.Error = err.Error()
		return answer, nil
	}

	sources, err := s.sourceNames(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		answer.Error = err.Error()
		return answer, nil
	}

	contextBlock, passages := s.assembleContext(result, sources)
	answer.Context = passages
	answer.ContextFree = result.Empty()
	if answer.ContextFree {
		logger.Warn("No relevant chunks found, answering without context")
	}

	prompt := BuildPrompt(question, contextBlock)
	logger.Debug("Prompt assembled: %d chars, %d passages", len(prompt), len(passages))

	text, err := s.generator.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   s.opts.MaxTokens,
		Temperature: s.opts.Temperature,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		answer.Error = err.Error()
		return answer, nil
	}

	answer.Text = text
	answer.Success = true
	return answer, nil
}

// Retrieve returns the top-K most similar chunks for a question,
// rebuilding the index first when the store has changed.
func (s *QueryService) Retrieve(ctx context.Context, question string, topK int) (domain.RetrievalResult, error) {
	if strings.TrimSpace(question) == "" {
		return domain.RetrievalResult{}, fmt.Errorf("%w: question must not be empty", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = s.opts.TopK
	}

	if err := s.ensureFresh(ctx); err != nil {
		return domain.RetrievalResult{}, err
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return domain.RetrievalResult{}, err
	}

	return s.idx.Search(vector, topK), nil
}

// ensureFresh rebuilds the index when the store has been written since
// the last build.
func (s *QueryService) ensureFresh(ctx context.Context) error {
	count, err := s.store.CountChunks(ctx)
	if err != nil {
		return err
	}
	revision, err := s.store.Revision(ctx)
	if err != nil {
		return err
	}
	if !s.idx.Stale(count, revision) {
		return nil
	}
	logger.Debug("Index stale, rebuilding from store")
	return s.idx.Rebuild(ctx, s.store)
}

// sourceNames maps document IDs to their display titles for source
// attribution in prompts and answers.
func (s *QueryService) sourceNames(ctx context.Context) (map[string]string, error) {
	docs, err := s.store.Documents(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(docs))
	for _, doc := range docs {
		if doc.Title != "" {
			names[doc.ID] = doc.Title
		} else {
			names[doc.ID] = doc.Path
		}
	}
	return names, nil
}

// assembleContext renders retrieved chunks into the prompt context
// block, highest similarity first. When a context budget is set, whole
// passages are dropped from the low-similarity end to fit.
func (s *QueryService) assembleContext(result domain.RetrievalResult, sources map[string]string) (string, []domain.ContextPassage) {
	if result.Empty() {
		return emptyContextNote, nil
	}

	chunks := result.Chunks
	if s.opts.MaxContextChars > 0 {
		total := 0
		kept := 0
		for _, rc := range chunks {
			entry := len(rc.Chunk.Text) + 64 // rough per-passage framing overhead
			if kept > 0 && total+entry > s.opts.MaxContextChars {
				break
			}
			total += entry
			kept++
		}
		chunks = chunks[:kept]
	}

	parts := make([]string, len(chunks))
	passages := make([]domain.ContextPassage, len(chunks))
	for i, rc := range chunks {
		source := sources[rc.Chunk.DocumentID]
		if source == "" {
			source = rc.Chunk.DocumentID
		}
		parts[i] = fmt.Sprintf("Document %d (Source: %s):\n%s", i+1, source, strings.TrimSpace(rc.Chunk.Text))
		passages[i] = domain.ContextPassage{
			Source: source,
			Text:   rc.Chunk.Text,
			Score:  rc.Score,
		}
	}

	return strings.Join(parts, "\n\n"), passages
}

// BuildPrompt renders the question-answering prompt around a context
// block.
func BuildPrompt(question, contextBlock string) string {
	return fmt.Sprintf(`Based on the following context documents, please answer the user's question. If the answer cannot be found in the provided context, please say so clearly.

Context:
%s

Question: %s

Please provide a comprehensive answer based on the context provided. If you reference specific information, try to mention which document it came from.

Answer:`, contextBlock, question)
}
