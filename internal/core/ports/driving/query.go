package driving

import (
	"context"

	"github.com/corposearch/docqa-cli/internal/core/domain"
)

// Answerer runs the question-answering pipeline: embed the question,
// retrieve supporting passages, and generate an answer.
type Answerer interface {
	// Ask answers a question using up to topK retrieved passages.
	// topK <= 0 selects the configured default. Service-boundary
	// failures are reported inside the Answer (Success=false) rather
	// than as a raw error, so callers can present them gracefully.
	Ask(ctx context.Context, question string, topK int) (*domain.Answer, error)

	// Retrieve returns the top-K most similar chunks without generating
	// an answer.
	Retrieve(ctx context.Context, question string, topK int) (domain.RetrievalResult, error)
}
