package services

import (
	"context"

	"github.com/corposearch/docqa-cli/internal/core/domain"
	"github.com/corposearch/docqa-cli/internal/core/ports/driven"
	"github.com/corposearch/docqa-cli/internal/core/ports/driving"
	"github.com/corposearch/docqa-cli/internal/index"
)

// Ensure StatusService implements the interface.
var _ driving.StatusReporter = (*StatusService)(nil)

// StatusService aggregates store size, index freshness and external
// service reachability.
type StatusService struct {
	store     driven.DocumentStore
	embedder  driven.EmbeddingService
	generator driven.GenerationService
	idx       *index.Index
	storePath string
}

// NewStatusService creates a status service. storePath is reported
// verbatim in the health report.
func NewStatusService(
	store driven.DocumentStore,
	embedder driven.EmbeddingService,
	generator driven.GenerationService,
	idx *index.Index,
	storePath string,
) *StatusService {
	return &StatusService{
		store:     store,
		embedder:  embedder,
		generator: generator,
		idx:       idx,
		storePath: storePath,
	}
}

// Report collects the current health report. Unreachable services are
// recorded in the report, not returned as errors.
func (s *StatusService) Report(ctx context.Context) (*domain.HealthReport, error) {
	report := &domain.HealthReport{
		StorePath:       s.storePath,
		EmbeddingModel:  s.embedder.ModelName(),
		GenerationModel: s.generator.ModelName(),
	}

	docs, err := s.store.Documents(ctx)
	if err != nil {
		return nil, err
	}
	report.Documents = len(docs)

	report.Chunks, err = s.store.CountChunks(ctx)
	if err != nil {
		return nil, err
	}

	revision, err := s.store.Revision(ctx)
	if err != nil {
		return nil, err
	}
	report.IndexFresh = !s.idx.Stale(report.Chunks, revision)
	if s.idx.Built() {
		report.IndexBuiltAt = s.idx.BuiltAt()
	}

	if err := s.embedder.Ping(ctx); err != nil {
		report.EmbeddingError = err.Error()
	} else {
		report.EmbeddingReachable = true
	}

	if err := s.generator.Ping(ctx); err != nil {
		report.GenerationError = err.Error()
	} else {
		report.GenerationReachable = true
	}

	return report, nil
}
