package driving

import (
	"context"

	"github.com/corposearch/docqa-cli/internal/core/domain"
)

// StatusReporter aggregates store size, index freshness and service
// reachability into a health report.
type StatusReporter interface {
	Report(ctx context.Context) (*domain.HealthReport, error)
}
