package usecase

import (
	"context"
	"time"

	"github.com/caredock/sharetoken/internal/metrics"
	recordsDomain "github.com/caredock/sharetoken/internal/records/domain"
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

// recordsUseCaseWithMetrics decorates RecordsUseCase with metrics instrumentation.
type recordsUseCaseWithMetrics struct {
	next    RecordsUseCase
	metrics metrics.BusinessMetrics
}

// NewRecordsUseCaseWithMetrics wraps a RecordsUseCase with metrics recording.
func NewRecordsUseCaseWithMetrics(useCase RecordsUseCase, m metrics.BusinessMetrics) RecordsUseCase {
	return &recordsUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Resolve records metrics for gateway resolution operations.
func (r *recordsUseCaseWithMetrics) Resolve(
	ctx context.Context,
	grant *tokenDomain.ResourceGrant,
) (*recordsDomain.BoundedView, error) {
	start := time.Now()
	view, err := r.next.Resolve(ctx, grant)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "records", "resolve", status)
	r.metrics.RecordDuration(ctx, "records", "resolve", time.Since(start), status)

	return view, err
}
