package usecase

import (
	"context"
	"time"

	"github.com/caredock/sharetoken/internal/metrics"
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Issue records metrics for token issuance operations.
func (t *tokenUseCaseWithMetrics) Issue(
	ctx context.Context,
	issueTokenInput *tokenDomain.IssueTokenInput,
) (*tokenDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := t.next.Issue(ctx, issueTokenInput)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "issue", status)
	t.metrics.RecordDuration(ctx, "token", "issue", time.Since(start), status)

	return output, err
}

// ValidateAndConsume records metrics for token redemption operations.
func (t *tokenUseCaseWithMetrics) ValidateAndConsume(
	ctx context.Context,
	validateTokenInput *tokenDomain.ValidateTokenInput,
) (*tokenDomain.ResourceGrant, error) {
	start := time.Now()
	grant, err := t.next.ValidateAndConsume(ctx, validateTokenInput)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "validate_and_consume", status)
	t.metrics.RecordDuration(ctx, "token", "validate_and_consume", time.Since(start), status)

	return grant, err
}

// Revoke records metrics for token revocation operations.
func (t *tokenUseCaseWithMetrics) Revoke(
	ctx context.Context,
	revokeTokenInput *tokenDomain.RevokeTokenInput,
) error {
	start := time.Now()
	err := t.next.Revoke(ctx, revokeTokenInput)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "revoke", status)
	t.metrics.RecordDuration(ctx, "token", "revoke", time.Since(start), status)

	return err
}

// ListAccessLog records metrics for access log listing operations.
func (t *tokenUseCaseWithMetrics) ListAccessLog(
	ctx context.Context,
	listAccessLogInput *tokenDomain.ListAccessLogInput,
) ([]*tokenDomain.AccessLogEntry, error) {
	start := time.Now()
	entries, err := t.next.ListAccessLog(ctx, listAccessLogInput)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "access_log_list", status)
	t.metrics.RecordDuration(ctx, "token", "access_log_list", time.Since(start), status)

	return entries, err
}

// CleanExpired records metrics for expired token cleanup operations.
func (t *tokenUseCaseWithMetrics) CleanExpired(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	start := time.Now()
	count, err := t.next.CleanExpired(ctx, olderThan, dryRun)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "clean_expired", status)
	t.metrics.RecordDuration(ctx, "token", "clean_expired", time.Since(start), status)

	return count, err
}
