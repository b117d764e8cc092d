// Package usecase implements business logic orchestration for token lifecycle operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caredock/sharetoken/internal/config"
	"github.com/caredock/sharetoken/internal/database"
	apperrors "github.com/caredock/sharetoken/internal/errors"
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
	tokenService "github.com/caredock/sharetoken/internal/token/service"
)

// tokenUseCase implements TokenUseCase for managing scoped access tokens.
type tokenUseCase struct {
	config           *config.Config
	txManager        database.TxManager
	tokenRepo        TokenRepository
	accessLogRepo    AccessLogRepository
	tokenIDService   tokenService.TokenIDService
	qrPayloadService tokenService.QRPayloadService
}

// Issue mints a new token for the given subject and scope.
//
// This method:
// 1. Validates scope, TTL against the per-scope ceiling, and MaxUses
// 2. Generates a cryptographically random identifier
// 3. Persists the token, regenerating the id on the rare insert collision
// 4. Builds the opaque sharing payload for QR rendering
//
// The identifier and payload are returned once. The caller transmits them to
// the owner; nothing sensitive beyond the token row itself is stored.
func (t *tokenUseCase) Issue(
	ctx context.Context,
	issueTokenInput *tokenDomain.IssueTokenInput,
) (*tokenDomain.IssueTokenOutput, error) {
	if !issueTokenInput.Scope.IsValid() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unknown scope")
	}
	if issueTokenInput.TTL <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "ttl must be positive")
	}
	if maxTTL := t.config.MaxTTLForScope(string(issueTokenInput.Scope)); issueTokenInput.TTL > maxTTL {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "ttl exceeds maximum for scope")
	}
	if issueTokenInput.MaxUses != nil && *issueTokenInput.MaxUses < 1 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "max uses must be at least 1")
	}

	now := time.Now().UTC()
	token := &tokenDomain.Token{
		SubjectID: issueTokenInput.SubjectID,
		Scope:     issueTokenInput.Scope,
		CreatedAt: now,
		ExpiresAt: now.Add(issueTokenInput.TTL),
		MaxUses:   issueTokenInput.MaxUses,
		UseCount:  0,
		IsActive:  true,
	}

	// An id collision is astronomically unlikely but cheap to recover from:
	// generate a fresh id and insert again, up to the configured bound.
	var lastErr error
	for attempt := 0; attempt < t.config.IssueMaxAttempts; attempt++ {
		id, err := t.tokenIDService.GenerateID()
		if err != nil {
			return nil, err
		}
		token.ID = id

		storeCtx, cancel := t.storeCtx(ctx)
		err = t.tokenRepo.Create(storeCtx, token)
		cancel()
		if err != nil {
			if apperrors.Is(err, tokenDomain.ErrTokenAlreadyExists) {
				lastErr = err
				continue
			}
			return nil, err
		}

		payload, err := t.qrPayloadService.BuildPayload(token)
		if err != nil {
			return nil, err
		}
		return &tokenDomain.IssueTokenOutput{
			Token:     token,
			QRPayload: payload,
		}, nil
	}
	return nil, lastErr
}

// ValidateAndConsume atomically checks a presented token and spends one use.
//
// This method:
// 1. Loads the token and classifies revoked/expired/exhausted states
// 2. Rejects a subject mismatch before any write happens
// 3. Conditionally increments the use count in the store; the predicate on
//    the update is what serializes concurrent redeemers
// 4. Appends the redemption record in the same transaction
//
// Concurrency Notes:
//   - Two concurrent attempts on a token with one remaining use race on the
//     conditional update; exactly one observes an affected row. The loser
//     re-reads the token to report why it lost.
//   - Transient store failures are retried with a fixed backoff up to
//     Config.StoreRetryAttempts, then surface as ErrStoreUnavailable.
//     Classification errors are never retried.
//   - Every storage round trip is bounded by Config.StoreTimeout; a wedged
//     store counts as a transient failure rather than hanging the caller.
func (t *tokenUseCase) ValidateAndConsume(
	ctx context.Context,
	validateTokenInput *tokenDomain.ValidateTokenInput,
) (*tokenDomain.ResourceGrant, error) {
	if validateTokenInput.TokenID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token id is required")
	}
	if validateTokenInput.ConsumerID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "consumer id is required")
	}

	var lastErr error
	for attempt := 0; attempt <= t.config.StoreRetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, apperrors.Wrap(tokenDomain.ErrStoreUnavailable, ctx.Err().Error())
			case <-time.After(t.config.StoreRetryBackoff):
			}
		}

		grant, err := t.consumeOnce(ctx, validateTokenInput)
		if err == nil {
			return grant, nil
		}
		if isClassification(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, apperrors.Wrap(tokenDomain.ErrStoreUnavailable, lastErr.Error())
}

// errConsumeRaceLost marks a conditional consume that matched no row. It
// never leaves the package; consumeOnce converts it to a business answer.
var errConsumeRaceLost = apperrors.New("consume matched no row")

// consumeOnce runs one validate-and-consume transaction. The caller handles
// retries for transient failures.
func (t *tokenUseCase) consumeOnce(
	ctx context.Context,
	validateTokenInput *tokenDomain.ValidateTokenInput,
) (*tokenDomain.ResourceGrant, error) {
	var grant *tokenDomain.ResourceGrant

	txCtx, cancel := t.storeCtx(ctx)
	defer cancel()

	err := t.txManager.WithTx(txCtx, func(ctx context.Context) error {
		now := time.Now().UTC()

		token, err := t.tokenRepo.Get(ctx, validateTokenInput.TokenID)
		if err != nil {
			return err
		}

		if err := token.RejectionError(now); err != nil {
			return err
		}

		// A token presented against the wrong subject must not burn a use.
		if validateTokenInput.ExpectedSubjectID != nil &&
			*validateTokenInput.ExpectedSubjectID != token.SubjectID {
			return tokenDomain.ErrTokenSubjectMismatch
		}

		consumed, err := t.tokenRepo.Consume(ctx, token.ID, now)
		if err != nil {
			return err
		}
		if !consumed {
			return errConsumeRaceLost
		}

		entry := &tokenDomain.AccessLogEntry{
			ID:         uuid.Must(uuid.NewV7()),
			TokenID:    token.ID,
			ConsumerID: validateTokenInput.ConsumerID,
			CreatedAt:  now,
		}
		if err := t.accessLogRepo.Create(ctx, entry); err != nil {
			return err
		}

		grant = &tokenDomain.ResourceGrant{
			SubjectID: token.SubjectID,
			Scope:     token.Scope,
		}
		return nil
	})
	if err != nil {
		if apperrors.Is(err, errConsumeRaceLost) {
			// Lost the race to a concurrent redeemer or crossed expiry
			// between read and update. The re-read must happen outside the
			// transaction: under a repeatable-read snapshot it would miss
			// the concurrent write that made the update fail and could
			// misreport a mid-flight revocation as an exhausted token.
			return nil, t.classifyConsumeMiss(ctx, validateTokenInput.TokenID)
		}
		return nil, err
	}
	return grant, nil
}

// classifyConsumeMiss reports why a conditional consume affected no rows.
func (t *tokenUseCase) classifyConsumeMiss(ctx context.Context, tokenID string) error {
	readCtx, cancel := t.storeCtx(ctx)
	defer cancel()

	fresh, err := t.tokenRepo.Get(readCtx, tokenID)
	if err != nil {
		return err
	}
	if rejection := fresh.RejectionError(time.Now().UTC()); rejection != nil {
		return rejection
	}
	return tokenDomain.ErrTokenExhausted
}

// Revoke deactivates a token on behalf of its owner.
//
// Revocation is idempotent: revoking an already inactive token succeeds
// without touching the store again. Returns ErrNotTokenOwner when the
// requester is not the token's subject.
func (t *tokenUseCase) Revoke(
	ctx context.Context,
	revokeTokenInput *tokenDomain.RevokeTokenInput,
) error {
	getCtx, cancel := t.storeCtx(ctx)
	token, err := t.tokenRepo.Get(getCtx, revokeTokenInput.TokenID)
	cancel()
	if err != nil {
		return err
	}

	if token.SubjectID != revokeTokenInput.RequestedBy {
		return tokenDomain.ErrNotTokenOwner
	}

	if !token.IsActive {
		return nil
	}

	setCtx, cancel := t.storeCtx(ctx)
	defer cancel()
	return t.tokenRepo.SetInactive(setCtx, token.ID)
}

// ListAccessLog returns a token's redemption history to its owner, newest first.
func (t *tokenUseCase) ListAccessLog(
	ctx context.Context,
	listAccessLogInput *tokenDomain.ListAccessLogInput,
) ([]*tokenDomain.AccessLogEntry, error) {
	getCtx, cancel := t.storeCtx(ctx)
	token, err := t.tokenRepo.Get(getCtx, listAccessLogInput.TokenID)
	cancel()
	if err != nil {
		return nil, err
	}

	if token.SubjectID != listAccessLogInput.RequestedBy {
		return nil, tokenDomain.ErrNotTokenOwner
	}

	limit := listAccessLogInput.Limit
	if limit <= 0 {
		limit = t.config.AccessLogListLimit
	}

	listCtx, cancel := t.storeCtx(ctx)
	defer cancel()
	return t.accessLogRepo.ListByTokenID(listCtx, token.ID, limit)
}

// CleanExpired removes tokens expired before olderThan. With dryRun it only
// counts what would be removed, leaving the store untouched.
func (t *tokenUseCase) CleanExpired(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error) {
	storeCtx, cancel := t.storeCtx(ctx)
	defer cancel()

	if dryRun {
		return t.tokenRepo.CountExpired(storeCtx, olderThan)
	}
	return t.tokenRepo.DeleteExpired(storeCtx, olderThan)
}

// storeCtx bounds a storage round trip so a wedged store surfaces as an
// error instead of hanging the request.
func (t *tokenUseCase) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, t.config.StoreTimeout)
}

// isClassification reports whether err is a definitive business answer
// rather than a transient store failure worth retrying.
func isClassification(err error) bool {
	return apperrors.Is(err, apperrors.ErrNotFound) ||
		apperrors.Is(err, apperrors.ErrExpired) ||
		apperrors.Is(err, apperrors.ErrRevoked) ||
		apperrors.Is(err, apperrors.ErrExhausted) ||
		apperrors.Is(err, apperrors.ErrSubjectMismatch) ||
		apperrors.Is(err, apperrors.ErrInvalidInput)
}

// NewTokenUseCase creates a new TokenUseCase with the provided dependencies.
func NewTokenUseCase(
	config *config.Config,
	txManager database.TxManager,
	tokenRepo TokenRepository,
	accessLogRepo AccessLogRepository,
	tokenIDService tokenService.TokenIDService,
	qrPayloadService tokenService.QRPayloadService,
) TokenUseCase {
	return &tokenUseCase{
		config:           config,
		txManager:        txManager,
		tokenRepo:        tokenRepo,
		accessLogRepo:    accessLogRepo,
		tokenIDService:   tokenIDService,
		qrPayloadService: qrPayloadService,
	}
}
