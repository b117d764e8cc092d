// Package usecase defines business logic interfaces for token lifecycle operations.
package usecase

import (
	"context"
	"time"

	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

// TokenRepository defines persistence operations for access tokens.
// Implementations must support transaction-aware operations via context propagation.
type TokenRepository interface {
	// Create stores a new token. Returns ErrTokenAlreadyExists on id collision.
	Create(ctx context.Context, token *tokenDomain.Token) error

	// Get retrieves a token by id. Returns ErrTokenNotFound if not found.
	Get(ctx context.Context, tokenID string) (*tokenDomain.Token, error)

	// Consume atomically increments the token's use count if and only if the
	// token is active, unexpired at the given instant, and under its use
	// budget. Returns true when the increment happened, false when any
	// constraint rejected it.
	Consume(ctx context.Context, tokenID string, at time.Time) (bool, error)

	// SetInactive deactivates a token. Returns ErrTokenNotFound if not found.
	SetInactive(ctx context.Context, tokenID string) error

	// DeleteExpired removes tokens whose expiry predates olderThan and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)

	// CountExpired reports how many tokens DeleteExpired would remove.
	CountExpired(ctx context.Context, olderThan time.Time) (int64, error)
}

// AccessLogRepository defines persistence operations for token redemption records.
type AccessLogRepository interface {
	// Create appends a redemption record.
	Create(ctx context.Context, entry *tokenDomain.AccessLogEntry) error

	// ListByTokenID returns a token's redemptions, newest first, capped at limit.
	ListByTokenID(ctx context.Context, tokenID string, limit int) ([]*tokenDomain.AccessLogEntry, error)
}

// TokenUseCase defines business logic operations for the token lifecycle:
// issuance, atomic validation-and-consumption, revocation, audit listing,
// and expired-token cleanup.
type TokenUseCase interface {
	// Issue mints a new token for the given subject and scope. The token id
	// and the opaque sharing payload are returned once; neither is derivable
	// from the owner afterwards.
	//
	// Returns ErrInvalidInput when the scope is unknown, the TTL is
	// non-positive or above the per-scope ceiling, or MaxUses is set below 1.
	Issue(
		ctx context.Context,
		issueTokenInput *tokenDomain.IssueTokenInput,
	) (*tokenDomain.IssueTokenOutput, error)

	// ValidateAndConsume atomically checks a presented token and spends one
	// use. Exactly one of two things happens: the token is usable, its use
	// count moves by one, a redemption record is appended, and a grant is
	// returned; or nothing is written and a classification error is returned.
	//
	// A subject mismatch rejects the attempt without spending a use.
	//
	// Returns ErrTokenNotFound, ErrTokenRevoked, ErrTokenExpired,
	// ErrTokenExhausted, ErrTokenSubjectMismatch, or ErrStoreUnavailable
	// when the store cannot be reached after bounded retries.
	ValidateAndConsume(
		ctx context.Context,
		validateTokenInput *tokenDomain.ValidateTokenInput,
	) (*tokenDomain.ResourceGrant, error)

	// Revoke deactivates a token on behalf of its owner. Revoking an already
	// inactive token succeeds without effect.
	//
	// Returns ErrNotTokenOwner when the requester is not the token's subject.
	Revoke(ctx context.Context, revokeTokenInput *tokenDomain.RevokeTokenInput) error

	// ListAccessLog returns a token's redemption history to its owner,
	// newest first.
	//
	// Returns ErrNotTokenOwner when the requester is not the token's subject.
	ListAccessLog(
		ctx context.Context,
		listAccessLogInput *tokenDomain.ListAccessLogInput,
	) ([]*tokenDomain.AccessLogEntry, error)

	// CleanExpired removes tokens expired before olderThan. With dryRun it
	// only counts what would be removed.
	CleanExpired(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}
