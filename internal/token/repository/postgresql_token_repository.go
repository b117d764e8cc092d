// Package repository implements token store persistence for PostgreSQL and MySQL.
//
// The consume path is a single conditional UPDATE checked through RowsAffected,
// so concurrent redemptions of the same token serialize at the row level and a
// maxUses budget can never be overspent.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/caredock/sharetoken/internal/database"
	apperrors "github.com/caredock/sharetoken/internal/errors"
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pqUniqueViolation = "23505"

// PostgreSQLTokenRepository implements token persistence for PostgreSQL.
// Uses transaction support via database.GetTx().
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new token. The primary key is the token identifier itself,
// so a duplicate insert surfaces as ErrTokenAlreadyExists and the issuer can
// retry with a fresh identifier.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *tokenDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tokens (id, subject_id, scope, created_at, expires_at, max_uses, use_count, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.SubjectID,
		token.Scope,
		token.CreatedAt,
		token.ExpiresAt,
		token.MaxUses,
		token.UseCount,
		token.IsActive,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return tokenDomain.ErrTokenAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// Get retrieves a token by its identifier. Returns ErrTokenNotFound if the
// token doesn't exist, or an error if the database query fails.
func (p *PostgreSQLTokenRepository) Get(ctx context.Context, tokenID string) (*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, subject_id, scope, created_at, expires_at, max_uses, use_count, is_active
			  FROM tokens WHERE id = $1`

	var token tokenDomain.Token

	err := querier.QueryRowContext(ctx, query, tokenID).Scan(
		&token.ID,
		&token.SubjectID,
		&token.Scope,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.MaxUses,
		&token.UseCount,
		&token.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}

	return &token, nil
}

// Consume atomically increments use_count iff the token is usable at the
// given instant. Returns true when a use was consumed, false when the token
// was missing or not usable; the caller classifies the rejection with a
// follow-up Get. The read-check-write is a single statement so two concurrent
// consumers of a max_uses = 1 token can never both succeed.
func (p *PostgreSQLTokenRepository) Consume(ctx context.Context, tokenID string, at time.Time) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tokens
			  SET use_count = use_count + 1
			  WHERE id = $1
			  	AND is_active = TRUE
				AND expires_at > $2
				AND (max_uses IS NULL OR use_count < max_uses)`

	result, err := querier.ExecContext(ctx, query, tokenID, at)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to consume token")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected == 1, nil
}

// SetInactive marks a token revoked. Idempotent: revoking an already-inactive
// token matches the row and changes nothing. Returns ErrTokenNotFound only
// when no token with the id exists.
func (p *PostgreSQLTokenRepository) SetInactive(ctx context.Context, tokenID string) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tokens SET is_active = FALSE WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, tokenID)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return tokenDomain.ErrTokenNotFound
	}

	return nil
}

// DeleteExpired deletes tokens that expired before the specified timestamp.
// Retention tooling only; the core lifecycle never deletes tokens.
// All timestamps are expected in UTC.
func (p *PostgreSQLTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM tokens WHERE expires_at < $1`

	result, err := querier.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected, nil
}

// CountExpired counts tokens that expired before the specified timestamp
// without deleting them. Used by the retention command's dry-run mode.
func (p *PostgreSQLTokenRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM tokens WHERE expires_at < $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired tokens")
	}

	return count, nil
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}
