package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/caredock/sharetoken/internal/database"
	apperrors "github.com/caredock/sharetoken/internal/errors"
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

// mysqlDuplicateEntry is the MySQL error number for duplicate key violations.
const mysqlDuplicateEntry = 1062

// MySQLTokenRepository implements token persistence for MySQL.
// Subject ids are stored as CHAR(36) strings since MySQL has no native UUID type.
type MySQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new token. A duplicate identifier surfaces as
// ErrTokenAlreadyExists so the issuer can retry with a fresh one.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *tokenDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tokens (id, subject_id, scope, created_at, expires_at, max_uses, use_count, is_active)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.SubjectID.String(),
		token.Scope,
		token.CreatedAt,
		token.ExpiresAt,
		token.MaxUses,
		token.UseCount,
		token.IsActive,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return tokenDomain.ErrTokenAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// Get retrieves a token by its identifier. Returns ErrTokenNotFound if the
// token doesn't exist, or an error if the database query fails.
func (m *MySQLTokenRepository) Get(ctx context.Context, tokenID string) (*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, subject_id, scope, created_at, expires_at, max_uses, use_count, is_active
			  FROM tokens WHERE id = ?`

	var token tokenDomain.Token
	var subjectID string

	err := querier.QueryRowContext(ctx, query, tokenID).Scan(
		&token.ID,
		&subjectID,
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

	parsedSubjectID, err := parseUUID(subjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse subject id")
	}
	token.SubjectID = parsedSubjectID

	return &token, nil
}

// Consume atomically increments use_count iff the token is usable at the
// given instant, mirroring the PostgreSQL conditional update. Row locks on
// the InnoDB primary key serialize concurrent consumers.
func (m *MySQLTokenRepository) Consume(ctx context.Context, tokenID string, at time.Time) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE tokens
			  SET use_count = use_count + 1
			  WHERE id = ?
			  	AND is_active = TRUE
				AND expires_at > ?
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

// SetInactive marks a token revoked. Idempotent for already-inactive tokens.
// MySQL reports zero affected rows for no-change updates, so existence is
// checked separately before treating the result as not found.
func (m *MySQLTokenRepository) SetInactive(ctx context.Context, tokenID string) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE tokens SET is_active = FALSE WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, tokenID)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		// Distinguish "missing" from "already inactive"
		if _, err := m.Get(ctx, tokenID); err != nil {
			return err
		}
	}

	return nil
}

// DeleteExpired deletes tokens that expired before the specified timestamp.
// Retention tooling only; the core lifecycle never deletes tokens.
func (m *MySQLTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM tokens WHERE expires_at < ?`

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
// without deleting them.
func (m *MySQLTokenRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM tokens WHERE expires_at < ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired tokens")
	}

	return count, nil
}

// NewMySQLTokenRepository creates a new MySQL token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}
