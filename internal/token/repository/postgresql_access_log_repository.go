package repository

import (
	"context"
	"database/sql"

	"github.com/caredock/sharetoken/internal/database"
	apperrors "github.com/caredock/sharetoken/internal/errors"
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

// PostgreSQLAccessLogRepository implements access log persistence for PostgreSQL.
// The log is append-only: entries are created inside the consume transaction
// and never updated or deleted by the core.
type PostgreSQLAccessLogRepository struct {
	db *sql.DB
}

// Create appends an access log entry. Uses transaction support via
// database.GetTx() so the append commits atomically with the consume.
func (p *PostgreSQLAccessLogRepository) Create(ctx context.Context, entry *tokenDomain.AccessLogEntry) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO token_access_logs (id, token_id, consumer_id, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.TokenID,
		entry.ConsumerID,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access log entry")
	}
	return nil
}

// ListByTokenID returns a token's redemptions, newest first, capped at limit.
func (p *PostgreSQLAccessLogRepository) ListByTokenID(
	ctx context.Context,
	tokenID string,
	limit int,
) ([]*tokenDomain.AccessLogEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_id, consumer_id, created_at
			  FROM token_access_logs
			  WHERE token_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, tokenID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access log entries")
	}
	defer rows.Close()

	var entries []*tokenDomain.AccessLogEntry
	for rows.Next() {
		var entry tokenDomain.AccessLogEntry
		if err := rows.Scan(&entry.ID, &entry.TokenID, &entry.ConsumerID, &entry.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access log entry")
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access log entries")
	}

	return entries, nil
}

// NewPostgreSQLAccessLogRepository creates a new PostgreSQL access log repository.
func NewPostgreSQLAccessLogRepository(db *sql.DB) *PostgreSQLAccessLogRepository {
	return &PostgreSQLAccessLogRepository{db: db}
}
