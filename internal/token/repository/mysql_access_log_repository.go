package repository

import (
	"context"
	"database/sql"

	"github.com/caredock/sharetoken/internal/database"
	apperrors "github.com/caredock/sharetoken/internal/errors"
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

// MySQLAccessLogRepository implements access log persistence for MySQL.
type MySQLAccessLogRepository struct {
	db *sql.DB
}

// Create appends an access log entry inside the consume transaction.
func (m *MySQLAccessLogRepository) Create(ctx context.Context, entry *tokenDomain.AccessLogEntry) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO token_access_logs (id, token_id, consumer_id, created_at)
			  VALUES (?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID.String(),
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
func (m *MySQLAccessLogRepository) ListByTokenID(
	ctx context.Context,
	tokenID string,
	limit int,
) ([]*tokenDomain.AccessLogEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_id, consumer_id, created_at
			  FROM token_access_logs
			  WHERE token_id = ?
			  ORDER BY created_at DESC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, tokenID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access log entries")
	}
	defer rows.Close()

	var entries []*tokenDomain.AccessLogEntry
	for rows.Next() {
		var entry tokenDomain.AccessLogEntry
		var entryID string
		if err := rows.Scan(&entryID, &entry.TokenID, &entry.ConsumerID, &entry.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access log entry")
		}

		parsedID, err := parseUUID(entryID)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse access log entry id")
		}
		entry.ID = parsedID

		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access log entries")
	}

	return entries, nil
}

// NewMySQLAccessLogRepository creates a new MySQL access log repository.
func NewMySQLAccessLogRepository(db *sql.DB) *MySQLAccessLogRepository {
	return &MySQLAccessLogRepository{db: db}
}
