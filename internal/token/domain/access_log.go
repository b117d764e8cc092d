package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccessLogEntry records a successful redemption of a token.
// Append-only: used for the owner's audit view, never for authorization
// decisions.
type AccessLogEntry struct {
	ID         uuid.UUID
	TokenID    string
	ConsumerID string
	CreatedAt  time.Time
}
