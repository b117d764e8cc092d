package domain

import (
	"time"

	"github.com/google/uuid"
)

// IssueTokenInput carries the owner's request to mint a new token.
type IssueTokenInput struct {
	SubjectID uuid.UUID
	Scope     Scope
	TTL       time.Duration
	MaxUses   *int
}

// IssueTokenOutput returns the freshly issued token plus the opaque payload
// the owner embeds in a QR code or sharing link. The raw identifier appears
// here once; the store keeps it only for exact-match lookup.
type IssueTokenOutput struct {
	Token     *Token
	QRPayload string
}

// ValidateTokenInput carries a consumer's redemption attempt.
// ExpectedSubjectID is optional: the booking flow binds the scanned payload
// to the doctor id it already resolved and passes it here.
type ValidateTokenInput struct {
	TokenID           string
	ConsumerID        string
	ExpectedSubjectID *uuid.UUID
}

// RevokeTokenInput carries the owner's deactivation request.
type RevokeTokenInput struct {
	TokenID     string
	RequestedBy uuid.UUID
}

// ListAccessLogInput carries the owner's audit-view request.
type ListAccessLogInput struct {
	TokenID     string
	RequestedBy uuid.UUID
	Limit       int
}
