// Package domain defines the scoped access-token domain models.
// A token is an opaque, time- and use-bounded credential granting exactly one
// capability (scope) against exactly one subject (a doctor or a patient).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Scope is the single capability a token authorizes.
type Scope string

const (
	// ScopeBookingWithDoctor authorizes booking one appointment with the
	// subject doctor.
	ScopeBookingWithDoctor Scope = "booking_with_doctor"

	// ScopeReadHealthRecord authorizes reading the subject patient's
	// bounded health record summary.
	ScopeReadHealthRecord Scope = "read_health_record"
)

// IsValid reports whether the scope is one of the known capabilities.
func (s Scope) IsValid() bool {
	switch s {
	case ScopeBookingWithDoctor, ScopeReadHealthRecord:
		return true
	}
	return false
}

// Token is the persisted access token with its constraints.
//
// ID is the raw credential: a system-generated random identifier stored as
// presented for exact-match lookup. UseCount only moves inside a successful
// validate-and-consume, and IsActive transitions true -> false at most once.
type Token struct {
	ID        string
	SubjectID uuid.UUID
	Scope     Scope
	CreatedAt time.Time
	ExpiresAt time.Time
	MaxUses   *int
	UseCount  int
	IsActive  bool
}

// UsableAt reports whether the token may be consumed at instant t.
// Usable means: active, before expiry, and under its use budget.
func (t *Token) UsableAt(at time.Time) bool {
	if !t.IsActive {
		return false
	}
	if !at.Before(t.ExpiresAt) {
		return false
	}
	if t.MaxUses != nil && t.UseCount >= *t.MaxUses {
		return false
	}
	return true
}

// RejectionError classifies why the token is not usable at instant t.
// Returns nil for a usable token. Expiry wins over exhaustion so a stale
// token reads as expired even when its budget is also spent; revocation is
// checked first because it is the owner's explicit decision.
func (t *Token) RejectionError(at time.Time) error {
	if !t.IsActive {
		return ErrTokenRevoked
	}
	if !at.Before(t.ExpiresAt) {
		return ErrTokenExpired
	}
	if t.MaxUses != nil && t.UseCount >= *t.MaxUses {
		return ErrTokenExhausted
	}
	return nil
}

// ResourceGrant is the internal post-validation proof that a scope/subject
// pair may be acted upon. Only the validator produces grants; the resource
// gateway trusts them without re-deriving anything from raw input.
type ResourceGrant struct {
	SubjectID uuid.UUID
	Scope     Scope
}
