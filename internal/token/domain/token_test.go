package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestToken() *Token {
	return &Token{
		ID:        "tok_test",
		SubjectID: uuid.Must(uuid.NewV7()),
		Scope:     ScopeBookingWithDoctor,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		MaxUses:   nil,
		UseCount:  0,
		IsActive:  true,
	}
}

func TestScopeIsValid(t *testing.T) {
	assert.True(t, ScopeBookingWithDoctor.IsValid())
	assert.True(t, ScopeReadHealthRecord.IsValid())
	assert.False(t, Scope("admin").IsValid())
	assert.False(t, Scope("").IsValid())
}

func TestTokenUsableAt(t *testing.T) {
	now := time.Now().UTC()

	t.Run("ActiveUnexpiredUnlimitedIsUsable", func(t *testing.T) {
		token := newTestToken()
		assert.True(t, token.UsableAt(now))
	})

	t.Run("RevokedIsNotUsable", func(t *testing.T) {
		token := newTestToken()
		token.IsActive = false
		assert.False(t, token.UsableAt(now))
	})

	t.Run("ExactlyAtExpiryIsNotUsable", func(t *testing.T) {
		token := newTestToken()
		token.ExpiresAt = now
		assert.False(t, token.UsableAt(now))
	})

	t.Run("UseCountAtMaxIsNotUsable", func(t *testing.T) {
		maxUses := 1
		token := newTestToken()
		token.MaxUses = &maxUses
		token.UseCount = 1
		assert.False(t, token.UsableAt(now))
	})

	t.Run("UseCountBelowMaxIsUsable", func(t *testing.T) {
		maxUses := 3
		token := newTestToken()
		token.MaxUses = &maxUses
		token.UseCount = 2
		assert.True(t, token.UsableAt(now))
	})
}

func TestTokenRejectionError(t *testing.T) {
	now := time.Now().UTC()

	t.Run("UsableTokenHasNoRejection", func(t *testing.T) {
		token := newTestToken()
		assert.NoError(t, token.RejectionError(now))
	})

	t.Run("RevokedWinsOverEverything", func(t *testing.T) {
		maxUses := 1
		token := newTestToken()
		token.IsActive = false
		token.ExpiresAt = now.Add(-time.Hour)
		token.MaxUses = &maxUses
		token.UseCount = 1

		assert.ErrorIs(t, token.RejectionError(now), ErrTokenRevoked)
	})

	t.Run("ExpiredWinsOverExhausted", func(t *testing.T) {
		maxUses := 1
		token := newTestToken()
		token.ExpiresAt = now.Add(-time.Minute)
		token.MaxUses = &maxUses
		token.UseCount = 1

		assert.ErrorIs(t, token.RejectionError(now), ErrTokenExpired)
	})

	t.Run("ExhaustedWhenActiveAndUnexpired", func(t *testing.T) {
		maxUses := 2
		token := newTestToken()
		token.MaxUses = &maxUses
		token.UseCount = 2

		assert.ErrorIs(t, token.RejectionError(now), ErrTokenExhausted)
	})
}
