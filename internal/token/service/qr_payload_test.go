package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/caredock/sharetoken/internal/errors"
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

func TestQRPayloadRoundTrip(t *testing.T) {
	svc := NewQRPayloadService()

	token := &tokenDomain.Token{
		ID:        "507KLDvbDqqBqrnDmC9I5iUuGXO0hT1M51sHzL9cq4A",
		SubjectID: uuid.Must(uuid.NewV7()),
		Scope:     tokenDomain.ScopeBookingWithDoctor,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		IsActive:  true,
	}

	payload, err := svc.BuildPayload(token)
	require.NoError(t, err)
	assert.NotContains(t, payload, "{", "payload must be opaque, not raw JSON")

	decoded, err := svc.ParsePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, token.ID, decoded.TokenID)
	assert.Equal(t, token.Scope, decoded.Scope)
	assert.Equal(t, token.SubjectID, decoded.SubjectID)
}

func TestParsePayload_Invalid(t *testing.T) {
	svc := NewQRPayloadService()

	tests := []struct {
		name    string
		payload string
	}{
		{"NotBase64", "!! definitely not base64 !!"},
		{"NotJSON", "bm90LWpzb24"},
		{"EmptyObject", "e30"},
		{"UnknownScope", "eyJ0b2tlbl9pZCI6ImFiYyIsInNjb3BlIjoiYWRtaW4ifQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParsePayload(tt.payload)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		})
	}
}
