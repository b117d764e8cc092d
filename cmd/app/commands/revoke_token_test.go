package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/caredock/sharetoken/internal/errors"
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

func TestRunRevokeToken(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	requestedBy := uuid.New()

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockUseCase.On("Revoke", ctx, &tokenDomain.RevokeTokenInput{
			TokenID:     "tok_abc123",
			RequestedBy: requestedBy,
		}).Return(nil)

		var out bytes.Buffer
		err := RunRevokeToken(ctx, mockUseCase, logger, &out, "tok_abc123", requestedBy.String(), "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Token tok_abc123 revoked")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockUseCase.On("Revoke", ctx, mock.Anything).Return(nil)

		var out bytes.Buffer
		err := RunRevokeToken(ctx, mockUseCase, logger, &out, "tok_abc123", requestedBy.String(), "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"revoked": true`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("empty-token-id", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		err := RunRevokeToken(ctx, mockUseCase, logger, &bytes.Buffer{}, "", requestedBy.String(), "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "token-id cannot be empty")
	})

	t.Run("invalid-requested-by", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		err := RunRevokeToken(ctx, mockUseCase, logger, &bytes.Buffer{}, "tok_abc123", "not-a-uuid", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid requested-by id")
	})

	t.Run("not-owner", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockUseCase.On("Revoke", ctx, mock.Anything).Return(tokenDomain.ErrNotTokenOwner)

		err := RunRevokeToken(ctx, mockUseCase, logger, &bytes.Buffer{}, "tok_abc123", requestedBy.String(), "text")

		require.Error(t, err)
		require.True(t, apperrors.Is(err, tokenDomain.ErrNotTokenOwner))
	})
}
