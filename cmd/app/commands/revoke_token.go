package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
	tokenUseCase "github.com/caredock/sharetoken/internal/token/usecase"
)

// RunRevokeToken deactivates a token on behalf of its owner. Revoking an
// already inactive token succeeds without effect.
//
// Requirements: Database must be migrated and accessible.
func RunRevokeToken(
	ctx context.Context,
	useCase tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	tokenID string,
	requestedBy string,
	format string,
) error {
	if tokenID == "" {
		return fmt.Errorf("token-id cannot be empty")
	}

	parsedRequestedBy, err := uuid.Parse(requestedBy)
	if err != nil {
		return fmt.Errorf("invalid requested-by id: %w", err)
	}

	logger.Info("revoking token",
		slog.String("token_id", tokenID),
		slog.String("requested_by", requestedBy),
	)

	input := &tokenDomain.RevokeTokenInput{
		TokenID:     tokenID,
		RequestedBy: parsedRequestedBy,
	}

	if err := useCase.Revoke(ctx, input); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	// Output result based on format
	if format == "json" {
		writeJSON(writer, map[string]any{
			"token_id": tokenID,
			"revoked":  true,
		})
	} else {
		fmt.Fprintf(writer, "Token %s revoked\n", tokenID)
	}

	logger.Info("token revoked successfully", slog.String("token_id", tokenID))

	return nil
}
