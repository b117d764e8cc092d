package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
	tokenUseCase "github.com/caredock/sharetoken/internal/token/usecase"
)

// RunIssueToken mints a new scoped access token and prints the token id,
// expiry, and the opaque sharing payload. The payload is shown once; it is
// not derivable afterwards.
//
// Requirements: Database must be migrated and accessible.
func RunIssueToken(
	ctx context.Context,
	useCase tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	subjectID string,
	scope string,
	ttlHours int,
	maxUses int,
	format string,
) error {
	parsedSubjectID, err := uuid.Parse(subjectID)
	if err != nil {
		return fmt.Errorf("invalid subject id: %w", err)
	}

	if ttlHours <= 0 {
		return fmt.Errorf("ttl-hours must be a positive number, got: %d", ttlHours)
	}

	if maxUses < 0 {
		return fmt.Errorf("max-uses must be zero or positive, got: %d", maxUses)
	}

	logger.Info("issuing token",
		slog.String("subject_id", subjectID),
		slog.String("scope", scope),
		slog.Int("ttl_hours", ttlHours),
		slog.Int("max_uses", maxUses),
	)

	input := &tokenDomain.IssueTokenInput{
		SubjectID: parsedSubjectID,
		Scope:     tokenDomain.Scope(scope),
		TTL:       time.Duration(ttlHours) * time.Hour,
	}
	if maxUses > 0 {
		input.MaxUses = &maxUses
	}

	output, err := useCase.Issue(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	// Output result based on format
	if format == "json" {
		writeJSON(writer, map[string]any{
			"token_id":   output.Token.ID,
			"subject_id": output.Token.SubjectID.String(),
			"scope":      string(output.Token.Scope),
			"expires_at": output.Token.ExpiresAt,
			"qr_payload": output.QRPayload,
		})
	} else {
		fmt.Fprintf(writer, "Token ID:   %s\n", output.Token.ID)
		fmt.Fprintf(writer, "Scope:      %s\n", output.Token.Scope)
		fmt.Fprintf(writer, "Expires at: %s\n", output.Token.ExpiresAt.Format(time.RFC3339))
		fmt.Fprintf(writer, "QR payload: %s\n", output.QRPayload)
	}

	logger.Info("token issued successfully",
		slog.String("token_id", output.Token.ID),
		slog.String("scope", scope),
	)

	return nil
}
