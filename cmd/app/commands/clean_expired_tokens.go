package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	tokenUseCase "github.com/caredock/sharetoken/internal/token/usecase"
)

// RunCleanExpiredTokens deletes tokens that expired more than the specified
// number of days ago. Supports dry-run mode to preview the deletion count and
// both text/JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredTokens(
	ctx context.Context,
	useCase tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	// Validate days parameter
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning expired tokens",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	olderThan := time.Now().AddDate(0, 0, -days)

	count, err := useCase.CleanExpired(ctx, olderThan, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean expired tokens: %w", err)
	}

	// Output result based on format
	if format == "json" {
		writeJSON(writer, map[string]any{
			"count":   count,
			"days":    days,
			"dry_run": dryRun,
		})
	} else {
		if dryRun {
			fmt.Fprintf(writer, "Dry-run mode: Would delete %d expired token(s) older than %d day(s)\n", count, days)
		} else {
			fmt.Fprintf(writer, "Successfully deleted %d expired token(s) older than %d day(s)\n", count, days)
		}
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}
