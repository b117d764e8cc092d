package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/caredock/sharetoken/cmd/app/commands"
	"github.com/caredock/sharetoken/internal/app"
	"github.com/caredock/sharetoken/internal/config"
)

func getTokenCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "issue-token",
			Usage: "Issue a new scoped access token for a subject",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "subject-id",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Patient ID (UUID) the token grants access about",
				},
				&cli.StringFlag{
					Name:     "scope",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Token scope: 'booking_with_doctor' or 'read_health_record'",
				},
				&cli.IntFlag{
					Name:    "ttl-hours",
					Aliases: []string{"t"},
					Value:   24,
					Usage:   "Token lifetime in hours",
				},
				&cli.IntFlag{
					Name:    "max-uses",
					Aliases: []string{"m"},
					Value:   0,
					Usage:   "Maximum number of uses (0 for unlimited)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunIssueToken(
					ctx,
					tokenUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("subject-id"),
					cmd.String("scope"),
					int(cmd.Int("ttl-hours")),
					int(cmd.Int("max-uses")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "revoke-token",
			Usage: "Revoke a token on behalf of its owner",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "token-id",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Token ID to revoke",
				},
				&cli.StringFlag{
					Name:     "requested-by",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Patient ID (UUID) requesting the revocation",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevokeToken(
					ctx,
					tokenUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("token-id"),
					cmd.String("requested-by"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "clean-expired-tokens",
			Usage: "Delete tokens that expired more than the specified days ago",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "days",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Delete tokens expired more than this many days ago",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many tokens would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanExpiredTokens(
					ctx,
					tokenUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("days")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
