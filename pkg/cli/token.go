package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/cli/config"
	"github.com/secmon-lab/riskatlas/pkg/domain/model/auth"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
	"github.com/secmon-lab/riskatlas/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdToken() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage API tokens",
		Commands: []*cli.Command{
			cmdTokenCreate(),
			cmdTokenRevoke(),
		},
	}
}

func cmdTokenCreate() *cli.Command {
	var repoCfg config.Repository
	var sub, email, name string
	var ttl time.Duration

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "sub",
			Usage:       "Subject (user ID) of the token",
			Required:    true,
			Destination: &sub,
		},
		&cli.StringFlag{
			Name:        "email",
			Usage:       "Email of the user; recorded as creator and default risk owner",
			Destination: &email,
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Display name of the user",
			Destination: &name,
		},
		&cli.DurationFlag{
			Name:        "ttl",
			Usage:       "Token lifetime",
			Value:       auth.DefaultTokenTTL,
			Destination: &ttl,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "create",
		Usage: "Issue a token and print it as <id>.<secret>",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			token, err := usecase.NewAuthUseCase(repo).IssueToken(ctx, sub, email, name, ttl)
			if err != nil {
				return goerr.Wrap(err, "failed to issue token")
			}

			logging.Default().Info("Token issued",
				"id", token.ID,
				"sub", token.Sub,
				"expires_at", token.ExpiresAt,
			)
			return printToken(os.Stdout, token)
		},
	}
}

func printToken(w io.Writer, token *auth.Token) error {
	if _, err := fmt.Fprintf(w, "%s.%s\n", token.ID, token.Secret); err != nil {
		return goerr.Wrap(err, "failed to print token")
	}
	return nil
}

func cmdTokenRevoke() *cli.Command {
	var repoCfg config.Repository
	var id string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "id",
			Usage:       "Token ID to revoke",
			Required:    true,
			Destination: &id,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "revoke",
		Usage: "Revoke a token",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			if err := usecase.NewAuthUseCase(repo).RevokeToken(ctx, auth.TokenID(id)); err != nil {
				return goerr.Wrap(err, "failed to revoke token", goerr.V("id", id))
			}

			logging.Default().Info("Token revoked", "id", id)
			return nil
		},
	}
}
