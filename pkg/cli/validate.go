package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/cli/config"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
	"github.com/secmon-lab/riskatlas/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var appCfg config.App
	var repoCfg config.Repository
	var checkDB bool

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "check-db",
		Usage:       "Check the repository for references to missing divisions, teams and services",
		Sources:     cli.EnvVars("RISKATLAS_CHECK_DB"),
		Destination: &checkDB,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration file and optionally check DB consistency",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			riskCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			logger.Info("Configuration validation passed",
				"path", appCfg.Path(),
				"category_count", len(riskCfg.Categories),
				"data_classification_count", len(riskCfg.DataClassifications),
				"standard_risk_count", len(riskCfg.StandardRisks),
			)

			if !checkDB {
				logger.Info("DB consistency check not requested, skipping")
				return nil
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo, usecase.WithRiskConfig(riskCfg))
			result, err := uc.Report.CheckIntegrity(ctx)
			if err != nil {
				return goerr.Wrap(err, "DB consistency check failed")
			}

			if result.HasIssues() {
				for _, issue := range result.Issues {
					logger.Warn("DB consistency issue found",
						"kind", issue.Kind,
						"id", issue.ID,
						"field", issue.Field,
						"missing", issue.Missing,
						"resolved", issue.Resolved,
					)
				}
				return goerr.New("DB consistency check found issues", goerr.V("count", len(result.Issues)))
			}

			logger.Info("DB consistency check passed")
			return nil
		},
	}
}
