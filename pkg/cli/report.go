package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/cli/config"
	"github.com/secmon-lab/riskatlas/pkg/service/archive"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
	"github.com/secmon-lab/riskatlas/pkg/utils/logging"
	"github.com/secmon-lab/riskatlas/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func cmdReport() *cli.Command {
	var appCfg config.App
	var repoCfg config.Repository
	var division, team string
	var format, output string
	var gcsBucket, gcsPrefix string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "division",
			Usage:       "Division name (the configured report scope when omitted)",
			Destination: &division,
		},
		&cli.StringFlag{
			Name:        "team",
			Usage:       "Team name",
			Destination: &team,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format (table, json)",
			Value:       formatTable,
			Destination: &format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file (stdout when omitted)",
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Also archive the report as JSON into this Cloud Storage bucket",
			Category:    "Archive",
			Sources:     cli.EnvVars("RISKATLAS_REPORT_GCS_BUCKET"),
			Destination: &gcsBucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the archive bucket",
			Value:       "reports",
			Category:    "Archive",
			Sources:     cli.EnvVars("RISKATLAS_REPORT_GCS_PREFIX"),
			Destination: &gcsPrefix,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "report",
		Usage: "Print the department (CISO) report",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if format != formatTable && format != formatJSON {
				return goerr.New("unknown report format", goerr.V("format", format))
			}

			riskCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo, usecase.WithRiskConfig(riskCfg))
			report, err := uc.Report.DepartmentReport(ctx, usecase.Scope{Division: division, Team: team})
			if err != nil {
				return goerr.Wrap(err, "failed to build department report")
			}

			var w io.Writer = os.Stdout
			if output != "" {
				// #nosec G304 - path is expected to be provided by CLI argument
				f, err := os.Create(output)
				if err != nil {
					return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
				}
				defer safe.Close(ctx, f)
				w = f
			}

			if format == formatJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return goerr.Wrap(err, "failed to write report")
				}
			} else {
				renderDepartmentReport(w, report)
			}

			if gcsBucket == "" {
				return nil
			}

			writer, err := archive.NewGCSWriter(ctx, gcsBucket)
			if err != nil {
				return err
			}
			defer safe.Close(ctx, writer)

			name, err := archive.New(writer, archive.WithPrefix(gcsPrefix)).PutDepartmentReport(ctx, report)
			if err != nil {
				return err
			}
			logging.Default().Info("Department report archived", "bucket", gcsBucket, "object", name)
			return nil
		},
	}
}

func renderDepartmentReport(w io.Writer, report *usecase.DepartmentReport) {
	title := color.New(color.Bold)
	label := color.New(color.FgCyan)

	scope := report.Scope.Division
	if scope == "" {
		scope = "all divisions"
	}
	if report.Scope.Team != "" {
		scope += " / " + report.Scope.Team
	}

	_, _ = title.Fprintf(w, "Department report: %s\n", scope)
	_, _ = fmt.Fprintf(w, "Generated at %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	if !report.HasData {
		_, _ = color.New(color.FgYellow).Fprintf(w, "No assessments in scope (%d products)\n", report.NumberOfProducts)
		return
	}

	s := report.Summary
	rows := []struct {
		name  string
		value string
	}{
		{"Number of products", fmt.Sprint(report.NumberOfProducts)},
		{"Assessments", fmt.Sprint(s.TotalAssessments)},
		{"Weighted risk score", fmt.Sprint(s.WeightedRiskScore)},
		{"Global revenue risks", fmt.Sprint(s.GlobalRevenueRisks)},
		{"Local revenue risks", fmt.Sprint(s.LocalRevenueRisks)},
		{"Custom risks", fmt.Sprint(s.CustomRisks)},
		{"Days since last assessment", fmt.Sprint(s.DaysSinceLastAssessment)},
		{"Missing controls", fmt.Sprint(s.MissingMitigation)},
		{"Median recovery time (h)", fmt.Sprintf("%g", s.MedianRemediationHours)},
		{"PI risk score", fmt.Sprint(s.PIRiskScore)},
	}
	for _, row := range rows {
		_, _ = label.Fprintf(w, "%-28s", row.name)
		_, _ = fmt.Fprintln(w, row.value)
	}

	if len(report.Services) == 0 {
		return
	}

	_, _ = fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SERVICE\tASSESSMENTS\tSCORE\tMISSING CONTROLS")
	for _, svc := range report.Services {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", svc.Name, svc.Assessments, svc.WeightedRiskScore, svc.MissingMitigation)
	}
	_ = tw.Flush()
}
