package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/cli/config"
	httpctrl "github.com/secmon-lab/riskatlas/pkg/controller/http"
	"github.com/secmon-lab/riskatlas/pkg/service/exporter"
	"github.com/secmon-lab/riskatlas/pkg/service/worker"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
	"github.com/secmon-lab/riskatlas/pkg/utils/async"
	"github.com/secmon-lab/riskatlas/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var refreshInterval time.Duration
	var appCfg config.App
	var repoCfg config.Repository
	var authCfg config.Auth

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("RISKATLAS_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "report-refresh-interval",
			Usage:       "Interval of the background report snapshot used by /metrics",
			Value:       5 * time.Minute,
			Sources:     cli.EnvVars("RISKATLAS_REPORT_REFRESH_INTERVAL"),
			Destination: &refreshInterval,
		},
	}

	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
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

			authUC := authCfg.Configure(repo)
			if authCfg.IsNoAuthMode() {
				logging.Default().Warn("Running in no-auth mode (development only)", "user", authCfg.NoAuthUser())
			} else {
				logging.Default().Info("Token authentication enabled")
			}

			exp := exporter.New(exporter.WithRuntimeMetrics())

			// assigned below; writes never happen before the server starts
			var refresher *worker.ReportRefreshWorker
			uc := usecase.New(repo,
				usecase.WithRiskConfig(riskCfg),
				usecase.WithAuth(authUC),
				usecase.WithChangeHook(func(ctx context.Context) {
					async.Dispatch(ctx, "refresh report snapshot", refresher.Refresh)
				}),
			)

			refresher = worker.NewReportRefreshWorker(uc.Report, refreshInterval, exp)
			if err := refresher.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start report refresh worker")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithMetricsHandler(exp.Handler())),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				refresher.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				refresher.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
