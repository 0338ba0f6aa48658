package config

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Sentry holds CLI flags for error reporting
type Sentry struct {
	dsn         string
	environment string
	release     string
}

// Flags returns CLI flags for Sentry configuration
func (s *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN (error reporting is disabled when empty)",
			Category:    "Sentry",
			Sources:     cli.EnvVars("RISKATLAS_SENTRY_DSN"),
			Destination: &s.dsn,
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Category:    "Sentry",
			Sources:     cli.EnvVars("RISKATLAS_SENTRY_ENV"),
			Destination: &s.environment,
		},
	}
}

// IsEnabled reports whether a DSN is configured
func (s *Sentry) IsEnabled() bool {
	return s.dsn != ""
}

// Configure initializes the global Sentry client. The returned function
// flushes buffered events.
func (s *Sentry) Configure(release string) (func(), error) {
	if !s.IsEnabled() {
		return func() {}, nil
	}

	s.release = release
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         s.dsn,
		Environment: s.environment,
		Release:     s.release,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize sentry")
	}

	logging.Default().Info("Sentry error reporting enabled", "environment", s.environment, "release", s.release)
	return func() { sentry.Flush(2 * time.Second) }, nil
}
