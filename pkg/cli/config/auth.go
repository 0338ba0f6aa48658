package config

import (
	"strings"

	"github.com/secmon-lab/riskatlas/pkg/domain/interfaces"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Auth holds CLI flags for request authentication
type Auth struct {
	noAuthUser string
}

// Flags returns CLI flags for authentication configuration
func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run every request as the given user email (development only). Example: --no-auth=alice@example.com",
			Category:    "Authentication",
			Sources:     cli.EnvVars("RISKATLAS_NO_AUTH"),
			Destination: &a.noAuthUser,
		},
	}
}

// IsNoAuthMode reports whether authentication is disabled
func (a *Auth) IsNoAuthMode() bool {
	return a.noAuthUser != ""
}

// NoAuthUser returns the user every request runs as in no-auth mode
func (a *Auth) NoAuthUser() string {
	return a.noAuthUser
}

// Configure returns the authentication use case. Token mode validates
// tokens stored in repo.
func (a *Auth) Configure(repo interfaces.Repository) usecase.AuthUseCaseInterface {
	if a.IsNoAuthMode() {
		name, _, _ := strings.Cut(a.noAuthUser, "@")
		return usecase.NewNoAuthnUseCase(a.noAuthUser, a.noAuthUser, name)
	}
	return usecase.NewAuthUseCase(repo)
}
