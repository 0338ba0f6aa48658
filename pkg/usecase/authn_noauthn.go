package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/riskatlas/pkg/domain/model/auth"
)

// NoAuthnUseCase authenticates every request as one fixed user (for development/testing)
type NoAuthnUseCase struct {
	user *auth.Token
}

var _ AuthUseCaseInterface = &NoAuthnUseCase{}

// NewNoAuthnUseCase creates a NoAuthnUseCase acting as the given user
func NewNoAuthnUseCase(sub, email, name string) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		user: auth.NewToken(sub, email, name),
	}
}

// ValidateToken always returns the configured user
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	user := *uc.user
	return &user, nil
}

// IssueToken returns a token for the requested user without storing it
func (uc *NoAuthnUseCase) IssueToken(ctx context.Context, sub, email, name string, ttl time.Duration) (*auth.Token, error) {
	return auth.NewToken(sub, email, name), nil
}

// RevokeToken does nothing in no-auth mode
func (uc *NoAuthnUseCase) RevokeToken(ctx context.Context, tokenID auth.TokenID) error {
	return nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
