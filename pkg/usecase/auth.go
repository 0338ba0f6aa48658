package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/interfaces"
	"github.com/secmon-lab/riskatlas/pkg/domain/model/auth"
)

// AuthUseCaseInterface resolves request credentials to a user
type AuthUseCaseInterface interface {
	ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error)
	IssueToken(ctx context.Context, sub, email, name string, ttl time.Duration) (*auth.Token, error)
	RevokeToken(ctx context.Context, tokenID auth.TokenID) error
	IsNoAuthn() bool
}

type AuthUseCase struct {
	repo  interfaces.Repository
	cache *authCache
	now   func() time.Time
}

var _ AuthUseCaseInterface = &AuthUseCase{}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithAuthClock replaces the time source used for expiry checks
func WithAuthClock(now func() time.Time) AuthOption {
	return func(uc *AuthUseCase) {
		uc.now = now
	}
}

func NewAuthUseCase(repo interfaces.Repository, options ...AuthOption) *AuthUseCase {
	uc := &AuthUseCase{
		repo:  repo,
		cache: newAuthCache(),
		now:   time.Now,
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}

// IssueToken creates and stores a token. A non-positive ttl uses auth.DefaultTokenTTL.
func (uc *AuthUseCase) IssueToken(ctx context.Context, sub, email, name string, ttl time.Duration) (*auth.Token, error) {
	token := auth.NewToken(sub, email, name)
	if ttl > 0 {
		token.ExpiresAt = token.CreatedAt.Add(ttl)
	}
	if err := token.Validate(); err != nil {
		return nil, goerr.Wrap(ErrValidation, err.Error())
	}

	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, goerr.Wrap(err, "failed to store token", goerr.V("sub", sub))
	}
	return token, nil
}

// ValidateToken validates the token and returns user info
func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidToken, "malformed token ID")
	}
	return uc.validateTokenWithCache(ctx, tokenID, tokenSecret)
}

// RevokeToken deletes the token
func (uc *AuthUseCase) RevokeToken(ctx context.Context, tokenID auth.TokenID) error {
	uc.cache.remove(tokenID)

	if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrInvalidToken, "token not found", goerr.V("tokenID", tokenID))
		}
		return goerr.Wrap(err, "failed to delete token", goerr.V("tokenID", tokenID))
	}
	return nil
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}
