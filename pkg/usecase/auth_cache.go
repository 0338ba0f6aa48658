package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/interfaces"
	"github.com/secmon-lab/riskatlas/pkg/domain/model/auth"
)

const (
	authCacheTTL = 5 * time.Minute
)

type cachedToken struct {
	token     *auth.Token
	expiresAt time.Time
}

type authCache struct {
	cache sync.Map
}

func newAuthCache() *authCache {
	return &authCache{}
}

func (c *authCache) get(tokenID auth.TokenID, now time.Time) (*auth.Token, bool) {
	val, ok := c.cache.Load(tokenID)
	if !ok {
		return nil, false
	}

	cached := val.(*cachedToken)
	if now.After(cached.expiresAt) {
		c.cache.Delete(tokenID)
		return nil, false
	}

	return cached.token, true
}

func (c *authCache) set(token *auth.Token, now time.Time) {
	c.cache.Store(token.ID, &cachedToken{
		token:     token,
		expiresAt: now.Add(authCacheTTL),
	})
}

func (c *authCache) remove(tokenID auth.TokenID) {
	c.cache.Delete(tokenID)
}

// validateTokenWithCache validates token with cache
func (uc *AuthUseCase) validateTokenWithCache(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	now := uc.now()

	if token, ok := uc.cache.get(tokenID, now); ok {
		if !token.MatchSecret(tokenSecret) {
			return nil, goerr.Wrap(ErrInvalidToken, "invalid token secret", goerr.V("tokenID", tokenID))
		}
		if token.IsExpired(now) {
			uc.cache.remove(tokenID)
			return nil, goerr.Wrap(ErrTokenExpired, "token expired", goerr.V("tokenID", tokenID))
		}
		return token, nil
	}

	token, err := uc.repo.GetToken(ctx, tokenID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrInvalidToken, "token not found", goerr.V("tokenID", tokenID))
		}
		return nil, goerr.Wrap(err, "failed to get token from repository")
	}

	if !token.MatchSecret(tokenSecret) {
		return nil, goerr.Wrap(ErrInvalidToken, "invalid token secret", goerr.V("tokenID", tokenID))
	}

	if token.IsExpired(now) {
		if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
			return nil, goerr.Wrap(err, "failed to delete expired token", goerr.V("tokenID", tokenID))
		}
		return nil, goerr.Wrap(ErrTokenExpired, "token expired", goerr.V("tokenID", tokenID))
	}

	uc.cache.set(token, now)
	return token, nil
}
