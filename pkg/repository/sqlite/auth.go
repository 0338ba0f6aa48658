package sqlite

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/model/auth"
)

func (s *SQLite) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tokens (id, secret, sub, email, name, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			secret = excluded.secret,
			sub = excluded.sub,
			email = excluded.email,
			name = excluded.name,
			expires_at = excluded.expires_at`,
		token.ID.String(), token.Secret.String(), token.Sub, token.Email, token.Name,
		toUnix(token.ExpiresAt), toUnix(token.CreatedAt))
	if err != nil {
		return goerr.Wrap(err, "failed to put token", goerr.V("id", token.ID))
	}
	return nil
}

func (s *SQLite) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	var (
		token                auth.Token
		id, secret           string
		expiresAt, createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, secret, sub, email, name, expires_at, created_at FROM tokens WHERE id = ?`,
		tokenID.String()).Scan(&id, &secret, &token.Sub, &token.Email, &token.Name, &expiresAt, &createdAt)
	if err != nil {
		return nil, scanError(err, "token", tokenID.String())
	}

	token.ID = auth.TokenID(id)
	token.Secret = auth.TokenSecret(secret)
	token.ExpiresAt = fromUnix(expiresAt)
	token.CreatedAt = fromUnix(createdAt)
	return &token, nil
}

func (s *SQLite) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	return execAffecting(ctx, s.db, "token", tokenID.String(), `DELETE FROM tokens WHERE id = ?`, tokenID.String())
}
