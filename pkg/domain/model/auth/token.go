package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultTokenTTL is the lifetime of an issued token
const DefaultTokenTTL = 90 * 24 * time.Hour

// AnonymousUserID is the subject used when authentication is disabled
const AnonymousUserID = "anonymous"

// TokenID identifies a token
type TokenID string

func NewTokenID() TokenID {
	return TokenID(uuid.NewString())
}

func (id TokenID) Validate() error {
	if id == "" {
		return goerr.New("token ID cannot be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return goerr.Wrap(err, "token ID must be a UUID", goerr.V("id", id))
	}
	return nil
}

func (id TokenID) String() string {
	return string(id)
}

// TokenSecret is the secret half of a token
type TokenSecret string

func NewTokenSecret() TokenSecret {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("failed to read random bytes: " + err.Error())
	}
	return TokenSecret(hex.EncodeToString(buf))
}

func (s TokenSecret) String() string {
	return string(s)
}

// Token is an issued credential bound to a user
type Token struct {
	ID        TokenID     `firestore:"id" json:"id"`
	Secret    TokenSecret `firestore:"secret" json:"-" masq:"secret"`
	Sub       string      `firestore:"sub" json:"sub"`
	Email     string      `firestore:"email" json:"email"`
	Name      string      `firestore:"name" json:"name"`
	ExpiresAt time.Time   `firestore:"expires_at" json:"expires_at"`
	CreatedAt time.Time   `firestore:"created_at" json:"created_at"`
}

// NewToken issues a token for the given user
func NewToken(sub, email, name string) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        NewTokenID(),
		Secret:    NewTokenSecret(),
		Sub:       sub,
		Email:     email,
		Name:      name,
		ExpiresAt: now.Add(DefaultTokenTTL),
		CreatedAt: now,
	}
}

// NewAnonymousUser returns a token used when authentication is disabled
func NewAnonymousUser() *Token {
	return NewToken(AnonymousUserID, "", "Anonymous")
}

func (t *Token) Validate() error {
	if t == nil {
		return goerr.New("token is nil")
	}
	if err := t.ID.Validate(); err != nil {
		return err
	}
	if t.Secret == "" {
		return goerr.New("token secret cannot be empty", goerr.V("id", t.ID))
	}
	if t.Sub == "" {
		return goerr.New("token subject cannot be empty", goerr.V("id", t.ID))
	}
	return nil
}

// IsExpired reports whether the token is past its expiry at now
func (t *Token) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// MatchSecret compares secret in constant time
func (t *Token) MatchSecret(secret TokenSecret) bool {
	return subtle.ConstantTimeCompare([]byte(t.Secret), []byte(secret)) == 1
}

// Actor returns the value recorded as creator of written records
func (t *Token) Actor() string {
	if t.Email != "" {
		return t.Email
	}
	return t.Sub
}

type ctxTokenKey struct{}

// ContextWithToken returns a copy of ctx carrying token
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext returns the token stored in ctx, or nil
func TokenFromContext(ctx context.Context) *Token {
	token, _ := ctx.Value(ctxTokenKey{}).(*Token)
	return token
}
