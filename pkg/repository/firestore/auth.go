package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/model/auth"
)

func (f *Firestore) tokenRef(tokenID auth.TokenID) *firestore.DocumentRef {
	return f.client.Collection(f.collectionName(TokensCollection)).Doc(tokenID.String())
}

func (f *Firestore) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	if _, err := f.tokenRef(token.ID).Set(ctx, token); err != nil {
		return goerr.Wrap(err, "failed to put token to firestore")
	}

	return nil
}

func (f *Firestore) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	var token auth.Token
	if err := getDoc(ctx, f.tokenRef(tokenID), &token, "token"); err != nil {
		return nil, err
	}

	return &token, nil
}

func (f *Firestore) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	return deleteDoc(ctx, f.tokenRef(tokenID), "token")
}
