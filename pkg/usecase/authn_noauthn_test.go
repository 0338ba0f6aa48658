package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
)

func TestNoAuthnUseCase(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewNoAuthnUseCase("dev", "dev@example.com", "Developer")
	gt.Bool(t, uc.IsNoAuthn()).True()

	first, err := uc.ValidateToken(ctx, "", "")
	gt.NoError(t, err).Required()
	gt.Value(t, first.Email).Equal("dev@example.com")

	// callers get a copy of the fixed user
	first.Email = "changed@example.com"
	second, err := uc.ValidateToken(ctx, "anything", "anything")
	gt.NoError(t, err).Required()
	gt.Value(t, second.Email).Equal("dev@example.com")

	token, err := uc.IssueToken(ctx, "other", "other@example.com", "Other", time.Hour)
	gt.NoError(t, err).Required()
	gt.Value(t, token.Sub).Equal("other")

	gt.NoError(t, uc.RevokeToken(ctx, token.ID))
}
