package interfaces

import (
	"context"
	"errors"

	"github.com/secmon-lab/riskatlas/pkg/domain/model/auth"
)

// ErrNotFound is returned by every backend when a record does not exist
var ErrNotFound = errors.New("not found")

// Repository defines the interface for data persistence
type Repository interface {
	Division() DivisionRepository
	Team() TeamRepository
	Service() ServiceRepository
	RiskAssessment() RiskAssessmentRepository

	// Auth methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error

	Close() error
}
