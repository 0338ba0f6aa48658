package usecase

import (
	"errors"

	"github.com/secmon-lab/riskatlas/pkg/domain/model"
)

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrDivisionNotFound   = errors.New("division not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrServiceNotFound    = errors.New("service not found")
	ErrAssessmentNotFound = errors.New("risk assessment not found")

	// Input errors
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateServiceName = errors.New("duplicate service name")

	// Authentication errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Context keys for error values
const (
	DivisionIDKey   = "division_id"
	TeamIDKey       = "team_id"
	ServiceIDKey    = "service_id"
	AssessmentIDKey = "assessment_id"
)

// IsValidationError reports whether err was caused by invalid input
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrValidation,
		model.ErrMissingRequired,
		model.ErrInvalidEnum,
		model.ErrOutOfRange,
		model.ErrInvalidReference,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFoundError reports whether err means a requested record does not exist
func IsNotFoundError(err error) bool {
	for _, target := range []error{
		ErrDivisionNotFound,
		ErrTeamNotFound,
		ErrServiceNotFound,
		ErrAssessmentNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
