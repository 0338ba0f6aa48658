package interfaces

import (
	"context"

	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

type RiskAssessmentRepository interface {
	// Create stores an assessment. An empty ID is generated and a zero
	// CreatedAt is set to the current time.
	Create(ctx context.Context, assessment *model.RiskAssessment) (*model.RiskAssessment, error)

	// Get retrieves an assessment by ID
	Get(ctx context.Context, id types.AssessmentID) (*model.RiskAssessment, error)

	// List retrieves all assessments ordered by creation time
	List(ctx context.Context) ([]*model.RiskAssessment, error)

	// ListByService retrieves the assessments attached to a service
	ListByService(ctx context.Context, serviceID types.ServiceID) ([]*model.RiskAssessment, error)

	// Update replaces the mutable fields of an existing assessment.
	// CreatedAt and CreatedBy are kept from the stored record.
	Update(ctx context.Context, assessment *model.RiskAssessment) (*model.RiskAssessment, error)

	// Delete deletes an assessment by ID
	Delete(ctx context.Context, id types.AssessmentID) error
}
