package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

type assessmentRepository struct {
	rows *table[types.AssessmentID, model.RiskAssessment]
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		rows: newTable[types.AssessmentID](
			copyAssessment,
			func(a *model.RiskAssessment) time.Time { return a.CreatedAt },
		),
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyAssessment(a *model.RiskAssessment) *model.RiskAssessment {
	c := *a
	c.GlobalRevenueImpactHours = copyFloat(a.GlobalRevenueImpactHours)
	c.LocalRevenueImpactHours = copyFloat(a.LocalRevenueImpactHours)
	c.HoursToRemediate = copyFloat(a.HoursToRemediate)
	c.AdditionalLossEventCosts = copyFloat(a.AdditionalLossEventCosts)
	return &c
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.RiskAssessment) (*model.RiskAssessment, error) {
	created := copyAssessment(assessment)
	if created.ID == "" {
		created.ID = types.NewAssessmentID()
	}
	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	return r.rows.put(created.ID, created), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id types.AssessmentID) (*model.RiskAssessment, error) {
	assessment, ok := r.rows.get(id)
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "risk assessment not found", goerr.V("id", id))
	}
	return assessment, nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.RiskAssessment, error) {
	return r.rows.list(nil), nil
}

func (r *assessmentRepository) ListByService(ctx context.Context, serviceID types.ServiceID) ([]*model.RiskAssessment, error) {
	return r.rows.list(func(a *model.RiskAssessment) bool {
		return a.ServiceID == serviceID
	}), nil
}

func (r *assessmentRepository) Update(ctx context.Context, assessment *model.RiskAssessment) (*model.RiskAssessment, error) {
	updated, ok := r.rows.update(assessment.ID, func(existing, next *model.RiskAssessment) {
		*next = *copyAssessment(assessment)
		next.CreatedAt = existing.CreatedAt
		next.CreatedBy = existing.CreatedBy
		next.UpdatedAt = time.Now().UTC()
	})
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "risk assessment not found", goerr.V("id", assessment.ID))
	}
	return updated, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id types.AssessmentID) error {
	if !r.rows.remove(id) {
		return goerr.Wrap(ErrNotFound, "risk assessment not found", goerr.V("id", id))
	}
	return nil
}
