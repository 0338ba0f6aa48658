package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskatlas/pkg/domain/interfaces"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

func ptr(v float64) *float64 {
	return &v
}

func newAssessment(serviceID types.ServiceID) *model.RiskAssessment {
	return &model.RiskAssessment{
		ServiceID:                     serviceID,
		RiskCategory:                  "Security",
		RiskDescription:               "Credential stuffing against login",
		RiskLevel:                     types.RiskLevelHigh,
		DataClassification:            "Confidential",
		DataInterface:                 "REST API",
		DataLocation:                  "EU",
		LikelihoodPerYear:             12.5,
		Mitigation:                    "Rate limiting",
		RiskOwner:                     "alice@example.com",
		CreatedBy:                     "alice@example.com",
		RevenueImpact:                 types.RevenueImpactYes,
		HasGlobalRevenueImpact:        true,
		GlobalRevenueImpactHours:      ptr(4),
		PIDataAtRisk:                  types.PIDataAtRiskYes,
		PIDataAmount:                  types.PIDataAmountBetween1MAnd99M,
		HoursToRemediate:              ptr(24),
		MitigativeControlsImplemented: types.MitigativeControlsPartially,
	}
}

func TestRiskAssessmentRepository(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newRepo repoFactory) {
		t.Run("Create and Get round trip every field", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			input := newAssessment(types.ServiceID("svc-1"))
			created, err := repo.RiskAssessment().Create(ctx, input)
			gt.NoError(t, err).Required()
			gt.Value(t, created.ID).NotEqual(types.AssessmentID(""))

			got, err := repo.RiskAssessment().Get(ctx, created.ID)
			gt.NoError(t, err).Required()
			gt.Value(t, got.ServiceID).Equal(input.ServiceID)
			gt.Value(t, got.RiskCategory).Equal(input.RiskCategory)
			gt.Value(t, got.RiskDescription).Equal(input.RiskDescription)
			gt.Value(t, got.RiskLevel).Equal(types.RiskLevelHigh)
			gt.Value(t, got.DataClassification).Equal(input.DataClassification)
			gt.Value(t, got.DataInterface).Equal(input.DataInterface)
			gt.Value(t, got.DataLocation).Equal(input.DataLocation)
			gt.Number(t, got.LikelihoodPerYear).Equal(12.5)
			gt.Value(t, got.Mitigation).Equal(input.Mitigation)
			gt.Value(t, got.RiskOwner).Equal(input.RiskOwner)
			gt.Value(t, got.CreatedBy).Equal(input.CreatedBy)
			gt.Value(t, got.RevenueImpact).Equal(types.RevenueImpactYes)
			gt.Bool(t, got.HasGlobalRevenueImpact).True()
			gt.Value(t, got.GlobalRevenueImpactHours).NotNil()
			gt.Number(t, *got.GlobalRevenueImpactHours).Equal(4)
			gt.Bool(t, got.HasLocalRevenueImpact).False()
			gt.Value(t, got.LocalRevenueImpactHours).Nil()
			gt.Value(t, got.PIDataAtRisk).Equal(types.PIDataAtRiskYes)
			gt.Value(t, got.PIDataAmount).Equal(types.PIDataAmountBetween1MAnd99M)
			gt.Number(t, *got.HoursToRemediate).Equal(24)
			gt.Value(t, got.AdditionalLossEventCosts).Nil()
			gt.Value(t, got.MitigativeControlsImplemented).Equal(types.MitigativeControlsPartially)
		})

		t.Run("stored values are not validated on read", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			input := newAssessment(types.ServiceID("svc-1"))
			input.RiskLevel = types.RiskLevel("legacy-severe")
			created, err := repo.RiskAssessment().Create(ctx, input)
			gt.NoError(t, err).Required()

			got, err := repo.RiskAssessment().Get(ctx, created.ID)
			gt.NoError(t, err).Required()
			gt.Value(t, got.RiskLevel).Equal(types.RiskLevel("legacy-severe"))
		})

		t.Run("ListByService filters and orders", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
			var wantIDs []types.AssessmentID
			for i := range 3 {
				a := newAssessment(types.ServiceID("svc-a"))
				a.CreatedAt = base.Add(time.Duration(3-i) * time.Hour)
				created, err := repo.RiskAssessment().Create(ctx, a)
				gt.NoError(t, err).Required()
				wantIDs = append([]types.AssessmentID{created.ID}, wantIDs...)
			}
			other := newAssessment(types.ServiceID("svc-b"))
			_, err := repo.RiskAssessment().Create(ctx, other)
			gt.NoError(t, err).Required()

			list, err := repo.RiskAssessment().ListByService(ctx, types.ServiceID("svc-a"))
			gt.NoError(t, err).Required()
			gt.Array(t, list).Length(3)
			for i, a := range list {
				gt.Value(t, a.ID).Equal(wantIDs[i])
				gt.Value(t, a.ServiceID).Equal(types.ServiceID("svc-a"))
			}

			all, err := repo.RiskAssessment().List(ctx)
			gt.NoError(t, err).Required()
			gt.Array(t, all).Length(4)

			none, err := repo.RiskAssessment().ListByService(ctx, types.ServiceID("svc-none"))
			gt.NoError(t, err).Required()
			gt.Array(t, none).Length(0)
		})

		t.Run("Update keeps creation metadata", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.RiskAssessment().Create(ctx, newAssessment(types.ServiceID("svc-1")))
			gt.NoError(t, err).Required()

			change := newAssessment(types.ServiceID("svc-2"))
			change.ID = created.ID
			change.RiskLevel = types.RiskLevelCritical
			change.HoursToRemediate = nil
			change.CreatedBy = "bob@example.com"

			updated, err := repo.RiskAssessment().Update(ctx, change)
			gt.NoError(t, err).Required()
			gt.Value(t, updated.ServiceID).Equal(types.ServiceID("svc-2"))
			gt.Value(t, updated.RiskLevel).Equal(types.RiskLevelCritical)
			gt.Value(t, updated.HoursToRemediate).Nil()
			gt.Value(t, updated.CreatedBy).Equal("alice@example.com")
			gt.Bool(t, sameInstant(updated.CreatedAt, created.CreatedAt)).True()

			missing := newAssessment(types.ServiceID("svc-1"))
			missing.ID = types.NewAssessmentID()
			_, err = repo.RiskAssessment().Update(ctx, missing)
			gt.Error(t, err).Is(interfaces.ErrNotFound)
		})

		t.Run("Delete", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.RiskAssessment().Create(ctx, newAssessment(types.ServiceID("svc-1")))
			gt.NoError(t, err).Required()
			gt.NoError(t, repo.RiskAssessment().Delete(ctx, created.ID)).Required()

			_, err = repo.RiskAssessment().Get(ctx, created.ID)
			gt.Error(t, err).Is(interfaces.ErrNotFound)
			gt.Error(t, repo.RiskAssessment().Delete(ctx, created.ID)).Is(interfaces.ErrNotFound)
		})

		t.Run("returned optional values are copies", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.RiskAssessment().Create(ctx, newAssessment(types.ServiceID("svc-1")))
			gt.NoError(t, err).Required()
			*created.HoursToRemediate = 999

			got, err := repo.RiskAssessment().Get(ctx, created.ID)
			gt.NoError(t, err).Required()
			gt.Number(t, *got.HoursToRemediate).Equal(24)
		})
	})
}
