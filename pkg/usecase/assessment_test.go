package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/model/config"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
	"github.com/secmon-lab/riskatlas/pkg/repository/memory"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
)

func float(v float64) *float64 {
	return &v
}

func validInput(serviceID types.ServiceID) usecase.AssessmentInput {
	return usecase.AssessmentInput{
		ServiceID:          serviceID,
		RiskCategory:       "Security",
		RiskDescription:    "Stolen API keys",
		RiskLevel:          types.RiskLevelHigh,
		DataClassification: "Confidential",
		LikelihoodPerYear:  10,
		Mitigation:         "Key rotation",
		RevenueImpact:      types.RevenueImpactUnclear,
		PIDataAtRisk:       types.PIDataAtRiskNo,
		HoursToRemediate:   float(8),
	}
}

func TestAssessmentUseCase(t *testing.T) {
	repo := memory.New()
	cfg := &config.RiskConfig{
		Categories:          []config.Category{{ID: "security", Name: "Security"}, {ID: "error", Name: "Error"}},
		DataClassifications: []string{"Public", "Confidential"},
	}
	uc := usecase.New(repo, usecase.WithRiskConfig(cfg))
	ctx := userContext()

	svc, err := uc.Service.CreateService(ctx, usecase.ServiceInput{Name: "Billing"})
	gt.NoError(t, err).Required()

	t.Run("create defaults owner and creator to the current user", func(t *testing.T) {
		created, err := uc.Assessment.CreateAssessment(ctx, validInput(svc.ID))
		gt.NoError(t, err).Required()
		gt.Value(t, created.RiskOwner).Equal("alice@example.com")
		gt.Value(t, created.CreatedBy).Equal("alice@example.com")
		gt.Bool(t, created.CreatedAt.IsZero()).False()
	})

	t.Run("explicit owner is kept", func(t *testing.T) {
		in := validInput(svc.ID)
		in.RiskOwner = "security-team@example.com"
		created, err := uc.Assessment.CreateAssessment(ctx, in)
		gt.NoError(t, err).Required()
		gt.Value(t, created.RiskOwner).Equal("security-team@example.com")
	})

	t.Run("without a user the owner stays empty", func(t *testing.T) {
		created, err := uc.Assessment.CreateAssessment(context.Background(), validInput(svc.ID))
		gt.NoError(t, err).Required()
		gt.Value(t, created.RiskOwner).Equal("")
		gt.Value(t, created.CreatedBy).Equal("")
	})

	t.Run("write path validation", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(in *usecase.AssessmentInput)
			target error
		}{
			{"likelihood above 100", func(in *usecase.AssessmentInput) { in.LikelihoodPerYear = 101 }, model.ErrOutOfRange},
			{"negative likelihood", func(in *usecase.AssessmentInput) { in.LikelihoodPerYear = -1 }, model.ErrOutOfRange},
			{"negative hours", func(in *usecase.AssessmentInput) { in.HoursToRemediate = float(-2) }, model.ErrOutOfRange},
			{"negative costs", func(in *usecase.AssessmentInput) { in.AdditionalLossEventCosts = float(-0.5) }, model.ErrOutOfRange},
			{"unknown level", func(in *usecase.AssessmentInput) { in.RiskLevel = "severe" }, model.ErrInvalidEnum},
			{"unknown pi amount", func(in *usecase.AssessmentInput) { in.PIDataAmount = "lots" }, model.ErrInvalidEnum},
			{"missing description", func(in *usecase.AssessmentInput) { in.RiskDescription = " " }, model.ErrMissingRequired},
			{"unconfigured category", func(in *usecase.AssessmentInput) { in.RiskCategory = "Weather" }, usecase.ErrValidation},
			{"unconfigured classification", func(in *usecase.AssessmentInput) { in.DataClassification = "Top Secret" }, usecase.ErrValidation},
			{"unknown service", func(in *usecase.AssessmentInput) { in.ServiceID = "svc-gone" }, model.ErrInvalidReference},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				in := validInput(svc.ID)
				tc.mutate(&in)
				_, err := uc.Assessment.CreateAssessment(ctx, in)
				gt.Error(t, err).Is(tc.target)
				gt.Bool(t, usecase.IsValidationError(err)).True()
			})
		}
	})

	t.Run("boundary values are accepted", func(t *testing.T) {
		in := validInput(svc.ID)
		in.LikelihoodPerYear = 100
		in.HoursToRemediate = float(0)
		_, err := uc.Assessment.CreateAssessment(ctx, in)
		gt.NoError(t, err)
	})

	t.Run("update keeps creation metadata", func(t *testing.T) {
		created, err := uc.Assessment.CreateAssessment(ctx, validInput(svc.ID))
		gt.NoError(t, err).Required()

		in := validInput(svc.ID)
		in.RiskLevel = types.RiskLevelCritical
		updated, err := uc.Assessment.UpdateAssessment(context.Background(), created.ID, in)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.RiskLevel).Equal(types.RiskLevelCritical)
		gt.Value(t, updated.RiskOwner).Equal("alice@example.com")
		gt.Value(t, updated.CreatedBy).Equal("alice@example.com")
		gt.Bool(t, updated.CreatedAt.Equal(created.CreatedAt)).True()
	})

	t.Run("not found", func(t *testing.T) {
		_, err := uc.Assessment.GetAssessment(ctx, types.NewAssessmentID())
		gt.Error(t, err).Is(usecase.ErrAssessmentNotFound)
		_, err = uc.Assessment.UpdateAssessment(ctx, types.NewAssessmentID(), validInput(svc.ID))
		gt.Error(t, err).Is(usecase.ErrAssessmentNotFound)
		gt.Error(t, uc.Assessment.DeleteAssessment(ctx, types.NewAssessmentID())).Is(usecase.ErrAssessmentNotFound)
	})
}
