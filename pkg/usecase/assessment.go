package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/interfaces"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/model/auth"
	"github.com/secmon-lab/riskatlas/pkg/domain/model/config"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

// AssessmentInput holds the writable fields of a risk assessment
type AssessmentInput struct {
	ServiceID          types.ServiceID
	RiskCategory       string
	RiskDescription    string
	RiskLevel          types.RiskLevel
	DataClassification string
	DataInterface      string
	DataLocation       string
	LikelihoodPerYear  float64
	Mitigation         string
	RiskOwner          string

	RevenueImpact            types.RevenueImpact
	HasGlobalRevenueImpact   bool
	GlobalRevenueImpactHours *float64
	HasLocalRevenueImpact    bool
	LocalRevenueImpactHours  *float64

	PIDataAtRisk types.PIDataAtRisk
	PIDataAmount types.PIDataAmount

	HoursToRemediate              *float64
	AdditionalLossEventCosts      *float64
	MitigativeControlsImplemented types.MitigativeControls
}

func (in *AssessmentInput) toModel(id types.AssessmentID) *model.RiskAssessment {
	return &model.RiskAssessment{
		ID:                            id,
		ServiceID:                     in.ServiceID,
		RiskCategory:                  strings.TrimSpace(in.RiskCategory),
		RiskDescription:               strings.TrimSpace(in.RiskDescription),
		RiskLevel:                     in.RiskLevel,
		DataClassification:            in.DataClassification,
		DataInterface:                 in.DataInterface,
		DataLocation:                  in.DataLocation,
		LikelihoodPerYear:             in.LikelihoodPerYear,
		Mitigation:                    in.Mitigation,
		RiskOwner:                     strings.TrimSpace(in.RiskOwner),
		RevenueImpact:                 in.RevenueImpact,
		HasGlobalRevenueImpact:        in.HasGlobalRevenueImpact,
		GlobalRevenueImpactHours:      in.GlobalRevenueImpactHours,
		HasLocalRevenueImpact:         in.HasLocalRevenueImpact,
		LocalRevenueImpactHours:       in.LocalRevenueImpactHours,
		PIDataAtRisk:                  in.PIDataAtRisk,
		PIDataAmount:                  in.PIDataAmount,
		HoursToRemediate:              in.HoursToRemediate,
		AdditionalLossEventCosts:      in.AdditionalLossEventCosts,
		MitigativeControlsImplemented: in.MitigativeControlsImplemented,
	}
}

type AssessmentUseCase struct {
	repo       interfaces.Repository
	riskConfig *config.RiskConfig
	onChange   ChangeHook
}

func NewAssessmentUseCase(repo interfaces.Repository, cfg *config.RiskConfig, onChange ChangeHook) *AssessmentUseCase {
	if cfg == nil {
		cfg = &config.RiskConfig{}
	}
	return &AssessmentUseCase{
		repo:       repo,
		riskConfig: cfg,
		onChange:   onChange.orNoop(),
	}
}

func (uc *AssessmentUseCase) validate(ctx context.Context, a *model.RiskAssessment) error {
	if err := a.Validate(); err != nil {
		return err
	}

	if !uc.riskConfig.HasCategory(a.RiskCategory) {
		return goerr.Wrap(ErrValidation, "unknown risk category",
			goerr.V(model.FieldNameKey, "risk_category"), goerr.V(model.FieldValueKey, a.RiskCategory))
	}
	if a.DataClassification != "" && !uc.riskConfig.HasDataClassification(a.DataClassification) {
		return goerr.Wrap(ErrValidation, "unknown data classification",
			goerr.V(model.FieldNameKey, "data_classification"), goerr.V(model.FieldValueKey, a.DataClassification))
	}

	if _, err := uc.repo.Service().Get(ctx, a.ServiceID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(model.ErrInvalidReference, "service does not exist",
				goerr.V(model.FieldNameKey, "service_id"), goerr.V(ServiceIDKey, a.ServiceID))
		}
		return goerr.Wrap(err, "failed to get service", goerr.V(ServiceIDKey, a.ServiceID))
	}
	return nil
}

// CreateAssessment stores a new assessment. When no risk owner is given the
// current user's email is used.
func (uc *AssessmentUseCase) CreateAssessment(ctx context.Context, input AssessmentInput) (*model.RiskAssessment, error) {
	assessment := input.toModel(types.NewAssessmentID())
	assessment.CreatedBy = actor(ctx)
	if assessment.RiskOwner == "" {
		if token := auth.TokenFromContext(ctx); token != nil {
			assessment.RiskOwner = token.Email
		}
	}

	if err := uc.validate(ctx, assessment); err != nil {
		return nil, err
	}

	created, err := uc.repo.RiskAssessment().Create(ctx, assessment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create risk assessment")
	}
	uc.onChange(ctx)
	return created, nil
}

func (uc *AssessmentUseCase) GetAssessment(ctx context.Context, id types.AssessmentID) (*model.RiskAssessment, error) {
	assessment, err := uc.repo.RiskAssessment().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrAssessmentNotFound, "risk assessment not found", goerr.V(AssessmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get risk assessment", goerr.V(AssessmentIDKey, id))
	}
	return assessment, nil
}

func (uc *AssessmentUseCase) UpdateAssessment(ctx context.Context, id types.AssessmentID, input AssessmentInput) (*model.RiskAssessment, error) {
	existing, err := uc.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}

	assessment := input.toModel(id)
	assessment.CreatedAt = existing.CreatedAt
	assessment.CreatedBy = existing.CreatedBy
	if assessment.RiskOwner == "" {
		assessment.RiskOwner = existing.RiskOwner
	}

	if err := uc.validate(ctx, assessment); err != nil {
		return nil, err
	}

	updated, err := uc.repo.RiskAssessment().Update(ctx, assessment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk assessment", goerr.V(AssessmentIDKey, id))
	}
	uc.onChange(ctx)
	return updated, nil
}

func (uc *AssessmentUseCase) DeleteAssessment(ctx context.Context, id types.AssessmentID) error {
	if err := uc.repo.RiskAssessment().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrAssessmentNotFound, "risk assessment not found", goerr.V(AssessmentIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete risk assessment", goerr.V(AssessmentIDKey, id))
	}
	uc.onChange(ctx)
	return nil
}
