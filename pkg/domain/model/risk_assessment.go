package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

// RiskAssessment is a structured risk record attached to a service.
// Optional numeric fields are nil when not provided.
type RiskAssessment struct {
	ID                 types.AssessmentID
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
	CreatedAt          time.Time
	CreatedBy          string
	UpdatedAt          time.Time

	RevenueImpact            types.RevenueImpact
	HasGlobalRevenueImpact   bool
	GlobalRevenueImpactHours *float64
	HasLocalRevenueImpact    bool
	LocalRevenueImpactHours  *float64

	PIDataAtRisk types.PIDataAtRisk
	PIDataAmount types.PIDataAmount // empty when not provided

	HoursToRemediate              *float64
	AdditionalLossEventCosts      *float64
	MitigativeControlsImplemented types.MitigativeControls // empty when not provided
}

// Validate checks a risk assessment before it is written. Read paths never
// call this: stored rows are accepted as they are.
func (r *RiskAssessment) Validate() error {
	if err := r.ServiceID.Validate(); err != nil {
		return goerr.Wrap(ErrMissingRequired, "service is required", goerr.V(FieldNameKey, "service_id"))
	}
	if r.RiskCategory == "" {
		return goerr.Wrap(ErrMissingRequired, "risk category is required", goerr.V(FieldNameKey, "risk_category"))
	}
	if r.RiskDescription == "" {
		return goerr.Wrap(ErrMissingRequired, "risk description is required", goerr.V(FieldNameKey, "risk_description"))
	}
	if !r.RiskLevel.IsValid() {
		return goerr.Wrap(ErrInvalidEnum, "invalid risk level",
			goerr.V(FieldNameKey, "risk_level"), goerr.V(FieldValueKey, r.RiskLevel))
	}
	if r.LikelihoodPerYear < 0 || r.LikelihoodPerYear > 100 {
		return goerr.Wrap(ErrOutOfRange, "likelihood per year must be between 0 and 100",
			goerr.V(FieldNameKey, "likelihood_per_year"), goerr.V(FieldValueKey, r.LikelihoodPerYear))
	}
	if !r.RevenueImpact.IsValid() {
		return goerr.Wrap(ErrInvalidEnum, "invalid revenue impact",
			goerr.V(FieldNameKey, "revenue_impact"), goerr.V(FieldValueKey, r.RevenueImpact))
	}
	if !r.PIDataAtRisk.IsValid() {
		return goerr.Wrap(ErrInvalidEnum, "invalid pi data at risk",
			goerr.V(FieldNameKey, "pi_data_at_risk"), goerr.V(FieldValueKey, r.PIDataAtRisk))
	}
	if r.PIDataAmount != "" && !r.PIDataAmount.IsValid() {
		return goerr.Wrap(ErrInvalidEnum, "invalid pi data amount",
			goerr.V(FieldNameKey, "pi_data_amount"), goerr.V(FieldValueKey, r.PIDataAmount))
	}
	if r.MitigativeControlsImplemented != "" && !r.MitigativeControlsImplemented.IsValid() {
		return goerr.Wrap(ErrInvalidEnum, "invalid mitigative controls",
			goerr.V(FieldNameKey, "mitigative_controls_implemented"), goerr.V(FieldValueKey, r.MitigativeControlsImplemented))
	}

	nonNegative := []struct {
		name  string
		value *float64
	}{
		{"global_revenue_impact_hours", r.GlobalRevenueImpactHours},
		{"local_revenue_impact_hours", r.LocalRevenueImpactHours},
		{"hours_to_remediate", r.HoursToRemediate},
		{"additional_loss_event_costs", r.AdditionalLossEventCosts},
	}
	for _, f := range nonNegative {
		if f.value != nil && *f.value < 0 {
			return goerr.Wrap(ErrOutOfRange, "value must not be negative",
				goerr.V(FieldNameKey, f.name), goerr.V(FieldValueKey, *f.value))
		}
	}

	return nil
}
