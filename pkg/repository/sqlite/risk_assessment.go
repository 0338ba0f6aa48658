package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

type assessmentRepository struct {
	db *sql.DB
}

const assessmentColumns = `id, service_id, risk_category, risk_description, risk_level,
	data_classification, data_interface, data_location, likelihood_per_year, mitigation,
	risk_owner, created_at, created_by, updated_at, revenue_impact,
	has_global_revenue_impact, global_revenue_impact_hours,
	has_local_revenue_impact, local_revenue_impact_hours,
	pi_data_at_risk, pi_data_amount, hours_to_remediate, additional_loss_event_costs,
	mitigative_controls_implemented`

func scanAssessment(row rowScanner) (*model.RiskAssessment, error) {
	var (
		a                                        model.RiskAssessment
		id, serviceID, level, revenue            string
		piAtRisk, piAmount, controls             string
		createdAt, updatedAt                     int64
		globalHours, localHours, hours, lossCost sql.NullFloat64
	)
	err := row.Scan(
		&id, &serviceID, &a.RiskCategory, &a.RiskDescription, &level,
		&a.DataClassification, &a.DataInterface, &a.DataLocation, &a.LikelihoodPerYear, &a.Mitigation,
		&a.RiskOwner, &createdAt, &a.CreatedBy, &updatedAt, &revenue,
		&a.HasGlobalRevenueImpact, &globalHours,
		&a.HasLocalRevenueImpact, &localHours,
		&piAtRisk, &piAmount, &hours, &lossCost,
		&controls,
	)
	if err != nil {
		return nil, err
	}

	a.ID = types.AssessmentID(id)
	a.ServiceID = types.ServiceID(serviceID)
	a.RiskLevel = types.RiskLevel(level)
	a.RevenueImpact = types.RevenueImpact(revenue)
	a.PIDataAtRisk = types.PIDataAtRisk(piAtRisk)
	a.PIDataAmount = types.PIDataAmount(piAmount)
	a.MitigativeControlsImplemented = types.MitigativeControls(controls)
	a.CreatedAt = fromUnix(createdAt)
	a.UpdatedAt = fromUnix(updatedAt)
	a.GlobalRevenueImpactHours = fromNullFloat(globalHours)
	a.LocalRevenueImpactHours = fromNullFloat(localHours)
	a.HoursToRemediate = fromNullFloat(hours)
	a.AdditionalLossEventCosts = fromNullFloat(lossCost)
	return &a, nil
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.RiskAssessment) (*model.RiskAssessment, error) {
	a := *assessment
	if a.ID == "" {
		a.ID = types.NewAssessmentID()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO risk_assessments (`+assessmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.ServiceID.String(), a.RiskCategory, a.RiskDescription, a.RiskLevel.String(),
		a.DataClassification, a.DataInterface, a.DataLocation, a.LikelihoodPerYear, a.Mitigation,
		a.RiskOwner, toUnix(a.CreatedAt), a.CreatedBy, toUnix(a.UpdatedAt), a.RevenueImpact.String(),
		a.HasGlobalRevenueImpact, toNullFloat(a.GlobalRevenueImpactHours),
		a.HasLocalRevenueImpact, toNullFloat(a.LocalRevenueImpactHours),
		a.PIDataAtRisk.String(), a.PIDataAmount.String(), toNullFloat(a.HoursToRemediate),
		toNullFloat(a.AdditionalLossEventCosts), a.MitigativeControlsImplemented.String(),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create risk assessment", goerr.V("id", a.ID))
	}
	return r.Get(ctx, a.ID)
}

func (r *assessmentRepository) Get(ctx context.Context, id types.AssessmentID) (*model.RiskAssessment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+assessmentColumns+` FROM risk_assessments WHERE id = ?`, id.String())
	a, err := scanAssessment(row)
	if err != nil {
		return nil, scanError(err, "risk assessment", id.String())
	}
	return a, nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.RiskAssessment, error) {
	return queryAll(ctx, r.db, "risk assessments", scanAssessment,
		`SELECT `+assessmentColumns+` FROM risk_assessments ORDER BY created_at, id`)
}

func (r *assessmentRepository) ListByService(ctx context.Context, serviceID types.ServiceID) ([]*model.RiskAssessment, error) {
	return queryAll(ctx, r.db, "risk assessments", scanAssessment,
		`SELECT `+assessmentColumns+` FROM risk_assessments WHERE service_id = ? ORDER BY created_at, id`,
		serviceID.String())
}

func (r *assessmentRepository) Update(ctx context.Context, assessment *model.RiskAssessment) (*model.RiskAssessment, error) {
	a := assessment
	err := execAffecting(ctx, r.db, "risk assessment", a.ID.String(),
		`UPDATE risk_assessments SET
			service_id = ?, risk_category = ?, risk_description = ?, risk_level = ?,
			data_classification = ?, data_interface = ?, data_location = ?,
			likelihood_per_year = ?, mitigation = ?, risk_owner = ?, updated_at = ?,
			revenue_impact = ?, has_global_revenue_impact = ?, global_revenue_impact_hours = ?,
			has_local_revenue_impact = ?, local_revenue_impact_hours = ?,
			pi_data_at_risk = ?, pi_data_amount = ?, hours_to_remediate = ?,
			additional_loss_event_costs = ?, mitigative_controls_implemented = ?
		WHERE id = ?`,
		a.ServiceID.String(), a.RiskCategory, a.RiskDescription, a.RiskLevel.String(),
		a.DataClassification, a.DataInterface, a.DataLocation,
		a.LikelihoodPerYear, a.Mitigation, a.RiskOwner, toUnix(time.Now()),
		a.RevenueImpact.String(), a.HasGlobalRevenueImpact, toNullFloat(a.GlobalRevenueImpactHours),
		a.HasLocalRevenueImpact, toNullFloat(a.LocalRevenueImpactHours),
		a.PIDataAtRisk.String(), a.PIDataAmount.String(), toNullFloat(a.HoursToRemediate),
		toNullFloat(a.AdditionalLossEventCosts), a.MitigativeControlsImplemented.String(),
		a.ID.String(),
	)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, a.ID)
}

func (r *assessmentRepository) Delete(ctx context.Context, id types.AssessmentID) error {
	return execAffecting(ctx, r.db, "risk assessment", id.String(),
		`DELETE FROM risk_assessments WHERE id = ?`, id.String())
}
