package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

type assessmentDocument struct {
	ID                 string    `firestore:"id"`
	ServiceID          string    `firestore:"service_id"`
	RiskCategory       string    `firestore:"risk_category"`
	RiskDescription    string    `firestore:"risk_description"`
	RiskLevel          string    `firestore:"risk_level"`
	DataClassification string    `firestore:"data_classification"`
	DataInterface      string    `firestore:"data_interface"`
	DataLocation       string    `firestore:"data_location"`
	LikelihoodPerYear  float64   `firestore:"likelihood_per_year"`
	Mitigation         string    `firestore:"mitigation"`
	RiskOwner          string    `firestore:"risk_owner"`
	CreatedAt          time.Time `firestore:"created_at"`
	CreatedBy          string    `firestore:"created_by"`
	UpdatedAt          time.Time `firestore:"updated_at"`

	RevenueImpact            string   `firestore:"revenue_impact"`
	HasGlobalRevenueImpact   bool     `firestore:"has_global_revenue_impact"`
	GlobalRevenueImpactHours *float64 `firestore:"global_revenue_impact_hours"`
	HasLocalRevenueImpact    bool     `firestore:"has_local_revenue_impact"`
	LocalRevenueImpactHours  *float64 `firestore:"local_revenue_impact_hours"`

	PIDataAtRisk string `firestore:"pi_data_at_risk"`
	PIDataAmount string `firestore:"pi_data_amount"`

	HoursToRemediate              *float64 `firestore:"hours_to_remediate"`
	AdditionalLossEventCosts      *float64 `firestore:"additional_loss_event_costs"`
	MitigativeControlsImplemented string   `firestore:"mitigative_controls_implemented"`
}

func (d *assessmentDocument) toModel() *model.RiskAssessment {
	return &model.RiskAssessment{
		ID:                            types.AssessmentID(d.ID),
		ServiceID:                     types.ServiceID(d.ServiceID),
		RiskCategory:                  d.RiskCategory,
		RiskDescription:               d.RiskDescription,
		RiskLevel:                     types.RiskLevel(d.RiskLevel),
		DataClassification:            d.DataClassification,
		DataInterface:                 d.DataInterface,
		DataLocation:                  d.DataLocation,
		LikelihoodPerYear:             d.LikelihoodPerYear,
		Mitigation:                    d.Mitigation,
		RiskOwner:                     d.RiskOwner,
		CreatedAt:                     d.CreatedAt,
		CreatedBy:                     d.CreatedBy,
		UpdatedAt:                     d.UpdatedAt,
		RevenueImpact:                 types.RevenueImpact(d.RevenueImpact),
		HasGlobalRevenueImpact:        d.HasGlobalRevenueImpact,
		GlobalRevenueImpactHours:      d.GlobalRevenueImpactHours,
		HasLocalRevenueImpact:         d.HasLocalRevenueImpact,
		LocalRevenueImpactHours:       d.LocalRevenueImpactHours,
		PIDataAtRisk:                  types.PIDataAtRisk(d.PIDataAtRisk),
		PIDataAmount:                  types.PIDataAmount(d.PIDataAmount),
		HoursToRemediate:              d.HoursToRemediate,
		AdditionalLossEventCosts:      d.AdditionalLossEventCosts,
		MitigativeControlsImplemented: types.MitigativeControls(d.MitigativeControlsImplemented),
	}
}

func toAssessmentDocument(a *model.RiskAssessment) *assessmentDocument {
	return &assessmentDocument{
		ID:                            a.ID.String(),
		ServiceID:                     a.ServiceID.String(),
		RiskCategory:                  a.RiskCategory,
		RiskDescription:               a.RiskDescription,
		RiskLevel:                     a.RiskLevel.String(),
		DataClassification:            a.DataClassification,
		DataInterface:                 a.DataInterface,
		DataLocation:                  a.DataLocation,
		LikelihoodPerYear:             a.LikelihoodPerYear,
		Mitigation:                    a.Mitigation,
		RiskOwner:                     a.RiskOwner,
		CreatedAt:                     a.CreatedAt,
		CreatedBy:                     a.CreatedBy,
		UpdatedAt:                     a.UpdatedAt,
		RevenueImpact:                 a.RevenueImpact.String(),
		HasGlobalRevenueImpact:        a.HasGlobalRevenueImpact,
		GlobalRevenueImpactHours:      a.GlobalRevenueImpactHours,
		HasLocalRevenueImpact:         a.HasLocalRevenueImpact,
		LocalRevenueImpactHours:       a.LocalRevenueImpactHours,
		PIDataAtRisk:                  a.PIDataAtRisk.String(),
		PIDataAmount:                  a.PIDataAmount.String(),
		HoursToRemediate:              a.HoursToRemediate,
		AdditionalLossEventCosts:      a.AdditionalLossEventCosts,
		MitigativeControlsImplemented: a.MitigativeControlsImplemented.String(),
	}
}

type assessmentRepository struct {
	client     *firestore.Client
	collection string
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.RiskAssessment) (*model.RiskAssessment, error) {
	doc := toAssessmentDocument(assessment)
	if doc.ID == "" {
		doc.ID = types.NewAssessmentID().String()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if _, err := r.client.Collection(r.collection).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create risk assessment", goerr.V("id", doc.ID))
	}
	return doc.toModel(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id types.AssessmentID) (*model.RiskAssessment, error) {
	var doc assessmentDocument
	if err := getDoc(ctx, r.client.Collection(r.collection).Doc(id.String()), &doc, "risk assessment"); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *assessmentRepository) list(ctx context.Context, query firestore.Query) ([]*model.RiskAssessment, error) {
	docs, err := collect[assessmentDocument](query.OrderBy("created_at", firestore.Asc).Documents(ctx), "risk assessments")
	if err != nil {
		return nil, err
	}

	assessments := make([]*model.RiskAssessment, 0, len(docs))
	for _, doc := range docs {
		assessments = append(assessments, doc.toModel())
	}
	return assessments, nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.RiskAssessment, error) {
	return r.list(ctx, r.client.Collection(r.collection).Query)
}

// ListByService relies on the (service_id, created_at) composite index
// created by the migrate command.
func (r *assessmentRepository) ListByService(ctx context.Context, serviceID types.ServiceID) ([]*model.RiskAssessment, error) {
	return r.list(ctx, r.client.Collection(r.collection).Where("service_id", "==", serviceID.String()))
}

func (r *assessmentRepository) Update(ctx context.Context, assessment *model.RiskAssessment) (*model.RiskAssessment, error) {
	ref := r.client.Collection(r.collection).Doc(assessment.ID.String())

	var existing assessmentDocument
	if err := getDoc(ctx, ref, &existing, "risk assessment"); err != nil {
		return nil, err
	}

	doc := toAssessmentDocument(assessment)
	doc.CreatedAt = existing.CreatedAt
	doc.CreatedBy = existing.CreatedBy
	doc.UpdatedAt = time.Now().UTC()

	if _, err := ref.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update risk assessment", goerr.V("id", assessment.ID))
	}
	return doc.toModel(), nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id types.AssessmentID) error {
	return deleteDoc(ctx, r.client.Collection(r.collection).Doc(id.String()), "risk assessment")
}
