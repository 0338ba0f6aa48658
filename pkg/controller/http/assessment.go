package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
)

type assessmentRequest struct {
	ServiceID          string  `json:"service_id" validate:"required"`
	RiskCategory       string  `json:"risk_category" validate:"required"`
	RiskDescription    string  `json:"risk_description" validate:"required,max=5000"`
	RiskLevel          string  `json:"risk_level" validate:"required"`
	DataClassification string  `json:"data_classification"`
	DataInterface      string  `json:"data_interface"`
	DataLocation       string  `json:"data_location"`
	LikelihoodPerYear  float64 `json:"likelihood_per_year" validate:"gte=0,lte=100"`
	Mitigation         string  `json:"mitigation"`
	RiskOwner          string  `json:"risk_owner" validate:"max=320"`

	RevenueImpact            string   `json:"revenue_impact" validate:"required"`
	HasGlobalRevenueImpact   bool     `json:"has_global_revenue_impact"`
	GlobalRevenueImpactHours *float64 `json:"global_revenue_impact_hours" validate:"omitempty,gte=0"`
	HasLocalRevenueImpact    bool     `json:"has_local_revenue_impact"`
	LocalRevenueImpactHours  *float64 `json:"local_revenue_impact_hours" validate:"omitempty,gte=0"`

	PIDataAtRisk string `json:"pi_data_at_risk" validate:"required"`
	PIDataAmount string `json:"pi_data_amount"`

	HoursToRemediate              *float64 `json:"hours_to_remediate" validate:"omitempty,gte=0"`
	AdditionalLossEventCosts      *float64 `json:"additional_loss_event_costs" validate:"omitempty,gte=0"`
	MitigativeControlsImplemented string   `json:"mitigative_controls_implemented"`
}

// input converts the request, rejecting unknown enum values
func (req *assessmentRequest) input() (usecase.AssessmentInput, error) {
	in := usecase.AssessmentInput{
		ServiceID:                types.ServiceID(req.ServiceID),
		RiskCategory:             req.RiskCategory,
		RiskDescription:          req.RiskDescription,
		DataClassification:       req.DataClassification,
		DataInterface:            req.DataInterface,
		DataLocation:             req.DataLocation,
		LikelihoodPerYear:        req.LikelihoodPerYear,
		Mitigation:               req.Mitigation,
		RiskOwner:                req.RiskOwner,
		HasGlobalRevenueImpact:   req.HasGlobalRevenueImpact,
		GlobalRevenueImpactHours: req.GlobalRevenueImpactHours,
		HasLocalRevenueImpact:    req.HasLocalRevenueImpact,
		LocalRevenueImpactHours:  req.LocalRevenueImpactHours,
		HoursToRemediate:         req.HoursToRemediate,
		AdditionalLossEventCosts: req.AdditionalLossEventCosts,
	}

	var err error
	if in.RiskLevel, err = types.ParseRiskLevel(req.RiskLevel); err != nil {
		return in, invalidField("risk_level", err)
	}
	if in.RevenueImpact, err = types.ParseRevenueImpact(req.RevenueImpact); err != nil {
		return in, invalidField("revenue_impact", err)
	}
	if in.PIDataAtRisk, err = types.ParsePIDataAtRisk(req.PIDataAtRisk); err != nil {
		return in, invalidField("pi_data_at_risk", err)
	}
	if req.PIDataAmount != "" {
		if in.PIDataAmount, err = types.ParsePIDataAmount(req.PIDataAmount); err != nil {
			return in, invalidField("pi_data_amount", err)
		}
	}
	if req.MitigativeControlsImplemented != "" {
		if in.MitigativeControlsImplemented, err = types.ParseMitigativeControls(req.MitigativeControlsImplemented); err != nil {
			return in, invalidField("mitigative_controls_implemented", err)
		}
	}
	return in, nil
}

func invalidField(field string, err error) error {
	return goerr.Wrap(usecase.ErrValidation, "invalid field "+field+": "+err.Error(), goerr.V("field", field))
}

type assessmentResponse struct {
	ID                 string  `json:"id"`
	ServiceID          string  `json:"service_id"`
	RiskCategory       string  `json:"risk_category"`
	RiskDescription    string  `json:"risk_description"`
	RiskLevel          string  `json:"risk_level"`
	DataClassification string  `json:"data_classification"`
	DataInterface      string  `json:"data_interface"`
	DataLocation       string  `json:"data_location"`
	LikelihoodPerYear  float64 `json:"likelihood_per_year"`
	Mitigation         string  `json:"mitigation"`
	RiskOwner          string  `json:"risk_owner"`

	RevenueImpact            string   `json:"revenue_impact"`
	HasGlobalRevenueImpact   bool     `json:"has_global_revenue_impact"`
	GlobalRevenueImpactHours *float64 `json:"global_revenue_impact_hours,omitempty"`
	HasLocalRevenueImpact    bool     `json:"has_local_revenue_impact"`
	LocalRevenueImpactHours  *float64 `json:"local_revenue_impact_hours,omitempty"`

	PIDataAtRisk string `json:"pi_data_at_risk"`
	PIDataAmount string `json:"pi_data_amount,omitempty"`

	HoursToRemediate              *float64 `json:"hours_to_remediate,omitempty"`
	AdditionalLossEventCosts      *float64 `json:"additional_loss_event_costs,omitempty"`
	MitigativeControlsImplemented string   `json:"mitigative_controls_implemented,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAssessmentResponse(a *model.RiskAssessment) assessmentResponse {
	return assessmentResponse{
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
		CreatedAt:                     a.CreatedAt,
		CreatedBy:                     a.CreatedBy,
		UpdatedAt:                     a.UpdatedAt,
	}
}

type serviceDetailResponse struct {
	Name     string `json:"name"`
	Division string `json:"division"`
	Team     string `json:"team"`
}

type assessmentRowResponse struct {
	assessmentResponse
	Service serviceDetailResponse `json:"service"`
}

func scopeOf(r *http.Request) usecase.Scope {
	q := r.URL.Query()
	return usecase.Scope{
		Division: q.Get("division"),
		Team:     q.Get("team"),
	}
}

// listAssessments returns assessments joined with their service, filtered by
// ?q=, ?division= and ?team=, newest first
func (s *Server) listAssessments(w http.ResponseWriter, r *http.Request) {
	rows, err := s.uc.Report.ListAssessmentRows(r.Context(), usecase.AssessmentQuery{
		Search: r.URL.Query().Get("q"),
		Scope:  scopeOf(r),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]assessmentRowResponse, len(rows))
	for i, row := range rows {
		resp[i] = assessmentRowResponse{
			assessmentResponse: toAssessmentResponse(row.Assessment),
			Service: serviceDetailResponse{
				Name:     row.Detail.Name,
				Division: row.Detail.Division,
				Team:     row.Detail.Team,
			},
		}
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) createAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		handleError(w, r, err)
		return
	}
	a, err := s.uc.Assessment.CreateAssessment(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toAssessmentResponse(a))
}

func (s *Server) getAssessment(w http.ResponseWriter, r *http.Request) {
	a, err := s.uc.Assessment.GetAssessment(r.Context(), types.AssessmentID(chi.URLParam(r, "id")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toAssessmentResponse(a))
}

func (s *Server) updateAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		handleError(w, r, err)
		return
	}
	a, err := s.uc.Assessment.UpdateAssessment(r.Context(), types.AssessmentID(chi.URLParam(r, "id")), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toAssessmentResponse(a))
}

func (s *Server) deleteAssessment(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Assessment.DeleteAssessment(r.Context(), types.AssessmentID(chi.URLParam(r, "id"))); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
