package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/riskatlas/pkg/domain/metrics"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

type serviceViewResponse struct {
	Service     serviceRecordResponse `json:"service"`
	Assessments []assessmentResponse  `json:"assessments"`
	Summary     metrics.Summary       `json:"summary"`
}

// serviceDetail returns a service with resolved names and its assessments
func (s *Server) serviceDetail(w http.ResponseWriter, r *http.Request) {
	view, err := s.uc.Report.ServiceDetail(r.Context(), types.ServiceID(chi.URLParam(r, "id")))
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := serviceViewResponse{
		Service:     toServiceRecordResponse(view.Service),
		Assessments: make([]assessmentResponse, len(view.Assessments)),
		Summary:     view.Summary,
	}
	for i, a := range view.Assessments {
		resp.Assessments[i] = toAssessmentResponse(a)
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.uc.Report.Dashboard(r.Context(), scopeOf(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, dash)
}

// departmentReport builds the CISO report; without ?division= and ?team=
// the configured scope is used
func (s *Server) departmentReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.uc.Report.DepartmentReport(r.Context(), scopeOf(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, report)
}

type standardRiskResponse struct {
	Name              string `json:"name"`
	Category          string `json:"category"`
	Description       string `json:"description"`
	LossEventCategory string `json:"loss_event_category"`
}

func (s *Server) standardRisks(w http.ResponseWriter, r *http.Request) {
	risks := s.uc.Report.StandardRisks()
	resp := make([]standardRiskResponse, len(risks))
	for i, risk := range risks {
		resp[i] = standardRiskResponse{
			Name:              risk.Name,
			Category:          risk.Category,
			Description:       risk.Description,
			LossEventCategory: risk.LossEventCategory,
		}
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

type categoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type riskConfigResponse struct {
	Categories          []categoryResponse `json:"categories"`
	DataClassifications []string           `json:"data_classifications"`
	StandardCategories  []string           `json:"standard_categories"`
	RiskLevels          []string           `json:"risk_levels"`
	RevenueImpacts      []string           `json:"revenue_impacts"`
	PIDataAmounts       []string           `json:"pi_data_amounts"`
	MitigativeControls  []string           `json:"mitigative_controls"`
	ReportScope         struct {
		Division string `json:"division"`
		Team     string `json:"team"`
	} `json:"report_scope"`
}

// riskConfig returns the choices offered by assessment forms
func (s *Server) riskConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.uc.RiskConfig()
	resp := riskConfigResponse{
		Categories:          make([]categoryResponse, len(cfg.Categories)),
		DataClassifications: append([]string{}, cfg.DataClassifications...),
		StandardCategories:  append([]string{}, s.uc.Report.StandardCategories()...),
		RiskLevels:          enumStrings(types.AllRiskLevels()),
		RevenueImpacts:      enumStrings(types.AllRevenueImpacts()),
		PIDataAmounts:       enumStrings(types.AllPIDataAmounts()),
		MitigativeControls:  enumStrings(types.AllMitigativeControls()),
	}
	for i, c := range cfg.Categories {
		resp.Categories[i] = categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
	}
	scope := s.uc.Report.DefaultScope()
	resp.ReportScope.Division = scope.Division
	resp.ReportScope.Team = scope.Team

	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
