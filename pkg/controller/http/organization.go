package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
)

type divisionRequest struct {
	Name             string `json:"name" validate:"required,max=200"`
	Description      string `json:"description" validate:"max=2000"`
	ParentDivisionID string `json:"parent_division_id"`
}

type divisionResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	ParentDivisionID string    `json:"parent_division_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toDivisionResponse(d *model.Division) divisionResponse {
	return divisionResponse{
		ID:               d.ID.String(),
		Name:             d.Name,
		Description:      d.Description,
		ParentDivisionID: d.ParentDivisionID.String(),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (req *divisionRequest) input() usecase.DivisionInput {
	return usecase.DivisionInput{
		Name:             req.Name,
		Description:      req.Description,
		ParentDivisionID: types.DivisionID(req.ParentDivisionID),
	}
}

func (s *Server) listDivisions(w http.ResponseWriter, r *http.Request) {
	divisions, err := s.uc.Division.ListDivisions(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	resp := make([]divisionResponse, len(divisions))
	for i, d := range divisions {
		resp[i] = toDivisionResponse(d)
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) createDivision(w http.ResponseWriter, r *http.Request) {
	var req divisionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	division, err := s.uc.Division.CreateDivision(r.Context(), req.input())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toDivisionResponse(division))
}

func (s *Server) getDivision(w http.ResponseWriter, r *http.Request) {
	division, err := s.uc.Division.GetDivision(r.Context(), types.DivisionID(chi.URLParam(r, "id")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toDivisionResponse(division))
}

func (s *Server) updateDivision(w http.ResponseWriter, r *http.Request) {
	var req divisionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	division, err := s.uc.Division.UpdateDivision(r.Context(), types.DivisionID(chi.URLParam(r, "id")), req.input())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toDivisionResponse(division))
}

func (s *Server) deleteDivision(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Division.DeleteDivision(r.Context(), types.DivisionID(chi.URLParam(r, "id"))); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type teamRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	DivisionID  string `json:"division_id" validate:"required"`
}

type teamResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	DivisionID  string    `json:"division_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTeamResponse(t *model.Team) teamResponse {
	return teamResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		DivisionID:  t.DivisionID.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (req *teamRequest) input() usecase.TeamInput {
	return usecase.TeamInput{
		Name:        req.Name,
		Description: req.Description,
		DivisionID:  types.DivisionID(req.DivisionID),
	}
}

// listTeams returns every team, or the teams of ?division_id= when given
func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.uc.Team.ListTeams(r.Context(), types.DivisionID(r.URL.Query().Get("division_id")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	resp := make([]teamResponse, len(teams))
	for i, t := range teams {
		resp[i] = toTeamResponse(t)
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) createTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	team, err := s.uc.Team.CreateTeam(r.Context(), req.input())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toTeamResponse(team))
}

func (s *Server) getTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.uc.Team.GetTeam(r.Context(), types.TeamID(chi.URLParam(r, "id")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toTeamResponse(team))
}

func (s *Server) updateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	team, err := s.uc.Team.UpdateTeam(r.Context(), types.TeamID(chi.URLParam(r, "id")), req.input())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toTeamResponse(team))
}

func (s *Server) deleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Team.DeleteTeam(r.Context(), types.TeamID(chi.URLParam(r, "id"))); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type serviceRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	DivisionID  string `json:"division_id"`
	TeamID      string `json:"team_id"`
}

type serviceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	DivisionID  string    `json:"division_id,omitempty"`
	TeamID      string    `json:"team_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toServiceResponse(svc *model.Service) serviceResponse {
	return serviceResponse{
		ID:          svc.ID.String(),
		Name:        svc.Name,
		Description: svc.Description,
		DivisionID:  svc.DivisionID.String(),
		TeamID:      svc.TeamID.String(),
		CreatedAt:   svc.CreatedAt,
		CreatedBy:   svc.CreatedBy,
		UpdatedAt:   svc.UpdatedAt,
	}
}

func (req *serviceRequest) input() usecase.ServiceInput {
	return usecase.ServiceInput{
		Name:        req.Name,
		Description: req.Description,
		DivisionID:  types.DivisionID(req.DivisionID),
		TeamID:      types.TeamID(req.TeamID),
	}
}

type serviceRecordResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Division    string    `json:"division"`
	DivisionID  string    `json:"division_id,omitempty"`
	Team        string    `json:"team"`
	TeamID      string    `json:"team_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
}

func toServiceRecordResponse(rec *model.ServiceRecord) serviceRecordResponse {
	return serviceRecordResponse{
		ID:          rec.ID.String(),
		Name:        rec.Name,
		Description: rec.Description,
		Division:    rec.Division,
		DivisionID:  rec.DivisionID.String(),
		Team:        rec.Team,
		TeamID:      rec.TeamID.String(),
		CreatedAt:   rec.CreatedAt,
		CreatedBy:   rec.CreatedBy,
	}
}

func (s *Server) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.uc.Service.ListServices(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	resp := make([]serviceResponse, len(services))
	for i, svc := range services {
		resp[i] = toServiceResponse(svc)
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) createService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	svc, err := s.uc.Service.CreateService(r.Context(), req.input())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toServiceResponse(svc))
}

func (s *Server) getService(w http.ResponseWriter, r *http.Request) {
	svc, err := s.uc.Service.GetService(r.Context(), types.ServiceID(chi.URLParam(r, "id")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toServiceResponse(svc))
}

func (s *Server) updateService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	svc, err := s.uc.Service.UpdateService(r.Context(), types.ServiceID(chi.URLParam(r, "id")), req.input())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toServiceResponse(svc))
}

func (s *Server) deleteService(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Service.DeleteService(r.Context(), types.ServiceID(chi.URLParam(r, "id"))); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookupService finds a service by ?name= ignoring case
func (s *Server) lookupService(w http.ResponseWriter, r *http.Request) {
	rec, err := s.uc.Report.LookupService(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toServiceRecordResponse(rec))
}
