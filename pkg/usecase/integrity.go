package usecase

import (
	"context"

	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

// IntegrityIssue is one record whose reference points at a missing entity
type IntegrityIssue struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	Field    string `json:"field"`
	Missing  string `json:"missing"`
	Resolved string `json:"resolved"`
}

// IntegrityReport lists the dangling references of a dataset. Dangling
// references are tolerated by every read path; the report only makes them
// visible.
type IntegrityReport struct {
	Issues []IntegrityIssue `json:"issues"`
}

func (r *IntegrityReport) HasIssues() bool {
	return len(r.Issues) > 0
}

// CheckIntegrity reports references to divisions, teams and services that
// no longer exist
func (uc *ReportUseCase) CheckIntegrity(ctx context.Context) (*IntegrityReport, error) {
	ds, err := uc.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}

	divisions := make(map[types.DivisionID]struct{}, len(ds.Divisions))
	for _, d := range ds.Divisions {
		divisions[d.ID] = struct{}{}
	}
	teams := make(map[types.TeamID]struct{}, len(ds.Teams))
	for _, t := range ds.Teams {
		teams[t.ID] = struct{}{}
	}
	services := make(map[types.ServiceID]struct{}, len(ds.Services))
	for _, s := range ds.Services {
		services[s.ID] = struct{}{}
	}

	report := &IntegrityReport{}
	add := func(kind, id, field, missing, resolved string) {
		report.Issues = append(report.Issues, IntegrityIssue{
			Kind: kind, ID: id, Field: field, Missing: missing, Resolved: resolved,
		})
	}

	for _, d := range ds.Divisions {
		if d.ParentDivisionID == "" {
			continue
		}
		if _, ok := divisions[d.ParentDivisionID]; !ok {
			add("division", d.ID.String(), "parent_division_id", d.ParentDivisionID.String(), model.UnknownDivision)
		}
	}
	for _, t := range ds.Teams {
		if _, ok := divisions[t.DivisionID]; !ok {
			add("team", t.ID.String(), "division_id", t.DivisionID.String(), model.UnknownDivision)
		}
	}
	for _, s := range ds.Services {
		if _, ok := divisions[s.DivisionID]; s.DivisionID != "" && !ok {
			add("service", s.ID.String(), "division_id", s.DivisionID.String(), model.UnknownDivision)
		}
		if _, ok := teams[s.TeamID]; s.TeamID != "" && !ok {
			add("service", s.ID.String(), "team_id", s.TeamID.String(), model.UnknownTeam)
		}
	}
	for _, a := range ds.Assessments {
		if _, ok := services[a.ServiceID]; !ok {
			add("risk_assessment", a.ID.String(), "service_id", a.ServiceID.String(), model.UnknownService)
		}
	}

	return report, nil
}
