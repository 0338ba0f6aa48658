// Package resolver joins flat division, team, service and risk assessment
// collections into denormalized display records.
//
// Dangling references are never errors: a missing service, division or team
// resolves to the corresponding Unknown sentinel name. A reference that was
// never assigned and one that points to a deleted row resolve the same way.
package resolver

import (
	"strings"

	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

// Index is an id-indexed view over one version of the service, division and
// team collections. It is read-only after construction and safe for
// concurrent use.
type Index struct {
	services  []*model.Service
	byService map[types.ServiceID]*model.Service
	divisions map[types.DivisionID]*model.Division
	teams     map[types.TeamID]*model.Team
}

// NewIndex builds an Index. When several rows share an ID the first one wins,
// matching a linear scan over the input.
func NewIndex(services []*model.Service, divisions []*model.Division, teams []*model.Team) *Index {
	idx := &Index{
		services:  services,
		byService: make(map[types.ServiceID]*model.Service, len(services)),
		divisions: make(map[types.DivisionID]*model.Division, len(divisions)),
		teams:     make(map[types.TeamID]*model.Team, len(teams)),
	}
	for _, s := range services {
		if s == nil {
			continue
		}
		if _, ok := idx.byService[s.ID]; !ok {
			idx.byService[s.ID] = s
		}
	}
	for _, d := range divisions {
		if d == nil {
			continue
		}
		if _, ok := idx.divisions[d.ID]; !ok {
			idx.divisions[d.ID] = d
		}
	}
	for _, t := range teams {
		if t == nil {
			continue
		}
		if _, ok := idx.teams[t.ID]; !ok {
			idx.teams[t.ID] = t
		}
	}
	return idx
}

// NewIndexFromDataset builds an Index from a fetched dataset
func NewIndexFromDataset(ds *model.Dataset) *Index {
	return NewIndex(ds.Services, ds.Divisions, ds.Teams)
}

// Service returns the service with id, or nil
func (x *Index) Service(id types.ServiceID) *model.Service {
	return x.byService[id]
}

func (x *Index) divisionName(id types.DivisionID) string {
	if d, ok := x.divisions[id]; ok {
		return d.Name
	}
	return model.UnknownDivision
}

func (x *Index) teamName(id types.TeamID) string {
	if t, ok := x.teams[id]; ok {
		return t.Name
	}
	return model.UnknownTeam
}

// ServiceDetails resolves serviceID to its display names. Division and team
// resolve independently of each other.
func (x *Index) ServiceDetails(serviceID types.ServiceID) model.ServiceDetail {
	svc, ok := x.byService[serviceID]
	if !ok {
		return model.UnknownServiceDetail()
	}
	return model.ServiceDetail{
		Name:     svc.Name,
		Division: x.divisionName(svc.DivisionID),
		Team:     x.teamName(svc.TeamID),
	}
}

// FindServiceByName returns the first service, in input order, whose name
// equals name ignoring case. It returns nil when nothing matches.
func (x *Index) FindServiceByName(name string) *model.ServiceRecord {
	for _, svc := range x.services {
		if svc != nil && strings.EqualFold(svc.Name, name) {
			return x.record(svc)
		}
	}
	return nil
}

// ServiceRecord returns the service with id joined with its division and
// team names, or nil when the service does not exist
func (x *Index) ServiceRecord(id types.ServiceID) *model.ServiceRecord {
	svc, ok := x.byService[id]
	if !ok {
		return nil
	}
	return x.record(svc)
}

func (x *Index) record(svc *model.Service) *model.ServiceRecord {
	return &model.ServiceRecord{
		ID:          svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		Division:    x.divisionName(svc.DivisionID),
		DivisionID:  svc.DivisionID,
		Team:        x.teamName(svc.TeamID),
		TeamID:      svc.TeamID,
		CreatedAt:   svc.CreatedAt,
		CreatedBy:   svc.CreatedBy,
	}
}

// ServicesInScope returns the services whose resolved division and team names
// equal division and team. An empty division or team matches any name.
func (x *Index) ServicesInScope(division, team string) []*model.Service {
	var result []*model.Service
	for _, svc := range x.services {
		if svc == nil {
			continue
		}
		if division != "" && x.divisionName(svc.DivisionID) != division {
			continue
		}
		if team != "" && x.teamName(svc.TeamID) != team {
			continue
		}
		result = append(result, svc)
	}
	return result
}

// Rows joins each assessment with its service detail, preserving input order
func (x *Index) Rows(assessments []*model.RiskAssessment) []*model.AssessmentRow {
	rows := make([]*model.AssessmentRow, 0, len(assessments))
	for _, a := range assessments {
		if a == nil {
			continue
		}
		rows = append(rows, &model.AssessmentRow{
			Assessment: a,
			Detail:     x.ServiceDetails(a.ServiceID),
		})
	}
	return rows
}

// ResolveServiceDetails resolves serviceID against the given collections
func ResolveServiceDetails(serviceID types.ServiceID, services []*model.Service, divisions []*model.Division, teams []*model.Team) model.ServiceDetail {
	return NewIndex(services, divisions, teams).ServiceDetails(serviceID)
}

// FindServiceByName looks up a service by case-insensitive name. See Index.FindServiceByName.
func FindServiceByName(name string, services []*model.Service, divisions []*model.Division, teams []*model.Team) *model.ServiceRecord {
	return NewIndex(services, divisions, teams).FindServiceByName(name)
}
