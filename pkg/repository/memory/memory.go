package memory

import (
	"github.com/secmon-lab/riskatlas/pkg/domain/interfaces"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = interfaces.ErrNotFound

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	division   *divisionRepository
	team       *teamRepository
	service    *serviceRepository
	assessment *assessmentRepository
	tokens     *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		division:   newDivisionRepository(),
		team:       newTeamRepository(),
		service:    newServiceRepository(),
		assessment: newAssessmentRepository(),
		tokens:     newTokenStore(),
	}
}

func (m *Memory) Division() interfaces.DivisionRepository {
	return m.division
}

func (m *Memory) Team() interfaces.TeamRepository {
	return m.team
}

func (m *Memory) Service() interfaces.ServiceRepository {
	return m.service
}

func (m *Memory) RiskAssessment() interfaces.RiskAssessmentRepository {
	return m.assessment
}

func (m *Memory) Close() error {
	return nil
}
