package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

// Division is the root organizational unit
type Division struct {
	ID               types.DivisionID
	Name             string
	Description      string
	ParentDivisionID types.DivisionID // empty when the division has no parent
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks the fields required to persist a division
func (d *Division) Validate() error {
	if d.Name == "" {
		return goerr.Wrap(ErrMissingRequired, "division name is required", goerr.V(FieldNameKey, "name"))
	}
	if d.ParentDivisionID != "" && d.ParentDivisionID == d.ID {
		return goerr.Wrap(ErrInvalidReference, "division cannot be its own parent", goerr.V("id", d.ID))
	}
	return nil
}

// Team belongs to exactly one division
type Team struct {
	ID          types.TeamID
	Name        string
	Description string
	DivisionID  types.DivisionID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the fields required to persist a team
func (t *Team) Validate() error {
	if t.Name == "" {
		return goerr.Wrap(ErrMissingRequired, "team name is required", goerr.V(FieldNameKey, "name"))
	}
	if err := t.DivisionID.Validate(); err != nil {
		return goerr.Wrap(ErrMissingRequired, "team division is required", goerr.V(FieldNameKey, "division_id"))
	}
	return nil
}

// Service is a product that risk assessments are attached to.
// Division and team are optional; a service may exist unassigned.
type Service struct {
	ID          types.ServiceID
	Name        string
	Description string
	DivisionID  types.DivisionID
	TeamID      types.TeamID
	CreatedAt   time.Time
	CreatedBy   string
	UpdatedAt   time.Time
}

// Validate checks the fields required to persist a service
func (s *Service) Validate() error {
	if s.Name == "" {
		return goerr.Wrap(ErrMissingRequired, "service name is required", goerr.V(FieldNameKey, "name"))
	}
	return nil
}
