package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// DivisionID represents a unique identifier for a division
type DivisionID string

// NewDivisionID generates a new random DivisionID
func NewDivisionID() DivisionID {
	return DivisionID(uuid.NewString())
}

// Validate checks if the DivisionID is valid
func (id DivisionID) Validate() error {
	if id == "" {
		return goerr.New("division ID cannot be empty")
	}
	return nil
}

func (id DivisionID) String() string {
	return string(id)
}

// TeamID represents a unique identifier for a team
type TeamID string

// NewTeamID generates a new random TeamID
func NewTeamID() TeamID {
	return TeamID(uuid.NewString())
}

// Validate checks if the TeamID is valid
func (id TeamID) Validate() error {
	if id == "" {
		return goerr.New("team ID cannot be empty")
	}
	return nil
}

func (id TeamID) String() string {
	return string(id)
}

// ServiceID represents a unique identifier for a service (product)
type ServiceID string

// NewServiceID generates a new random ServiceID
func NewServiceID() ServiceID {
	return ServiceID(uuid.NewString())
}

// Validate checks if the ServiceID is valid
func (id ServiceID) Validate() error {
	if id == "" {
		return goerr.New("service ID cannot be empty")
	}
	return nil
}

func (id ServiceID) String() string {
	return string(id)
}

// AssessmentID represents a unique identifier for a risk assessment
type AssessmentID string

// NewAssessmentID generates a new random AssessmentID
func NewAssessmentID() AssessmentID {
	return AssessmentID(uuid.NewString())
}

// Validate checks if the AssessmentID is valid
func (id AssessmentID) Validate() error {
	if id == "" {
		return goerr.New("assessment ID cannot be empty")
	}
	return nil
}

func (id AssessmentID) String() string {
	return string(id)
}
