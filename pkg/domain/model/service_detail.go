package model

import (
	"time"

	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

// Fallback names used when a reference cannot be resolved
const (
	UnknownService  = "Unknown Service"
	UnknownDivision = "Unknown Division"
	UnknownTeam     = "Unknown Team"
)

// ServiceDetail is the denormalized display form of a service
type ServiceDetail struct {
	Name     string
	Division string
	Team     string
}

// UnknownServiceDetail returns the detail used for a service that does not exist
func UnknownServiceDetail() ServiceDetail {
	return ServiceDetail{
		Name:     UnknownService,
		Division: UnknownDivision,
		Team:     UnknownTeam,
	}
}

// ServiceRecord is a service together with its resolved division and team names
type ServiceRecord struct {
	ID          types.ServiceID
	Name        string
	Description string
	Division    string
	DivisionID  types.DivisionID
	Team        string
	TeamID      types.TeamID
	CreatedAt   time.Time
	CreatedBy   string
}

// AssessmentRow is a risk assessment joined with its service detail
type AssessmentRow struct {
	Assessment *RiskAssessment
	Detail     ServiceDetail
}

// Dataset holds the four collections fetched from the repository at one point in time
type Dataset struct {
	Divisions   []*Division
	Teams       []*Team
	Services    []*Service
	Assessments []*RiskAssessment
}
