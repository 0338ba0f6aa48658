package interfaces

import (
	"context"

	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

type DivisionRepository interface {
	// Create stores a division. An empty ID is generated.
	Create(ctx context.Context, division *model.Division) (*model.Division, error)

	// Get retrieves a division by ID
	Get(ctx context.Context, id types.DivisionID) (*model.Division, error)

	// List retrieves all divisions ordered by creation time
	List(ctx context.Context) ([]*model.Division, error)

	// Update replaces the mutable fields of an existing division
	Update(ctx context.Context, division *model.Division) (*model.Division, error)

	// Delete deletes a division by ID
	Delete(ctx context.Context, id types.DivisionID) error
}

type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) (*model.Team, error)
	Get(ctx context.Context, id types.TeamID) (*model.Team, error)
	List(ctx context.Context) ([]*model.Team, error)
	Update(ctx context.Context, team *model.Team) (*model.Team, error)
	Delete(ctx context.Context, id types.TeamID) error
}

type ServiceRepository interface {
	Create(ctx context.Context, service *model.Service) (*model.Service, error)
	Get(ctx context.Context, id types.ServiceID) (*model.Service, error)
	List(ctx context.Context) ([]*model.Service, error)
	Update(ctx context.Context, service *model.Service) (*model.Service, error)
	Delete(ctx context.Context, id types.ServiceID) error
}
