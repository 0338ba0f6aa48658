package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

type divisionRepository struct {
	rows *table[types.DivisionID, model.Division]
}

func newDivisionRepository() *divisionRepository {
	return &divisionRepository{
		rows: newTable[types.DivisionID](
			func(d *model.Division) *model.Division { c := *d; return &c },
			func(d *model.Division) time.Time { return d.CreatedAt },
		),
	}
}

func (r *divisionRepository) Create(ctx context.Context, division *model.Division) (*model.Division, error) {
	created := *division
	if created.ID == "" {
		created.ID = types.NewDivisionID()
	}
	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	return r.rows.put(created.ID, &created), nil
}

func (r *divisionRepository) Get(ctx context.Context, id types.DivisionID) (*model.Division, error) {
	division, ok := r.rows.get(id)
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "division not found", goerr.V("id", id))
	}
	return division, nil
}

func (r *divisionRepository) List(ctx context.Context) ([]*model.Division, error) {
	return r.rows.list(nil), nil
}

func (r *divisionRepository) Update(ctx context.Context, division *model.Division) (*model.Division, error) {
	updated, ok := r.rows.update(division.ID, func(existing, next *model.Division) {
		*next = *division
		next.CreatedAt = existing.CreatedAt
		next.UpdatedAt = time.Now().UTC()
	})
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "division not found", goerr.V("id", division.ID))
	}
	return updated, nil
}

func (r *divisionRepository) Delete(ctx context.Context, id types.DivisionID) error {
	if !r.rows.remove(id) {
		return goerr.Wrap(ErrNotFound, "division not found", goerr.V("id", id))
	}
	return nil
}

type teamRepository struct {
	rows *table[types.TeamID, model.Team]
}

func newTeamRepository() *teamRepository {
	return &teamRepository{
		rows: newTable[types.TeamID](
			func(t *model.Team) *model.Team { c := *t; return &c },
			func(t *model.Team) time.Time { return t.CreatedAt },
		),
	}
}

func (r *teamRepository) Create(ctx context.Context, team *model.Team) (*model.Team, error) {
	created := *team
	if created.ID == "" {
		created.ID = types.NewTeamID()
	}
	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	return r.rows.put(created.ID, &created), nil
}

func (r *teamRepository) Get(ctx context.Context, id types.TeamID) (*model.Team, error) {
	team, ok := r.rows.get(id)
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "team not found", goerr.V("id", id))
	}
	return team, nil
}

func (r *teamRepository) List(ctx context.Context) ([]*model.Team, error) {
	return r.rows.list(nil), nil
}

func (r *teamRepository) Update(ctx context.Context, team *model.Team) (*model.Team, error) {
	updated, ok := r.rows.update(team.ID, func(existing, next *model.Team) {
		*next = *team
		next.CreatedAt = existing.CreatedAt
		next.UpdatedAt = time.Now().UTC()
	})
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "team not found", goerr.V("id", team.ID))
	}
	return updated, nil
}

func (r *teamRepository) Delete(ctx context.Context, id types.TeamID) error {
	if !r.rows.remove(id) {
		return goerr.Wrap(ErrNotFound, "team not found", goerr.V("id", id))
	}
	return nil
}

type serviceRepository struct {
	rows *table[types.ServiceID, model.Service]
}

func newServiceRepository() *serviceRepository {
	return &serviceRepository{
		rows: newTable[types.ServiceID](
			func(s *model.Service) *model.Service { c := *s; return &c },
			func(s *model.Service) time.Time { return s.CreatedAt },
		),
	}
}

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) (*model.Service, error) {
	created := *service
	if created.ID == "" {
		created.ID = types.NewServiceID()
	}
	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	return r.rows.put(created.ID, &created), nil
}

func (r *serviceRepository) Get(ctx context.Context, id types.ServiceID) (*model.Service, error) {
	service, ok := r.rows.get(id)
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "service not found", goerr.V("id", id))
	}
	return service, nil
}

func (r *serviceRepository) List(ctx context.Context) ([]*model.Service, error) {
	return r.rows.list(nil), nil
}

func (r *serviceRepository) Update(ctx context.Context, service *model.Service) (*model.Service, error) {
	updated, ok := r.rows.update(service.ID, func(existing, next *model.Service) {
		*next = *service
		next.CreatedAt = existing.CreatedAt
		next.CreatedBy = existing.CreatedBy
		next.UpdatedAt = time.Now().UTC()
	})
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "service not found", goerr.V("id", service.ID))
	}
	return updated, nil
}

func (r *serviceRepository) Delete(ctx context.Context, id types.ServiceID) error {
	if !r.rows.remove(id) {
		return goerr.Wrap(ErrNotFound, "service not found", goerr.V("id", id))
	}
	return nil
}
