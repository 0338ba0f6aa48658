package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

type divisionRepository struct {
	db *sql.DB
}

const divisionColumns = `id, name, description, parent_division_id, created_at, updated_at`

func scanDivision(row rowScanner) (*model.Division, error) {
	var (
		d                    model.Division
		id, parent           string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&id, &d.Name, &d.Description, &parent, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	d.ID = types.DivisionID(id)
	d.ParentDivisionID = types.DivisionID(parent)
	d.CreatedAt = fromUnix(createdAt)
	d.UpdatedAt = fromUnix(updatedAt)
	return &d, nil
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

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO divisions (`+divisionColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		created.ID.String(), created.Name, created.Description, created.ParentDivisionID.String(),
		toUnix(created.CreatedAt), toUnix(created.UpdatedAt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create division", goerr.V("id", created.ID))
	}
	return r.Get(ctx, created.ID)
}

func (r *divisionRepository) Get(ctx context.Context, id types.DivisionID) (*model.Division, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+divisionColumns+` FROM divisions WHERE id = ?`, id.String())
	d, err := scanDivision(row)
	if err != nil {
		return nil, scanError(err, "division", id.String())
	}
	return d, nil
}

func (r *divisionRepository) List(ctx context.Context) ([]*model.Division, error) {
	return queryAll(ctx, r.db, "divisions", scanDivision,
		`SELECT `+divisionColumns+` FROM divisions ORDER BY created_at, id`)
}

func (r *divisionRepository) Update(ctx context.Context, division *model.Division) (*model.Division, error) {
	err := execAffecting(ctx, r.db, "division", division.ID.String(),
		`UPDATE divisions SET name = ?, description = ?, parent_division_id = ?, updated_at = ? WHERE id = ?`,
		division.Name, division.Description, division.ParentDivisionID.String(),
		toUnix(time.Now()), division.ID.String())
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, division.ID)
}

func (r *divisionRepository) Delete(ctx context.Context, id types.DivisionID) error {
	return execAffecting(ctx, r.db, "division", id.String(), `DELETE FROM divisions WHERE id = ?`, id.String())
}

type teamRepository struct {
	db *sql.DB
}

const teamColumns = `id, name, description, division_id, created_at, updated_at`

func scanTeam(row rowScanner) (*model.Team, error) {
	var (
		t                    model.Team
		id, division         string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&id, &t.Name, &t.Description, &division, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.ID = types.TeamID(id)
	t.DivisionID = types.DivisionID(division)
	t.CreatedAt = fromUnix(createdAt)
	t.UpdatedAt = fromUnix(updatedAt)
	return &t, nil
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

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (`+teamColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		created.ID.String(), created.Name, created.Description, created.DivisionID.String(),
		toUnix(created.CreatedAt), toUnix(created.UpdatedAt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create team", goerr.V("id", created.ID))
	}
	return r.Get(ctx, created.ID)
}

func (r *teamRepository) Get(ctx context.Context, id types.TeamID) (*model.Team, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id.String())
	t, err := scanTeam(row)
	if err != nil {
		return nil, scanError(err, "team", id.String())
	}
	return t, nil
}

func (r *teamRepository) List(ctx context.Context) ([]*model.Team, error) {
	return queryAll(ctx, r.db, "teams", scanTeam,
		`SELECT `+teamColumns+` FROM teams ORDER BY created_at, id`)
}

func (r *teamRepository) Update(ctx context.Context, team *model.Team) (*model.Team, error) {
	err := execAffecting(ctx, r.db, "team", team.ID.String(),
		`UPDATE teams SET name = ?, description = ?, division_id = ?, updated_at = ? WHERE id = ?`,
		team.Name, team.Description, team.DivisionID.String(), toUnix(time.Now()), team.ID.String())
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, team.ID)
}

func (r *teamRepository) Delete(ctx context.Context, id types.TeamID) error {
	return execAffecting(ctx, r.db, "team", id.String(), `DELETE FROM teams WHERE id = ?`, id.String())
}

type serviceRepository struct {
	db *sql.DB
}

const serviceColumns = `id, name, description, division_id, team_id, created_at, created_by, updated_at`

func scanService(row rowScanner) (*model.Service, error) {
	var (
		s                    model.Service
		id, division, team   string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&id, &s.Name, &s.Description, &division, &team, &createdAt, &s.CreatedBy, &updatedAt); err != nil {
		return nil, err
	}
	s.ID = types.ServiceID(id)
	s.DivisionID = types.DivisionID(division)
	s.TeamID = types.TeamID(team)
	s.CreatedAt = fromUnix(createdAt)
	s.UpdatedAt = fromUnix(updatedAt)
	return &s, nil
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

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO services (`+serviceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID.String(), created.Name, created.Description, created.DivisionID.String(),
		created.TeamID.String(), toUnix(created.CreatedAt), created.CreatedBy, toUnix(created.UpdatedAt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create service", goerr.V("id", created.ID))
	}
	return r.Get(ctx, created.ID)
}

func (r *serviceRepository) Get(ctx context.Context, id types.ServiceID) (*model.Service, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id.String())
	s, err := scanService(row)
	if err != nil {
		return nil, scanError(err, "service", id.String())
	}
	return s, nil
}

func (r *serviceRepository) List(ctx context.Context) ([]*model.Service, error) {
	return queryAll(ctx, r.db, "services", scanService,
		`SELECT `+serviceColumns+` FROM services ORDER BY created_at, id`)
}

func (r *serviceRepository) Update(ctx context.Context, service *model.Service) (*model.Service, error) {
	err := execAffecting(ctx, r.db, "service", service.ID.String(),
		`UPDATE services SET name = ?, description = ?, division_id = ?, team_id = ?, updated_at = ? WHERE id = ?`,
		service.Name, service.Description, service.DivisionID.String(), service.TeamID.String(),
		toUnix(time.Now()), service.ID.String())
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, service.ID)
}

func (r *serviceRepository) Delete(ctx context.Context, id types.ServiceID) error {
	return execAffecting(ctx, r.db, "service", id.String(), `DELETE FROM services WHERE id = ?`, id.String())
}
