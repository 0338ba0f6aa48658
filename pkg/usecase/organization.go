package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/interfaces"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

// DivisionInput holds the writable fields of a division
type DivisionInput struct {
	Name             string
	Description      string
	ParentDivisionID types.DivisionID
}

type DivisionUseCase struct {
	repo     interfaces.Repository
	onChange ChangeHook
}

func NewDivisionUseCase(repo interfaces.Repository, onChange ChangeHook) *DivisionUseCase {
	return &DivisionUseCase{repo: repo, onChange: onChange.orNoop()}
}

func (uc *DivisionUseCase) checkParent(ctx context.Context, id types.DivisionID) error {
	if id == "" {
		return nil
	}
	if _, err := uc.repo.Division().Get(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(model.ErrInvalidReference, "parent division does not exist",
				goerr.V(model.FieldNameKey, "parent_division_id"), goerr.V(DivisionIDKey, id))
		}
		return goerr.Wrap(err, "failed to get parent division", goerr.V(DivisionIDKey, id))
	}
	return nil
}

func (uc *DivisionUseCase) CreateDivision(ctx context.Context, input DivisionInput) (*model.Division, error) {
	division := &model.Division{
		ID:               types.NewDivisionID(),
		Name:             strings.TrimSpace(input.Name),
		Description:      input.Description,
		ParentDivisionID: input.ParentDivisionID,
	}
	if err := division.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkParent(ctx, division.ParentDivisionID); err != nil {
		return nil, err
	}

	created, err := uc.repo.Division().Create(ctx, division)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create division")
	}
	uc.onChange(ctx)
	return created, nil
}

func (uc *DivisionUseCase) GetDivision(ctx context.Context, id types.DivisionID) (*model.Division, error) {
	division, err := uc.repo.Division().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrDivisionNotFound, "division not found", goerr.V(DivisionIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get division", goerr.V(DivisionIDKey, id))
	}
	return division, nil
}

func (uc *DivisionUseCase) ListDivisions(ctx context.Context) ([]*model.Division, error) {
	divisions, err := uc.repo.Division().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list divisions")
	}
	return divisions, nil
}

func (uc *DivisionUseCase) UpdateDivision(ctx context.Context, id types.DivisionID, input DivisionInput) (*model.Division, error) {
	if _, err := uc.GetDivision(ctx, id); err != nil {
		return nil, err
	}

	division := &model.Division{
		ID:               id,
		Name:             strings.TrimSpace(input.Name),
		Description:      input.Description,
		ParentDivisionID: input.ParentDivisionID,
	}
	if err := division.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkParent(ctx, division.ParentDivisionID); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Division().Update(ctx, division)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update division", goerr.V(DivisionIDKey, id))
	}
	uc.onChange(ctx)
	return updated, nil
}

// DeleteDivision removes a division. Teams and services that still point to
// it are left in place and resolve to the unknown division.
func (uc *DivisionUseCase) DeleteDivision(ctx context.Context, id types.DivisionID) error {
	if err := uc.repo.Division().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrDivisionNotFound, "division not found", goerr.V(DivisionIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete division", goerr.V(DivisionIDKey, id))
	}
	uc.onChange(ctx)
	return nil
}

// TeamInput holds the writable fields of a team
type TeamInput struct {
	Name        string
	Description string
	DivisionID  types.DivisionID
}

type TeamUseCase struct {
	repo     interfaces.Repository
	onChange ChangeHook
}

func NewTeamUseCase(repo interfaces.Repository, onChange ChangeHook) *TeamUseCase {
	return &TeamUseCase{repo: repo, onChange: onChange.orNoop()}
}

func (uc *TeamUseCase) checkDivision(ctx context.Context, id types.DivisionID) error {
	if _, err := uc.repo.Division().Get(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(model.ErrInvalidReference, "division does not exist",
				goerr.V(model.FieldNameKey, "division_id"), goerr.V(DivisionIDKey, id))
		}
		return goerr.Wrap(err, "failed to get division", goerr.V(DivisionIDKey, id))
	}
	return nil
}

func (uc *TeamUseCase) CreateTeam(ctx context.Context, input TeamInput) (*model.Team, error) {
	team := &model.Team{
		ID:          types.NewTeamID(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		DivisionID:  input.DivisionID,
	}
	if err := team.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkDivision(ctx, team.DivisionID); err != nil {
		return nil, err
	}

	created, err := uc.repo.Team().Create(ctx, team)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create team")
	}
	uc.onChange(ctx)
	return created, nil
}

func (uc *TeamUseCase) GetTeam(ctx context.Context, id types.TeamID) (*model.Team, error) {
	team, err := uc.repo.Team().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrTeamNotFound, "team not found", goerr.V(TeamIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get team", goerr.V(TeamIDKey, id))
	}
	return team, nil
}

// ListTeams returns all teams, or only those of divisionID when it is set
func (uc *TeamUseCase) ListTeams(ctx context.Context, divisionID types.DivisionID) ([]*model.Team, error) {
	teams, err := uc.repo.Team().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list teams")
	}
	if divisionID == "" {
		return teams, nil
	}

	filtered := make([]*model.Team, 0, len(teams))
	for _, t := range teams {
		if t.DivisionID == divisionID {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (uc *TeamUseCase) UpdateTeam(ctx context.Context, id types.TeamID, input TeamInput) (*model.Team, error) {
	if _, err := uc.GetTeam(ctx, id); err != nil {
		return nil, err
	}

	team := &model.Team{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		DivisionID:  input.DivisionID,
	}
	if err := team.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkDivision(ctx, team.DivisionID); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Team().Update(ctx, team)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update team", goerr.V(TeamIDKey, id))
	}
	uc.onChange(ctx)
	return updated, nil
}

func (uc *TeamUseCase) DeleteTeam(ctx context.Context, id types.TeamID) error {
	if err := uc.repo.Team().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrTeamNotFound, "team not found", goerr.V(TeamIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete team", goerr.V(TeamIDKey, id))
	}
	uc.onChange(ctx)
	return nil
}

// ServiceInput holds the writable fields of a service
type ServiceInput struct {
	Name        string
	Description string
	DivisionID  types.DivisionID
	TeamID      types.TeamID
}

type ServiceUseCase struct {
	repo     interfaces.Repository
	onChange ChangeHook
}

func NewServiceUseCase(repo interfaces.Repository, onChange ChangeHook) *ServiceUseCase {
	return &ServiceUseCase{repo: repo, onChange: onChange.orNoop()}
}

// checkInput validates references and rejects a name already used by
// another service, compared ignoring case
func (uc *ServiceUseCase) checkInput(ctx context.Context, self types.ServiceID, svc *model.Service) error {
	if err := svc.Validate(); err != nil {
		return err
	}

	if svc.DivisionID != "" {
		if _, err := uc.repo.Division().Get(ctx, svc.DivisionID); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return goerr.Wrap(model.ErrInvalidReference, "division does not exist",
					goerr.V(model.FieldNameKey, "division_id"), goerr.V(DivisionIDKey, svc.DivisionID))
			}
			return goerr.Wrap(err, "failed to get division", goerr.V(DivisionIDKey, svc.DivisionID))
		}
	}
	if svc.TeamID != "" {
		if _, err := uc.repo.Team().Get(ctx, svc.TeamID); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return goerr.Wrap(model.ErrInvalidReference, "team does not exist",
					goerr.V(model.FieldNameKey, "team_id"), goerr.V(TeamIDKey, svc.TeamID))
			}
			return goerr.Wrap(err, "failed to get team", goerr.V(TeamIDKey, svc.TeamID))
		}
	}

	services, err := uc.repo.Service().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list services")
	}
	for _, existing := range services {
		if existing.ID != self && strings.EqualFold(existing.Name, svc.Name) {
			return goerr.Wrap(ErrDuplicateServiceName, "service name already exists",
				goerr.V("name", svc.Name), goerr.V(ServiceIDKey, existing.ID))
		}
	}
	return nil
}

func (uc *ServiceUseCase) CreateService(ctx context.Context, input ServiceInput) (*model.Service, error) {
	service := &model.Service{
		ID:          types.NewServiceID(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		DivisionID:  input.DivisionID,
		TeamID:      input.TeamID,
		CreatedBy:   actor(ctx),
	}
	if err := uc.checkInput(ctx, service.ID, service); err != nil {
		return nil, err
	}

	created, err := uc.repo.Service().Create(ctx, service)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create service")
	}
	uc.onChange(ctx)
	return created, nil
}

func (uc *ServiceUseCase) GetService(ctx context.Context, id types.ServiceID) (*model.Service, error) {
	service, err := uc.repo.Service().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrServiceNotFound, "service not found", goerr.V(ServiceIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get service", goerr.V(ServiceIDKey, id))
	}
	return service, nil
}

func (uc *ServiceUseCase) ListServices(ctx context.Context) ([]*model.Service, error) {
	services, err := uc.repo.Service().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list services")
	}
	return services, nil
}

func (uc *ServiceUseCase) UpdateService(ctx context.Context, id types.ServiceID, input ServiceInput) (*model.Service, error) {
	existing, err := uc.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	service := &model.Service{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		DivisionID:  input.DivisionID,
		TeamID:      input.TeamID,
		CreatedBy:   existing.CreatedBy,
	}
	if err := uc.checkInput(ctx, id, service); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Service().Update(ctx, service)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update service", goerr.V(ServiceIDKey, id))
	}
	uc.onChange(ctx)
	return updated, nil
}

// DeleteService removes a service. Its assessments are kept and resolve to
// the unknown service.
func (uc *ServiceUseCase) DeleteService(ctx context.Context, id types.ServiceID) error {
	if err := uc.repo.Service().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrServiceNotFound, "service not found", goerr.V(ServiceIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete service", goerr.V(ServiceIDKey, id))
	}
	uc.onChange(ctx)
	return nil
}
