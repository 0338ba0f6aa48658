package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

type divisionDocument struct {
	ID               string    `firestore:"id"`
	Name             string    `firestore:"name"`
	Description      string    `firestore:"description"`
	ParentDivisionID string    `firestore:"parent_division_id"`
	CreatedAt        time.Time `firestore:"created_at"`
	UpdatedAt        time.Time `firestore:"updated_at"`
}

func (d *divisionDocument) toModel() *model.Division {
	return &model.Division{
		ID:               types.DivisionID(d.ID),
		Name:             d.Name,
		Description:      d.Description,
		ParentDivisionID: types.DivisionID(d.ParentDivisionID),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func toDivisionDocument(d *model.Division) *divisionDocument {
	return &divisionDocument{
		ID:               d.ID.String(),
		Name:             d.Name,
		Description:      d.Description,
		ParentDivisionID: d.ParentDivisionID.String(),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type divisionRepository struct {
	client     *firestore.Client
	collection string
}

func (r *divisionRepository) Create(ctx context.Context, division *model.Division) (*model.Division, error) {
	doc := toDivisionDocument(division)
	if doc.ID == "" {
		doc.ID = types.NewDivisionID().String()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if _, err := r.client.Collection(r.collection).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create division", goerr.V("id", doc.ID))
	}
	return doc.toModel(), nil
}

func (r *divisionRepository) Get(ctx context.Context, id types.DivisionID) (*model.Division, error) {
	var doc divisionDocument
	if err := getDoc(ctx, r.client.Collection(r.collection).Doc(id.String()), &doc, "division"); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *divisionRepository) List(ctx context.Context) ([]*model.Division, error) {
	docs, err := collect[divisionDocument](r.client.Collection(r.collection).
		OrderBy("created_at", firestore.Asc).Documents(ctx), "divisions")
	if err != nil {
		return nil, err
	}

	divisions := make([]*model.Division, 0, len(docs))
	for _, doc := range docs {
		divisions = append(divisions, doc.toModel())
	}
	return divisions, nil
}

func (r *divisionRepository) Update(ctx context.Context, division *model.Division) (*model.Division, error) {
	ref := r.client.Collection(r.collection).Doc(division.ID.String())

	var existing divisionDocument
	if err := getDoc(ctx, ref, &existing, "division"); err != nil {
		return nil, err
	}

	doc := toDivisionDocument(division)
	doc.CreatedAt = existing.CreatedAt
	doc.UpdatedAt = time.Now().UTC()

	if _, err := ref.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update division", goerr.V("id", division.ID))
	}
	return doc.toModel(), nil
}

func (r *divisionRepository) Delete(ctx context.Context, id types.DivisionID) error {
	return deleteDoc(ctx, r.client.Collection(r.collection).Doc(id.String()), "division")
}

type teamDocument struct {
	ID          string    `firestore:"id"`
	Name        string    `firestore:"name"`
	Description string    `firestore:"description"`
	DivisionID  string    `firestore:"division_id"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func (d *teamDocument) toModel() *model.Team {
	return &model.Team{
		ID:          types.TeamID(d.ID),
		Name:        d.Name,
		Description: d.Description,
		DivisionID:  types.DivisionID(d.DivisionID),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toTeamDocument(t *model.Team) *teamDocument {
	return &teamDocument{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		DivisionID:  t.DivisionID.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type teamRepository struct {
	client     *firestore.Client
	collection string
}

func (r *teamRepository) Create(ctx context.Context, team *model.Team) (*model.Team, error) {
	doc := toTeamDocument(team)
	if doc.ID == "" {
		doc.ID = types.NewTeamID().String()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if _, err := r.client.Collection(r.collection).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create team", goerr.V("id", doc.ID))
	}
	return doc.toModel(), nil
}

func (r *teamRepository) Get(ctx context.Context, id types.TeamID) (*model.Team, error) {
	var doc teamDocument
	if err := getDoc(ctx, r.client.Collection(r.collection).Doc(id.String()), &doc, "team"); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *teamRepository) List(ctx context.Context) ([]*model.Team, error) {
	docs, err := collect[teamDocument](r.client.Collection(r.collection).
		OrderBy("created_at", firestore.Asc).Documents(ctx), "teams")
	if err != nil {
		return nil, err
	}

	teams := make([]*model.Team, 0, len(docs))
	for _, doc := range docs {
		teams = append(teams, doc.toModel())
	}
	return teams, nil
}

func (r *teamRepository) Update(ctx context.Context, team *model.Team) (*model.Team, error) {
	ref := r.client.Collection(r.collection).Doc(team.ID.String())

	var existing teamDocument
	if err := getDoc(ctx, ref, &existing, "team"); err != nil {
		return nil, err
	}

	doc := toTeamDocument(team)
	doc.CreatedAt = existing.CreatedAt
	doc.UpdatedAt = time.Now().UTC()

	if _, err := ref.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update team", goerr.V("id", team.ID))
	}
	return doc.toModel(), nil
}

func (r *teamRepository) Delete(ctx context.Context, id types.TeamID) error {
	return deleteDoc(ctx, r.client.Collection(r.collection).Doc(id.String()), "team")
}

type serviceDocument struct {
	ID          string    `firestore:"id"`
	Name        string    `firestore:"name"`
	Description string    `firestore:"description"`
	DivisionID  string    `firestore:"division_id"`
	TeamID      string    `firestore:"team_id"`
	CreatedAt   time.Time `firestore:"created_at"`
	CreatedBy   string    `firestore:"created_by"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func (d *serviceDocument) toModel() *model.Service {
	return &model.Service{
		ID:          types.ServiceID(d.ID),
		Name:        d.Name,
		Description: d.Description,
		DivisionID:  types.DivisionID(d.DivisionID),
		TeamID:      types.TeamID(d.TeamID),
		CreatedAt:   d.CreatedAt,
		CreatedBy:   d.CreatedBy,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toServiceDocument(s *model.Service) *serviceDocument {
	return &serviceDocument{
		ID:          s.ID.String(),
		Name:        s.Name,
		Description: s.Description,
		DivisionID:  s.DivisionID.String(),
		TeamID:      s.TeamID.String(),
		CreatedAt:   s.CreatedAt,
		CreatedBy:   s.CreatedBy,
		UpdatedAt:   s.UpdatedAt,
	}
}

type serviceRepository struct {
	client     *firestore.Client
	collection string
}

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) (*model.Service, error) {
	doc := toServiceDocument(service)
	if doc.ID == "" {
		doc.ID = types.NewServiceID().String()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if _, err := r.client.Collection(r.collection).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create service", goerr.V("id", doc.ID))
	}
	return doc.toModel(), nil
}

func (r *serviceRepository) Get(ctx context.Context, id types.ServiceID) (*model.Service, error) {
	var doc serviceDocument
	if err := getDoc(ctx, r.client.Collection(r.collection).Doc(id.String()), &doc, "service"); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *serviceRepository) List(ctx context.Context) ([]*model.Service, error) {
	docs, err := collect[serviceDocument](r.client.Collection(r.collection).
		OrderBy("created_at", firestore.Asc).Documents(ctx), "services")
	if err != nil {
		return nil, err
	}

	services := make([]*model.Service, 0, len(docs))
	for _, doc := range docs {
		services = append(services, doc.toModel())
	}
	return services, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *model.Service) (*model.Service, error) {
	ref := r.client.Collection(r.collection).Doc(service.ID.String())

	var existing serviceDocument
	if err := getDoc(ctx, ref, &existing, "service"); err != nil {
		return nil, err
	}

	doc := toServiceDocument(service)
	doc.CreatedAt = existing.CreatedAt
	doc.CreatedBy = existing.CreatedBy
	doc.UpdatedAt = time.Now().UTC()

	if _, err := ref.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update service", goerr.V("id", service.ID))
	}
	return doc.toModel(), nil
}

func (r *serviceRepository) Delete(ctx context.Context, id types.ServiceID) error {
	return deleteDoc(ctx, r.client.Collection(r.collection).Doc(id.String()), "service")
}
