package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskatlas/pkg/domain/interfaces"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

func TestDivisionRepository(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newRepo repoFactory) {
		t.Run("Create generates ID and timestamps", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.Division().Create(ctx, &model.Division{
				Name:        "Engineering",
				Description: "Product engineering",
			})
			gt.NoError(t, err).Required()
			gt.Value(t, created.ID).NotEqual(types.DivisionID(""))
			gt.Value(t, created.Name).Equal("Engineering")
			gt.Bool(t, created.CreatedAt.IsZero()).False()
			gt.Bool(t, created.UpdatedAt.IsZero()).False()

			got, err := repo.Division().Get(ctx, created.ID)
			gt.NoError(t, err).Required()
			gt.Value(t, got.Name).Equal("Engineering")
			gt.Value(t, got.Description).Equal("Product engineering")
			gt.Value(t, got.ParentDivisionID).Equal(types.DivisionID(""))
			gt.Bool(t, sameInstant(got.CreatedAt, created.CreatedAt)).True()
		})

		t.Run("Create keeps explicit ID", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			id := types.NewDivisionID()
			created, err := repo.Division().Create(ctx, &model.Division{ID: id, Name: "Finance"})
			gt.NoError(t, err).Required()
			gt.Value(t, created.ID).Equal(id)
		})

		t.Run("Get returns ErrNotFound", func(t *testing.T) {
			repo := newRepo(t)
			_, err := repo.Division().Get(context.Background(), types.NewDivisionID())
			gt.Error(t, err).Is(interfaces.ErrNotFound)
		})

		t.Run("Update keeps creation time", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			parent, err := repo.Division().Create(ctx, &model.Division{Name: "Corporate"})
			gt.NoError(t, err).Required()
			created, err := repo.Division().Create(ctx, &model.Division{Name: "Security"})
			gt.NoError(t, err).Required()

			updated, err := repo.Division().Update(ctx, &model.Division{
				ID:               created.ID,
				Name:             "Security & Trust",
				ParentDivisionID: parent.ID,
			})
			gt.NoError(t, err).Required()
			gt.Value(t, updated.Name).Equal("Security & Trust")
			gt.Value(t, updated.ParentDivisionID).Equal(parent.ID)
			gt.Bool(t, sameInstant(updated.CreatedAt, created.CreatedAt)).True()

			_, err = repo.Division().Update(ctx, &model.Division{ID: types.NewDivisionID(), Name: "ghost"})
			gt.Error(t, err).Is(interfaces.ErrNotFound)
		})

		t.Run("Delete removes division", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.Division().Create(ctx, &model.Division{Name: "Legal"})
			gt.NoError(t, err).Required()
			gt.NoError(t, repo.Division().Delete(ctx, created.ID)).Required()

			_, err = repo.Division().Get(ctx, created.ID)
			gt.Error(t, err).Is(interfaces.ErrNotFound)
			gt.Error(t, repo.Division().Delete(ctx, created.ID)).Is(interfaces.ErrNotFound)
		})

		t.Run("List is ordered by creation time", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			divisions, err := repo.Division().List(ctx)
			gt.NoError(t, err).Required()
			gt.Array(t, divisions).Length(0)

			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			for i, name := range []string{"B", "A", "C"} {
				_, err := repo.Division().Create(ctx, &model.Division{
					Name:      name,
					CreatedAt: base.Add(time.Duration(i) * time.Hour),
				})
				gt.NoError(t, err).Required()
			}

			divisions, err = repo.Division().List(ctx)
			gt.NoError(t, err).Required()
			gt.Array(t, divisions).Length(3)
			gt.Value(t, divisions[0].Name).Equal("B")
			gt.Value(t, divisions[1].Name).Equal("A")
			gt.Value(t, divisions[2].Name).Equal("C")
		})

		t.Run("returned records are copies", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.Division().Create(ctx, &model.Division{Name: "Original"})
			gt.NoError(t, err).Required()
			created.Name = "Mutated"

			got, err := repo.Division().Get(ctx, created.ID)
			gt.NoError(t, err).Required()
			gt.Value(t, got.Name).Equal("Original")
		})
	})
}

func TestTeamRepository(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newRepo repoFactory) {
		repo := newRepo(t)
		ctx := context.Background()

		division, err := repo.Division().Create(ctx, &model.Division{Name: "Engineering"})
		gt.NoError(t, err).Required()

		created, err := repo.Team().Create(ctx, &model.Team{
			Name:        "Payments",
			Description: "Checkout and billing",
			DivisionID:  division.ID,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.DivisionID).Equal(division.ID)

		got, err := repo.Team().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Payments")
		gt.Value(t, got.Description).Equal("Checkout and billing")

		updated, err := repo.Team().Update(ctx, &model.Team{
			ID:         created.ID,
			Name:       "Payments Platform",
			DivisionID: division.ID,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Name).Equal("Payments Platform")

		teams, err := repo.Team().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, teams).Length(1)

		gt.NoError(t, repo.Team().Delete(ctx, created.ID)).Required()
		_, err = repo.Team().Get(ctx, created.ID)
		gt.Error(t, err).Is(interfaces.ErrNotFound)
		gt.Bool(t, errors.Is(repo.Team().Delete(ctx, created.ID), interfaces.ErrNotFound)).True()
	})
}

func TestServiceRepository(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newRepo repoFactory) {
		t.Run("CRUD", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.Service().Create(ctx, &model.Service{
				Name:       "Checkout",
				DivisionID: types.DivisionID("div-1"),
				TeamID:     types.TeamID("team-1"),
				CreatedBy:  "alice@example.com",
			})
			gt.NoError(t, err).Required()

			got, err := repo.Service().Get(ctx, created.ID)
			gt.NoError(t, err).Required()
			gt.Value(t, got.Name).Equal("Checkout")
			gt.Value(t, got.DivisionID).Equal(types.DivisionID("div-1"))
			gt.Value(t, got.TeamID).Equal(types.TeamID("team-1"))
			gt.Value(t, got.CreatedBy).Equal("alice@example.com")

			updated, err := repo.Service().Update(ctx, &model.Service{
				ID:        created.ID,
				Name:      "Checkout API",
				CreatedBy: "mallory@example.com",
			})
			gt.NoError(t, err).Required()
			gt.Value(t, updated.Name).Equal("Checkout API")
			gt.Value(t, updated.DivisionID).Equal(types.DivisionID(""))
			gt.Value(t, updated.CreatedBy).Equal("alice@example.com")

			gt.NoError(t, repo.Service().Delete(ctx, created.ID)).Required()
			_, err = repo.Service().Get(ctx, created.ID)
			gt.Error(t, err).Is(interfaces.ErrNotFound)
		})

		t.Run("unassigned service round trips", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.Service().Create(ctx, &model.Service{Name: "Orphan"})
			gt.NoError(t, err).Required()

			services, err := repo.Service().List(ctx)
			gt.NoError(t, err).Required()
			gt.Array(t, services).Length(1)
			gt.Value(t, services[0].ID).Equal(created.ID)
			gt.Value(t, services[0].DivisionID).Equal(types.DivisionID(""))
			gt.Value(t, services[0].TeamID).Equal(types.TeamID(""))
		})
	})
}
