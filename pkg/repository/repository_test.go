package repository_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/secmon-lab/riskatlas/pkg/domain/interfaces"
	"github.com/secmon-lab/riskatlas/pkg/repository/firestore"
	"github.com/secmon-lab/riskatlas/pkg/repository/memory"
	"github.com/secmon-lab/riskatlas/pkg/repository/sqlite"
)

type repoFactory func(t *testing.T) interfaces.Repository

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newSQLiteRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	repo, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "riskatlas.db"))
	if err != nil {
		t.Fatalf("failed to create sqlite repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

var backends = map[string]repoFactory{
	"memory":    newMemoryRepository,
	"sqlite":    newSQLiteRepository,
	"firestore": newFirestoreRepository,
}

func forEachBackend(t *testing.T, fn func(t *testing.T, newRepo repoFactory)) {
	for name, factory := range backends {
		t.Run(name, func(t *testing.T) {
			fn(t, factory)
		})
	}
}

// sameInstant compares timestamps with tolerance for backend precision
func sameInstant(a, b time.Time) bool {
	d := a.Sub(b)
	return d < time.Millisecond && d > -time.Millisecond
}
