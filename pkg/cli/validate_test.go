package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskatlas/pkg/cli"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/repository/sqlite"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestRun_ValidateCommand_ValidConfig(t *testing.T) {
	configPath := writeFile(t, "config.toml", `
data_classifications = ["Public", "Confidential"]

[[category]]
id = "error"
name = "Error"

[[category]]
id = "failure"
name = "Failure"

[[standard_risk]]
name = "Region outage"
category = "Failure"
`)

	err := cli.Run(context.Background(), []string{"riskatlas", "validate", "--config", configPath}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_InvalidConfig(t *testing.T) {
	configPath := writeFile(t, "config.toml", `
[[category]]
id = "error"
name = "Error"

[[category]]
id = "error"
name = "Duplicate"
`)

	err := cli.Run(context.Background(), []string{"riskatlas", "validate", "--config", configPath}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_MissingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nonexistent.toml")

	err := cli.Run(context.Background(), []string{"riskatlas", "validate", "--config", configPath}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_DBCheckWithMemory(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"riskatlas", "validate",
		"--check-db",
		"--repository-backend", "memory",
	}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_DBCheckFindsDanglingReference(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "riskatlas.db")

	repo, err := sqlite.New(ctx, dbPath)
	gt.NoError(t, err).Required()
	_, err = repo.Team().Create(ctx, &model.Team{ID: "team-orphan", Name: "Orphan", DivisionID: "div-missing"})
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.Close()).Required()

	err = cli.Run(ctx, []string{
		"riskatlas", "validate",
		"--check-db",
		"--repository-backend", "sqlite",
		"--sqlite-path", dbPath,
	}, "test")
	gt.Value(t, err).NotNil()
}
