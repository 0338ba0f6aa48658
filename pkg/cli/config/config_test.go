package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskatlas/pkg/cli/config"
	"github.com/secmon-lab/riskatlas/pkg/utils/logging"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

const validConfig = `
data_classifications = ["Public", "Internal", "Confidential"]
standard_categories = ["Error", "Failure", "Malicious"]

[report]
division = "B2B"
team = "Zeus"

[[category]]
id = "error"
name = "Error"
description = "Human error"

[[category]]
id = "vendor"
name = "Vendor lock-in"

[[standard_risk]]
name = "Cloud region outage"
category = "Failure"
description = "Primary region becomes unavailable"
loss_event_category = "Availability"
`

func TestLoadAppConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "valid configuration",
			content: validConfig,
		},
		{
			name:    "empty configuration",
			content: ``,
		},
		{
			name: "duplicate category ID",
			content: `
[[category]]
id = "error"
name = "Error"

[[category]]
id = "error"
name = "Another"
`,
			wantErr: config.ErrDuplicateID,
		},
		{
			name: "category without name",
			content: `
[[category]]
id = "error"
`,
			wantErr: config.ErrMissingName,
		},
		{
			name: "standard risk without category",
			content: `
[[standard_risk]]
name = "Outage"
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "duplicate data classification",
			content: `data_classifications = ["Public", "Public"]`,
			wantErr: config.ErrDuplicateID,
		},
		{
			name: "team without division",
			content: `
[report]
team = "Zeus"
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "malformed TOML",
			content: `[[category`,
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.LoadAppConfiguration(writeConfig(t, tt.content))
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, cfg).NotNil()
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadAppConfiguration(filepath.Join(t.TempDir(), "nonexistent.toml"))
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})
}

func TestToDomainRiskConfig(t *testing.T) {
	cfg, err := config.LoadAppConfiguration(writeConfig(t, validConfig))
	gt.NoError(t, err).Required()

	risk := cfg.ToDomainRiskConfig()
	gt.Array(t, risk.Categories).Length(2)
	gt.Value(t, risk.Categories[1].Name).Equal("Vendor lock-in")
	gt.Bool(t, risk.HasCategory("Error")).True()
	gt.Bool(t, risk.HasCategory("Unknown")).False()
	gt.Bool(t, risk.HasDataClassification("Internal")).True()
	gt.Value(t, risk.StandardCategories).Equal([]string{"Error", "Failure", "Malicious"})
	gt.Array(t, risk.StandardRisks).Length(1)
	gt.Value(t, risk.StandardRisks[0].LossEventCategory).Equal("Availability")
	gt.Value(t, risk.ReportScope.Division).Equal("B2B")
	gt.Value(t, risk.ReportScope.Team).Equal("Zeus")
}

func TestApp_Configure(t *testing.T) {
	t.Run("no file gives an empty configuration", func(t *testing.T) {
		risk, err := config.NewAppForTest("").Configure()
		gt.NoError(t, err).Required()
		gt.Array(t, risk.Categories).Length(0)
		gt.Bool(t, risk.HasCategory("anything")).True()
	})

	t.Run("file is loaded", func(t *testing.T) {
		risk, err := config.NewAppForTest(writeConfig(t, validConfig)).Configure()
		gt.NoError(t, err).Required()
		gt.Array(t, risk.Categories).Length(2)
	})
}

func TestRepository_Configure(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest(config.BackendMemory, "").Configure(ctx)
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "riskatlas.db")
		repo, err := config.NewRepositoryForTest(config.BackendSQLite, path).Configure(ctx)
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Close())

		_, err = os.Stat(path)
		gt.NoError(t, err)
	})

	t.Run("firestore without project", func(t *testing.T) {
		_, err := config.NewRepositoryForTest(config.BackendFirestore, "").Configure(ctx)
		gt.Error(t, err).Is(config.ErrMissingProject)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("postgres", "").Configure(ctx)
		gt.Error(t, err).Is(config.ErrInvalidBackend)
	})
}

func TestLogger_Configure(t *testing.T) {
	original := logging.Default()
	defer logging.SetDefault(original)

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		closer, err := config.NewLoggerForTest("debug", "json", path).Configure()
		gt.NoError(t, err).Required()

		logging.Default().Info("written to file", "service", "billing")
		closer()

		data, err := os.ReadFile(path)
		gt.NoError(t, err).Required()
		gt.String(t, string(data)).Contains("written to file")
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("verbose", "json", "stdout").Configure()
		gt.Error(t, err).Is(config.ErrInvalidLogLevel)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stdout").Configure()
		gt.Error(t, err)
	})
}

func TestAuth_Configure(t *testing.T) {
	t.Run("no-auth mode", func(t *testing.T) {
		cfg := config.NewAuthForTest("alice@example.com")
		gt.Bool(t, cfg.IsNoAuthMode()).True()

		authUC := cfg.Configure(nil)
		gt.Bool(t, authUC.IsNoAuthn()).True()

		token, err := authUC.ValidateToken(context.Background(), "", "")
		gt.NoError(t, err).Required()
		gt.Value(t, token.Email).Equal("alice@example.com")
		gt.Value(t, token.Name).Equal("alice")
	})

	t.Run("token mode", func(t *testing.T) {
		cfg := config.NewAuthForTest("")
		gt.Bool(t, cfg.IsNoAuthMode()).False()
		gt.Bool(t, cfg.Configure(nil).IsNoAuthn()).False()
	})
}

func TestSentry_Configure(t *testing.T) {
	closer, err := config.NewSentryForTest("").Configure("test")
	gt.NoError(t, err).Required()
	closer()

	_, err = config.NewSentryForTest("not a dsn").Configure("test")
	gt.Error(t, err)
}
