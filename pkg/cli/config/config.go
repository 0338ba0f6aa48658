package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/riskatlas/pkg/domain/model/config"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the application configuration file
type AppConfig struct {
	Categories          []Category     `toml:"category"`
	DataClassifications []string       `toml:"data_classifications"`
	StandardCategories  []string       `toml:"standard_categories"`
	StandardRisks       []StandardRisk `toml:"standard_risk"`
	Report              ReportScope    `toml:"report"`
}

// Category represents a risk category configuration
type Category struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// Validate checks if the Category is valid
func (c *Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return goerr.Wrap(ErrInvalidConfig, "category ID is required", goerr.V(CategoryIDKey, c.ID))
	}
	if strings.TrimSpace(c.Name) == "" {
		return goerr.Wrap(ErrMissingName, "category name is required", goerr.V(CategoryIDKey, c.ID))
	}
	return nil
}

// StandardRisk is an entry of the standard risk catalog
type StandardRisk struct {
	Name              string `toml:"name"`
	Category          string `toml:"category"`
	Description       string `toml:"description"`
	LossEventCategory string `toml:"loss_event_category"`
}

// Validate checks if the StandardRisk is valid
func (s *StandardRisk) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return goerr.Wrap(ErrMissingName, "standard risk name is required")
	}
	if strings.TrimSpace(s.Category) == "" {
		return goerr.Wrap(ErrInvalidConfig, "standard risk category is required", goerr.V("name", s.Name))
	}
	return nil
}

// ReportScope is the department shown when a report request names none
type ReportScope struct {
	Division string `toml:"division"`
	Team     string `toml:"team"`
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	categoryIDs := make(map[string]bool)
	categoryNames := make(map[string]bool)
	for i, cat := range a.Categories {
		if err := cat.Validate(); err != nil {
			return goerr.Wrap(err, "invalid category", goerr.V(IndexKey, i))
		}
		if categoryIDs[cat.ID] {
			return goerr.Wrap(ErrDuplicateID, "duplicate category ID", goerr.V(CategoryIDKey, cat.ID))
		}
		if categoryNames[cat.Name] {
			return goerr.Wrap(ErrDuplicateID, "duplicate category name", goerr.V("name", cat.Name))
		}
		categoryIDs[cat.ID] = true
		categoryNames[cat.Name] = true
	}

	classifications := make(map[string]bool)
	for _, dc := range a.DataClassifications {
		if strings.TrimSpace(dc) == "" {
			return goerr.Wrap(ErrInvalidConfig, "data classification cannot be empty")
		}
		if classifications[dc] {
			return goerr.Wrap(ErrDuplicateID, "duplicate data classification", goerr.V("name", dc))
		}
		classifications[dc] = true
	}

	for i, risk := range a.StandardRisks {
		if err := risk.Validate(); err != nil {
			return goerr.Wrap(err, "invalid standard risk", goerr.V(IndexKey, i))
		}
	}

	if a.Report.Team != "" && a.Report.Division == "" {
		return goerr.Wrap(ErrInvalidConfig, "report team requires a report division", goerr.V("team", a.Report.Team))
	}

	return nil
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, err.Error(), goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config: "+err.Error(), goerr.V(ConfigPathKey, path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// ToDomainRiskConfig converts AppConfig to domain RiskConfig
func (a *AppConfig) ToDomainRiskConfig() *domainConfig.RiskConfig {
	categories := make([]domainConfig.Category, len(a.Categories))
	for i, cat := range a.Categories {
		categories[i] = domainConfig.Category{
			ID:          cat.ID,
			Name:        cat.Name,
			Description: cat.Description,
		}
	}

	risks := make([]model.StandardRisk, len(a.StandardRisks))
	for i, risk := range a.StandardRisks {
		risks[i] = model.StandardRisk{
			Name:              risk.Name,
			Category:          risk.Category,
			Description:       risk.Description,
			LossEventCategory: risk.LossEventCategory,
		}
	}

	return &domainConfig.RiskConfig{
		Categories:          categories,
		DataClassifications: append([]string{}, a.DataClassifications...),
		StandardCategories:  append([]string{}, a.StandardCategories...),
		StandardRisks:       risks,
		ReportScope: domainConfig.ReportScope{
			Division: a.Report.Division,
			Team:     a.Report.Team,
		},
	}
}

// App holds the CLI flag selecting the application configuration file
type App struct {
	path string
}

// Flags returns CLI flags for the application configuration
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML configuration file (built-in defaults when omitted)",
			Sources:     cli.EnvVars("RISKATLAS_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Path returns the configured file path
func (a *App) Path() string {
	return a.path
}

// Configure loads the configuration file, or returns an empty configuration
// when no file is given. Empty lists fall back to built-in defaults in the
// use cases.
func (a *App) Configure() (*domainConfig.RiskConfig, error) {
	if a.path == "" {
		return &domainConfig.RiskConfig{}, nil
	}

	cfg, err := LoadAppConfiguration(a.path)
	if err != nil {
		return nil, err
	}
	return cfg.ToDomainRiskConfig(), nil
}
