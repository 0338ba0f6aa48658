package usecase

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/interfaces"
	"github.com/secmon-lab/riskatlas/pkg/domain/metrics"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/model/config"
	"github.com/secmon-lab/riskatlas/pkg/domain/resolver"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

// Scope narrows a view to a division and team by resolved name. Empty
// fields match everything.
type Scope struct {
	Division string `json:"division"`
	Team     string `json:"team"`
}

func (s Scope) matches(detail model.ServiceDetail) bool {
	if s.Division != "" && detail.Division != s.Division {
		return false
	}
	if s.Team != "" && detail.Team != s.Team {
		return false
	}
	return true
}

// AssessmentQuery filters the assessment table
type AssessmentQuery struct {
	Search string
	Scope  Scope
}

// ServiceView is a service with its resolved names and assessments
type ServiceView struct {
	Service     *model.ServiceRecord
	Assessments []*model.RiskAssessment
	Summary     metrics.Summary
}

// Dashboard is the chart data of one scope
type Dashboard struct {
	Scope         Scope                  `json:"scope"`
	GeneratedAt   time.Time              `json:"generated_at"`
	Distributions []metrics.Distribution `json:"distributions"`
	Summary       metrics.Summary        `json:"summary"`
}

// DashboardKeys are the distributions rendered on the dashboard
var DashboardKeys = []metrics.Key{
	metrics.KeyRiskCategory,
	metrics.KeyRiskLevel,
	metrics.KeyDataClassification,
	metrics.KeyRevenueImpact,
	metrics.KeyPIDataAtRisk,
	metrics.KeyMitigativeControlsImplemented,
}

// ServiceScore is one line of the department report
type ServiceScore struct {
	ServiceID         types.ServiceID `json:"service_id"`
	Name              string          `json:"name"`
	Assessments       int             `json:"assessments"`
	WeightedRiskScore int             `json:"weighted_risk_score"`
	MissingMitigation int             `json:"missing_mitigation"`
}

// DepartmentReport is the CISO view of one division and team
type DepartmentReport struct {
	Scope            Scope     `json:"scope"`
	GeneratedAt      time.Time `json:"generated_at"`
	NumberOfProducts int       `json:"number_of_products"`
	// HasData is false when no assessment belongs to the scope; Summary is
	// then all zero.
	HasData  bool            `json:"has_data"`
	Summary  metrics.Summary `json:"summary"`
	Services []ServiceScore  `json:"services"`
}

// DivisionSummary is the summary of the assessments of one division
type DivisionSummary struct {
	Division string          `json:"division"`
	Summary  metrics.Summary `json:"summary"`
}

// Snapshot is an organization wide view used by exporters
type Snapshot struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Divisions   int                  `json:"divisions"`
	Teams       int                  `json:"teams"`
	Services    int                  `json:"services"`
	Overall     metrics.Summary      `json:"overall"`
	RiskLevels  metrics.Distribution `json:"risk_levels"`
	ByDivision  []DivisionSummary    `json:"by_division"`
}

type ReportUseCase struct {
	repo       interfaces.Repository
	riskConfig *config.RiskConfig
	now        func() time.Time
}

func NewReportUseCase(repo interfaces.Repository, cfg *config.RiskConfig, now func() time.Time) *ReportUseCase {
	if cfg == nil {
		cfg = &config.RiskConfig{}
	}
	if now == nil {
		now = time.Now
	}
	return &ReportUseCase{
		repo:       repo,
		riskConfig: cfg,
		now:        now,
	}
}

// StandardCategories returns the categories not counted as custom risks
func (uc *ReportUseCase) StandardCategories() []string {
	if len(uc.riskConfig.StandardCategories) > 0 {
		return uc.riskConfig.StandardCategories
	}
	return config.DefaultStandardCategories()
}

// LoadDataset fetches the four collections concurrently
func (uc *ReportUseCase) LoadDataset(ctx context.Context) (*model.Dataset, error) {
	var ds model.Dataset
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		divisions, err := uc.repo.Division().List(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to list divisions")
		}
		ds.Divisions = divisions
		return nil
	})
	eg.Go(func() error {
		teams, err := uc.repo.Team().List(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to list teams")
		}
		ds.Teams = teams
		return nil
	})
	eg.Go(func() error {
		services, err := uc.repo.Service().List(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to list services")
		}
		ds.Services = services
		return nil
	})
	eg.Go(func() error {
		assessments, err := uc.repo.RiskAssessment().List(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to list risk assessments")
		}
		ds.Assessments = assessments
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// newestFirst orders rows by creation time, newest first, keeping input
// order for equal timestamps
func newestFirst(rows []*model.AssessmentRow) {
	slices.SortStableFunc(rows, func(a, b *model.AssessmentRow) int {
		return b.Assessment.CreatedAt.Compare(a.Assessment.CreatedAt)
	})
}

func scopedRows(rows []*model.AssessmentRow, scope Scope) []*model.AssessmentRow {
	if scope == (Scope{}) {
		return rows
	}
	result := make([]*model.AssessmentRow, 0, len(rows))
	for _, row := range rows {
		if scope.matches(row.Detail) {
			result = append(result, row)
		}
	}
	return result
}

func recordsOf(rows []*model.AssessmentRow) []*model.RiskAssessment {
	records := make([]*model.RiskAssessment, len(rows))
	for i, row := range rows {
		records[i] = row.Assessment
	}
	return records
}

// ListAssessmentRows returns assessments joined with their service detail,
// filtered by scope and search term, newest first
func (uc *ReportUseCase) ListAssessmentRows(ctx context.Context, query AssessmentQuery) ([]*model.AssessmentRow, error) {
	ds, err := uc.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}

	rows := resolver.NewIndexFromDataset(ds).Rows(ds.Assessments)
	rows = scopedRows(rows, query.Scope)
	rows = resolver.FilterRows(rows, query.Search)
	newestFirst(rows)
	return rows, nil
}

// ServiceDetail returns a service with its resolved names and its
// assessments, newest first
func (uc *ReportUseCase) ServiceDetail(ctx context.Context, id types.ServiceID) (*ServiceView, error) {
	ds, err := uc.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}

	idx := resolver.NewIndexFromDataset(ds)
	record := idx.ServiceRecord(id)
	if record == nil {
		return nil, goerr.Wrap(ErrServiceNotFound, "service not found", goerr.V(ServiceIDKey, id))
	}

	var assessments []*model.RiskAssessment
	for _, a := range ds.Assessments {
		if a.ServiceID == id {
			assessments = append(assessments, a)
		}
	}
	slices.SortStableFunc(assessments, func(a, b *model.RiskAssessment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return &ServiceView{
		Service:     record,
		Assessments: assessments,
		Summary:     metrics.Summarize(assessments, uc.now(), uc.StandardCategories()),
	}, nil
}

// LookupService finds a service by case-insensitive name
func (uc *ReportUseCase) LookupService(ctx context.Context, name string) (*model.ServiceRecord, error) {
	ds, err := uc.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}

	record := resolver.NewIndexFromDataset(ds).FindServiceByName(name)
	if record == nil {
		return nil, goerr.Wrap(ErrServiceNotFound, "service not found", goerr.V("name", name))
	}
	return record, nil
}

// Dashboard computes the distributions and summary of the assessments in scope
func (uc *ReportUseCase) Dashboard(ctx context.Context, scope Scope) (*Dashboard, error) {
	ds, err := uc.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}

	records := recordsOf(scopedRows(resolver.NewIndexFromDataset(ds).Rows(ds.Assessments), scope))
	now := uc.now()

	dists := make([]metrics.Distribution, 0, len(DashboardKeys))
	for _, key := range DashboardKeys {
		dists = append(dists, metrics.DistributionBy(records, key))
	}

	return &Dashboard{
		Scope:         scope,
		GeneratedAt:   now,
		Distributions: dists,
		Summary:       metrics.Summarize(records, now, uc.StandardCategories()),
	}, nil
}

// DefaultScope returns the configured report scope
func (uc *ReportUseCase) DefaultScope() Scope {
	return Scope{
		Division: uc.riskConfig.ReportScope.Division,
		Team:     uc.riskConfig.ReportScope.Team,
	}
}

// DepartmentReport builds the CISO report for the services whose resolved
// division and team names match scope. An empty scope falls back to the
// configured default scope.
func (uc *ReportUseCase) DepartmentReport(ctx context.Context, scope Scope) (*DepartmentReport, error) {
	if scope == (Scope{}) {
		scope = uc.DefaultScope()
	}

	ds, err := uc.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}

	idx := resolver.NewIndexFromDataset(ds)
	services := idx.ServicesInScope(scope.Division, scope.Team)

	byService := make(map[types.ServiceID][]*model.RiskAssessment, len(services))
	for _, a := range ds.Assessments {
		byService[a.ServiceID] = append(byService[a.ServiceID], a)
	}

	var records []*model.RiskAssessment
	scores := make([]ServiceScore, 0, len(services))
	for _, svc := range services {
		assessments := byService[svc.ID]
		records = append(records, assessments...)
		scores = append(scores, ServiceScore{
			ServiceID:         svc.ID,
			Name:              svc.Name,
			Assessments:       len(assessments),
			WeightedRiskScore: metrics.WeightedRiskScore(assessments),
			MissingMitigation: metrics.CountMissingMitigation(assessments),
		})
	}
	slices.SortStableFunc(scores, func(a, b ServiceScore) int {
		return cmp.Compare(b.WeightedRiskScore, a.WeightedRiskScore)
	})

	now := uc.now()
	report := &DepartmentReport{
		Scope:            scope,
		GeneratedAt:      now,
		NumberOfProducts: len(services),
		HasData:          len(records) > 0,
		Services:         scores,
	}
	if report.HasData {
		report.Summary = metrics.Summarize(records, now, uc.StandardCategories())
	}
	return report, nil
}

// Snapshot summarizes the whole organization and every division
func (uc *ReportUseCase) Snapshot(ctx context.Context) (*Snapshot, error) {
	ds, err := uc.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	rows := resolver.NewIndexFromDataset(ds).Rows(ds.Assessments)

	var order []string
	grouped := make(map[string][]*model.RiskAssessment)
	for _, row := range rows {
		name := row.Detail.Division
		if _, ok := grouped[name]; !ok {
			order = append(order, name)
		}
		grouped[name] = append(grouped[name], row.Assessment)
	}

	byDivision := make([]DivisionSummary, 0, len(order))
	for _, name := range order {
		byDivision = append(byDivision, DivisionSummary{
			Division: name,
			Summary:  metrics.Summarize(grouped[name], now, uc.StandardCategories()),
		})
	}

	return &Snapshot{
		GeneratedAt: now,
		Divisions:   len(ds.Divisions),
		Teams:       len(ds.Teams),
		Services:    len(ds.Services),
		Overall:     metrics.Summarize(ds.Assessments, now, uc.StandardCategories()),
		RiskLevels:  metrics.DistributionBy(ds.Assessments, metrics.KeyRiskLevel),
		ByDivision:  byDivision,
	}, nil
}

// StandardRisks returns the configured standard risk catalog, or the
// built-in catalog when none is configured
func (uc *ReportUseCase) StandardRisks() []model.StandardRisk {
	if len(uc.riskConfig.StandardRisks) > 0 {
		return uc.riskConfig.StandardRisks
	}
	return config.DefaultStandardRisks()
}
