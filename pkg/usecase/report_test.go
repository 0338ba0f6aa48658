package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskatlas/pkg/domain/metrics"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/model/config"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
	"github.com/secmon-lab/riskatlas/pkg/repository/memory"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
)

var reportNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

// seedReport stores two divisions, three services and four assessments
func seedReport(t *testing.T) *memory.Memory {
	t.Helper()
	repo := memory.New()
	ctx := context.Background()

	must := func(err error) {
		t.Helper()
		gt.NoError(t, err).Required()
	}

	_, err := repo.Division().Create(ctx, &model.Division{ID: "div-b2b", Name: "B2B"})
	must(err)
	_, err = repo.Division().Create(ctx, &model.Division{ID: "div-b2c", Name: "B2C"})
	must(err)
	_, err = repo.Team().Create(ctx, &model.Team{ID: "team-zeus", Name: "Zeus", DivisionID: "div-b2b"})
	must(err)
	_, err = repo.Team().Create(ctx, &model.Team{ID: "team-hera", Name: "Hera", DivisionID: "div-b2c"})
	must(err)

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err = repo.Service().Create(ctx, &model.Service{ID: "svc-billing", Name: "Billing", DivisionID: "div-b2b", TeamID: "team-zeus", CreatedAt: base})
	must(err)
	_, err = repo.Service().Create(ctx, &model.Service{ID: "svc-invoice", Name: "Invoice", DivisionID: "div-b2b", TeamID: "team-zeus", CreatedAt: base.Add(time.Hour)})
	must(err)
	_, err = repo.Service().Create(ctx, &model.Service{ID: "svc-shop", Name: "Shop", DivisionID: "div-b2c", TeamID: "team-hera", CreatedAt: base.Add(2 * time.Hour)})
	must(err)

	hours := func(v float64) *float64 { return &v }
	assessments := []*model.RiskAssessment{
		{
			ID: "a-1", ServiceID: "svc-billing", RiskCategory: "Error", RiskDescription: "Bad deploy",
			RiskLevel: types.RiskLevelCritical, Mitigation: "Canary", HoursToRemediate: hours(10),
			HasGlobalRevenueImpact: true, PIDataAtRisk: types.PIDataAtRiskYes, PIDataAmount: types.PIDataAmountMoreThan99M,
			CreatedAt: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "a-2", ServiceID: "svc-billing", RiskCategory: "Vendor lock-in", RiskDescription: "Single payment provider",
			RiskLevel: types.RiskLevelLow, HoursToRemediate: hours(30), HasLocalRevenueImpact: true,
			PIDataAtRisk: types.PIDataAtRiskNo,
			CreatedAt:    time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "a-3", ServiceID: "svc-shop", RiskCategory: "Malicious", RiskDescription: "Card testing bots",
			RiskLevel: types.RiskLevelHigh, Mitigation: "Captcha", DataClassification: "Confidential",
			PIDataAtRisk: types.PIDataAtRiskNo,
			CreatedAt:    time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "a-4", ServiceID: "svc-deleted", RiskCategory: "Error", RiskDescription: "Orphaned record",
			RiskLevel: types.RiskLevel("legacy"), PIDataAtRisk: types.PIDataAtRiskNo,
			CreatedAt: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, a := range assessments {
		_, err := repo.RiskAssessment().Create(ctx, a)
		must(err)
	}
	return repo
}

func newReportUseCases(t *testing.T, cfg *config.RiskConfig) *usecase.UseCases {
	opts := []usecase.Option{usecase.WithClock(func() time.Time { return reportNow })}
	if cfg != nil {
		opts = append(opts, usecase.WithRiskConfig(cfg))
	}
	return usecase.New(seedReport(t), opts...)
}

func TestReportUseCase_LoadDataset(t *testing.T) {
	uc := newReportUseCases(t, nil)
	ds, err := uc.Report.LoadDataset(context.Background())
	gt.NoError(t, err).Required()
	gt.Array(t, ds.Divisions).Length(2)
	gt.Array(t, ds.Teams).Length(2)
	gt.Array(t, ds.Services).Length(3)
	gt.Array(t, ds.Assessments).Length(4)
}

func TestReportUseCase_ListAssessmentRows(t *testing.T) {
	uc := newReportUseCases(t, nil)
	ctx := context.Background()

	t.Run("newest first with resolved details", func(t *testing.T) {
		rows, err := uc.Report.ListAssessmentRows(ctx, usecase.AssessmentQuery{})
		gt.NoError(t, err).Required()
		gt.Array(t, rows).Length(4)

		ids := make([]types.AssessmentID, len(rows))
		for i, r := range rows {
			ids[i] = r.Assessment.ID
		}
		gt.Value(t, ids).Equal([]types.AssessmentID{"a-2", "a-3", "a-1", "a-4"})
		gt.Value(t, rows[0].Detail).Equal(model.ServiceDetail{Name: "Billing", Division: "B2B", Team: "Zeus"})
		gt.Value(t, rows[3].Detail).Equal(model.UnknownServiceDetail())
	})

	t.Run("search matches resolved names", func(t *testing.T) {
		rows, err := uc.Report.ListAssessmentRows(ctx, usecase.AssessmentQuery{Search: "b2c"})
		gt.NoError(t, err).Required()
		gt.Array(t, rows).Length(1)
		gt.Value(t, rows[0].Assessment.ID).Equal(types.AssessmentID("a-3"))
	})

	t.Run("search matches unknown sentinel", func(t *testing.T) {
		rows, err := uc.Report.ListAssessmentRows(ctx, usecase.AssessmentQuery{Search: "unknown service"})
		gt.NoError(t, err).Required()
		gt.Array(t, rows).Length(1)
		gt.Value(t, rows[0].Assessment.ID).Equal(types.AssessmentID("a-4"))
	})

	t.Run("scope by division and team", func(t *testing.T) {
		rows, err := uc.Report.ListAssessmentRows(ctx, usecase.AssessmentQuery{
			Scope: usecase.Scope{Division: "B2B", Team: "Zeus"},
		})
		gt.NoError(t, err).Required()
		gt.Array(t, rows).Length(2)
	})
}

func TestReportUseCase_ServiceDetail(t *testing.T) {
	uc := newReportUseCases(t, nil)
	ctx := context.Background()

	view, err := uc.Report.ServiceDetail(ctx, "svc-billing")
	gt.NoError(t, err).Required()
	gt.Value(t, view.Service.Division).Equal("B2B")
	gt.Array(t, view.Assessments).Length(2)
	gt.Value(t, view.Assessments[0].ID).Equal(types.AssessmentID("a-2"))
	gt.Number(t, view.Summary.WeightedRiskScore).Equal(63)
	gt.Number(t, view.Summary.MedianRemediationHours).Equal(20)

	_, err = uc.Report.ServiceDetail(ctx, "svc-deleted")
	gt.Error(t, err).Is(usecase.ErrServiceNotFound)
}

func TestReportUseCase_LookupService(t *testing.T) {
	uc := newReportUseCases(t, nil)
	ctx := context.Background()

	rec, err := uc.Report.LookupService(ctx, "SHOP")
	gt.NoError(t, err).Required()
	gt.Value(t, rec.ID).Equal(types.ServiceID("svc-shop"))
	gt.Value(t, rec.Team).Equal("Hera")

	_, err = uc.Report.LookupService(ctx, "Shopping")
	gt.Error(t, err).Is(usecase.ErrServiceNotFound)
}

func TestReportUseCase_Dashboard(t *testing.T) {
	uc := newReportUseCases(t, nil)
	ctx := context.Background()

	dash, err := uc.Report.Dashboard(ctx, usecase.Scope{})
	gt.NoError(t, err).Required()
	gt.Array(t, dash.Distributions).Length(len(usecase.DashboardKeys))
	gt.Value(t, dash.GeneratedAt).Equal(reportNow)

	levels := dash.Distributions[1]
	gt.Value(t, levels.Key).Equal(metrics.KeyRiskLevel)
	gt.Number(t, levels.Count("legacy")).Equal(1)
	gt.Number(t, levels.Total()).Equal(4)

	// (4 + 1 + 3 + 0) / 16
	gt.Number(t, dash.Summary.WeightedRiskScore).Equal(50)
	gt.Number(t, dash.Summary.TotalAssessments).Equal(4)
	gt.Number(t, dash.Summary.DaysSinceLastAssessment).Equal(10)
	gt.Number(t, dash.Summary.PIRiskScore).Equal(100)
	gt.Number(t, dash.Summary.MissingMitigation).Equal(2)

	scoped, err := uc.Report.Dashboard(ctx, usecase.Scope{Division: "B2C"})
	gt.NoError(t, err).Required()
	gt.Number(t, scoped.Summary.TotalAssessments).Equal(1)
	gt.Number(t, scoped.Summary.WeightedRiskScore).Equal(75)
}

func TestReportUseCase_DepartmentReport(t *testing.T) {
	t.Run("scope with data", func(t *testing.T) {
		uc := newReportUseCases(t, nil)
		report, err := uc.Report.DepartmentReport(context.Background(), usecase.Scope{Division: "B2B", Team: "Zeus"})
		gt.NoError(t, err).Required()

		gt.Bool(t, report.HasData).True()
		gt.Number(t, report.NumberOfProducts).Equal(2)
		gt.Number(t, report.Summary.TotalAssessments).Equal(2)
		gt.Number(t, report.Summary.GlobalRevenueRisks).Equal(1)
		gt.Number(t, report.Summary.LocalRevenueRisks).Equal(1)
		gt.Number(t, report.Summary.CustomRisks).Equal(1)
		gt.Number(t, report.Summary.MissingMitigation).Equal(1)
		gt.Number(t, report.Summary.MedianRemediationHours).Equal(20)
		gt.Number(t, report.Summary.PIRiskScore).Equal(100)
		gt.Number(t, report.Summary.DaysSinceLastAssessment).Equal(10)

		gt.Array(t, report.Services).Length(2)
		gt.Value(t, report.Services[0].Name).Equal("Billing")
		gt.Number(t, report.Services[0].Assessments).Equal(2)
		gt.Value(t, report.Services[1].Name).Equal("Invoice")
		gt.Number(t, report.Services[1].Assessments).Equal(0)
	})

	t.Run("scope without assessments", func(t *testing.T) {
		uc := newReportUseCases(t, nil)
		report, err := uc.Report.DepartmentReport(context.Background(), usecase.Scope{Division: "B2E"})
		gt.NoError(t, err).Required()
		gt.Bool(t, report.HasData).False()
		gt.Number(t, report.NumberOfProducts).Equal(0)
		gt.Value(t, report.Summary).Equal(metrics.Summary{})
	})

	t.Run("empty scope uses configured default", func(t *testing.T) {
		uc := newReportUseCases(t, &config.RiskConfig{
			StandardCategories: []string{"Error", "Failure", "Malicious", "Vendor lock-in"},
			ReportScope:        config.ReportScope{Division: "B2B", Team: "Zeus"},
		})
		report, err := uc.Report.DepartmentReport(context.Background(), usecase.Scope{})
		gt.NoError(t, err).Required()
		gt.Value(t, report.Scope).Equal(usecase.Scope{Division: "B2B", Team: "Zeus"})
		gt.Number(t, report.Summary.CustomRisks).Equal(0)
	})
}

func TestReportUseCase_Snapshot(t *testing.T) {
	uc := newReportUseCases(t, nil)
	snap, err := uc.Report.Snapshot(context.Background())
	gt.NoError(t, err).Required()

	gt.Number(t, snap.Services).Equal(3)
	gt.Number(t, snap.Overall.TotalAssessments).Equal(4)
	gt.Array(t, snap.ByDivision).Length(3)

	byName := map[string]metrics.Summary{}
	for _, d := range snap.ByDivision {
		byName[d.Division] = d.Summary
	}
	gt.Number(t, byName["B2B"].TotalAssessments).Equal(2)
	gt.Number(t, byName["B2C"].TotalAssessments).Equal(1)
	gt.Number(t, byName[model.UnknownDivision].TotalAssessments).Equal(1)
}

func TestReportUseCase_StandardRisks(t *testing.T) {
	defaults := newReportUseCases(t, nil)
	gt.Array(t, defaults.Report.StandardRisks()).Length(len(config.DefaultStandardRisks()))

	custom := newReportUseCases(t, &config.RiskConfig{
		StandardRisks: []model.StandardRisk{{Name: "Region outage", Category: "Failure"}},
	})
	risks := custom.Report.StandardRisks()
	gt.Array(t, risks).Length(1)
	gt.Value(t, risks[0].Name).Equal("Region outage")
}
