package metrics_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskatlas/pkg/domain/metrics"
	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

func TestDistributionBy(t *testing.T) {
	records := []*model.RiskAssessment{
		{RiskCategory: "Security", RiskLevel: types.RiskLevelHigh, DataClassification: "Confidential"},
		{RiskCategory: "Privacy", RiskLevel: types.RiskLevelLow, DataClassification: "Restricted"},
		{RiskCategory: "Security", RiskLevel: types.RiskLevelCritical, DataClassification: "Confidential"},
		{RiskCategory: "Operational", RiskLevel: types.RiskLevel("corrupted"), DataClassification: "Public", HasGlobalRevenueImpact: true},
		{RiskCategory: "Privacy", RiskLevel: types.RiskLevelHigh, DataClassification: "Confidential"},
	}

	t.Run("groups in first-seen order", func(t *testing.T) {
		d := metrics.DistributionBy(records, metrics.KeyRiskCategory)
		gt.Value(t, d.Key).Equal(metrics.KeyRiskCategory)
		gt.Value(t, d.Values()).Equal([]string{"Security", "Privacy", "Operational"})
		gt.Number(t, d.Count("Security")).Equal(2)
		gt.Number(t, d.Count("Privacy")).Equal(2)
		gt.Number(t, d.Count("Operational")).Equal(1)
		gt.Number(t, d.Count("Financial")).Equal(0)
		gt.Number(t, d.Total()).Equal(len(records))
	})

	t.Run("unrecognized level is its own bucket", func(t *testing.T) {
		d := metrics.DistributionBy(records, metrics.KeyRiskLevel)
		gt.Value(t, d.Values()).Equal([]string{"high", "low", "critical", "corrupted"})
		gt.Number(t, d.Count("corrupted")).Equal(1)
		gt.Number(t, d.Count("high")).Equal(2)
	})

	t.Run("classification", func(t *testing.T) {
		d := metrics.DistributionBy(records, metrics.KeyDataClassification)
		gt.Value(t, d.Buckets).Equal([]metrics.Bucket{
			{Value: "Confidential", Count: 3},
			{Value: "Restricted", Count: 1},
			{Value: "Public", Count: 1},
		})
	})

	t.Run("boolean key is stringified", func(t *testing.T) {
		d := metrics.DistributionBy(records, metrics.KeyHasGlobalRevenueImpact)
		gt.Value(t, d.Values()).Equal([]string{"false", "true"})
		gt.Number(t, d.Count("true")).Equal(1)
	})

	t.Run("deterministic on an order-preserving copy", func(t *testing.T) {
		copied := make([]*model.RiskAssessment, len(records))
		for i, r := range records {
			c := *r
			copied[i] = &c
		}
		gt.Value(t, metrics.DistributionBy(copied, metrics.KeyRiskCategory)).
			Equal(metrics.DistributionBy(records, metrics.KeyRiskCategory))
	})

	t.Run("empty input", func(t *testing.T) {
		d := metrics.DistributionBy(nil, metrics.KeyRiskLevel)
		gt.Array(t, d.Buckets).Length(0)
		gt.Number(t, d.Total()).Equal(0)
	})

	t.Run("unsupported key", func(t *testing.T) {
		gt.Bool(t, metrics.Key("riskScore").IsValid()).False()
		d := metrics.DistributionBy(records, metrics.Key("riskScore"))
		gt.Array(t, d.Buckets).Length(0)
	})

	t.Run("all keys are supported", func(t *testing.T) {
		for _, k := range metrics.AllKeys() {
			gt.Bool(t, k.IsValid()).True()
			gt.Number(t, metrics.DistributionBy(records, k).Total()).Equal(len(records))
		}
	})
}
