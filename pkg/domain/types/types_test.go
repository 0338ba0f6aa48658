package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

func TestRiskLevel_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		level types.RiskLevel
		want  bool
	}{
		{"low", types.RiskLevelLow, true},
		{"medium", types.RiskLevelMedium, true},
		{"high", types.RiskLevelHigh, true},
		{"critical", types.RiskLevelCritical, true},
		{"uppercase", types.RiskLevel("CRITICAL"), false},
		{"empty", types.RiskLevel(""), false},
		{"unknown", types.RiskLevel("severe"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.level.IsValid()).Equal(tt.want)
		})
	}
}

func TestRiskLevel_Weight(t *testing.T) {
	tests := []struct {
		level types.RiskLevel
		want  int
	}{
		{types.RiskLevelLow, 1},
		{types.RiskLevelMedium, 2},
		{types.RiskLevelHigh, 3},
		{types.RiskLevelCritical, 4},
		{types.RiskLevel("corrupted"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			gt.Number(t, tt.level.Weight()).Equal(tt.want)
		})
	}

	gt.Number(t, types.RiskLevelCritical.Weight()).Equal(types.MaxRiskLevelWeight)
}

func TestParseRiskLevel(t *testing.T) {
	level, err := types.ParseRiskLevel("high")
	gt.NoError(t, err).Required()
	gt.Value(t, level).Equal(types.RiskLevelHigh)

	_, err = types.ParseRiskLevel("extreme")
	gt.Error(t, err)
}

func TestParseEnums(t *testing.T) {
	t.Run("revenue impact", func(t *testing.T) {
		for _, v := range types.AllRevenueImpacts() {
			parsed, err := types.ParseRevenueImpact(v.String())
			gt.NoError(t, err).Required()
			gt.Value(t, parsed).Equal(v)
		}
		_, err := types.ParseRevenueImpact("maybe")
		gt.Error(t, err)
	})

	t.Run("pi data at risk", func(t *testing.T) {
		_, err := types.ParsePIDataAtRisk("yes")
		gt.NoError(t, err)
		_, err = types.ParsePIDataAtRisk("unclear")
		gt.Error(t, err)
	})

	t.Run("pi data amount", func(t *testing.T) {
		for _, v := range types.AllPIDataAmounts() {
			_, err := types.ParsePIDataAmount(v.String())
			gt.NoError(t, err)
		}
		_, err := types.ParsePIDataAmount("lots")
		gt.Error(t, err)
	})

	t.Run("mitigative controls", func(t *testing.T) {
		values := types.AllMitigativeControls()
		gt.Array(t, values).Length(3)
		for _, v := range values {
			parsed, err := types.ParseMitigativeControls(v.String())
			gt.NoError(t, err).Required()
			gt.Value(t, parsed).Equal(v)
		}
		_, err := types.ParseMitigativeControls("")
		gt.Error(t, err)
	})
}

func TestIDs(t *testing.T) {
	gt.NoError(t, types.NewDivisionID().Validate())
	gt.NoError(t, types.NewTeamID().Validate())
	gt.NoError(t, types.NewServiceID().Validate())
	gt.NoError(t, types.NewAssessmentID().Validate())

	gt.Error(t, types.DivisionID("").Validate())
	gt.Error(t, types.TeamID("").Validate())
	gt.Error(t, types.ServiceID("").Validate())
	gt.Error(t, types.AssessmentID("").Validate())

	gt.Value(t, types.NewServiceID()).NotEqual(types.NewServiceID())
}
