package metrics

import (
	"time"

	"github.com/secmon-lab/riskatlas/pkg/domain/model"
)

// Summary bundles every aggregate computed for one filtered set of records
type Summary struct {
	TotalAssessments        int     `json:"total_assessments"`
	WeightedRiskScore       int     `json:"weighted_risk_score"`
	MedianRemediationHours  float64 `json:"median_remediation_hours"`
	PIRiskScore             int     `json:"pi_risk_score"`
	DaysSinceLastAssessment int     `json:"days_since_last_assessment"`
	MissingMitigation       int     `json:"missing_mitigation"`
	GlobalRevenueRisks      int     `json:"global_revenue_risks"`
	LocalRevenueRisks       int     `json:"local_revenue_risks"`
	CustomRisks             int     `json:"custom_risks"`
}

// Summarize computes the Summary of records at now
func Summarize(records []*model.RiskAssessment, now time.Time, standardCategories []string) Summary {
	total := 0
	for _, r := range records {
		if r != nil {
			total++
		}
	}

	return Summary{
		TotalAssessments:        total,
		WeightedRiskScore:       WeightedRiskScore(records),
		MedianRemediationHours:  MedianRemediationHours(records),
		PIRiskScore:             PIRiskScore(records),
		DaysSinceLastAssessment: DaysSinceLastAssessment(records, now),
		MissingMitigation:       CountMissingMitigation(records),
		GlobalRevenueRisks:      CountGlobalRevenueRisks(records),
		LocalRevenueRisks:       CountLocalRevenueRisks(records),
		CustomRisks:             CountCustomRisks(records, standardCategories),
	}
}
