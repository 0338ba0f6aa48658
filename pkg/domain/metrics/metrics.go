// Package metrics reduces risk assessments into the summary statistics shown
// on dashboards and reports. Every function is pure and total: empty input
// yields a defined zero result and malformed values never cause a panic.
package metrics

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/secmon-lab/riskatlas/pkg/domain/model"
	"github.com/secmon-lab/riskatlas/pkg/domain/types"
)

// WeightedRiskScore returns a 0..100 severity index:
// round(sum(weight) / (n * 4) * 100) with critical=4, high=3, medium=2,
// low=1 and 0 for unrecognized levels. It is 0 for no records.
func WeightedRiskScore(records []*model.RiskAssessment) int {
	n := 0
	sum := 0
	for _, r := range records {
		if r == nil {
			continue
		}
		n++
		sum += r.RiskLevel.Weight()
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n*types.MaxRiskLevelWeight) * 100))
}

// MedianRemediationHours returns the median of HoursToRemediate over records
// where it is set, averaging the two middle values for even counts. It is 0
// when no record has the field.
func MedianRemediationHours(records []*model.RiskAssessment) float64 {
	var hours []float64
	for _, r := range records {
		if r == nil || r.HoursToRemediate == nil {
			continue
		}
		hours = append(hours, *r.HoursToRemediate)
	}
	if len(hours) == 0 {
		return 0
	}

	slices.Sort(hours)
	mid := len(hours) / 2
	if len(hours)%2 == 0 {
		return (hours[mid-1] + hours[mid]) / 2
	}
	return hours[mid]
}

// piAmountScore is the exposure score of a record with PI data at risk
func piAmountScore(amount types.PIDataAmount) int {
	switch amount {
	case types.PIDataAmountMoreThan99M:
		return 100
	case types.PIDataAmountBetween1MAnd99M:
		return 50
	case types.PIDataAmountLessThan1M:
		return 10
	default:
		return 5
	}
}

// PIRiskScore sums the exposure score of every record with PI data at risk
// (100 for >99m records, 50 for 1m-99m, 10 for <1m, 5 otherwise). Records
// without PI data at risk contribute nothing.
func PIRiskScore(records []*model.RiskAssessment) int {
	score := 0
	for _, r := range records {
		if r == nil || r.PIDataAtRisk != types.PIDataAtRiskYes {
			continue
		}
		score += piAmountScore(r.PIDataAmount)
	}
	return score
}

// DaysSinceLastAssessment returns the whole days between now and the newest
// CreatedAt. No records counts as assessed now and yields 0.
func DaysSinceLastAssessment(records []*model.RiskAssessment, now time.Time) int {
	var latest time.Time
	found := false
	for _, r := range records {
		if r == nil {
			continue
		}
		if !found || r.CreatedAt.After(latest) {
			latest = r.CreatedAt
			found = true
		}
	}
	if !found {
		return 0
	}
	return floorDays(now, latest)
}

// floorDays is floor((now - then) / 24h) without the ~292 year range limit
// of time.Duration
func floorDays(now, then time.Time) int {
	secs := now.Unix() - then.Unix()
	if now.Nanosecond() < then.Nanosecond() {
		secs--
	}
	days := secs / secondsPerDay
	if secs%secondsPerDay != 0 && secs < 0 {
		days--
	}
	return int(days)
}

const secondsPerDay = 24 * 60 * 60

// CountMissingMitigation counts records whose mitigation is blank
func CountMissingMitigation(records []*model.RiskAssessment) int {
	count := 0
	for _, r := range records {
		if r != nil && strings.TrimSpace(r.Mitigation) == "" {
			count++
		}
	}
	return count
}

// CountGlobalRevenueRisks counts records with global revenue impact
func CountGlobalRevenueRisks(records []*model.RiskAssessment) int {
	count := 0
	for _, r := range records {
		if r != nil && r.HasGlobalRevenueImpact {
			count++
		}
	}
	return count
}

// CountLocalRevenueRisks counts records with local revenue impact
func CountLocalRevenueRisks(records []*model.RiskAssessment) int {
	count := 0
	for _, r := range records {
		if r != nil && r.HasLocalRevenueImpact {
			count++
		}
	}
	return count
}

// CountCustomRisks counts records whose category is not one of the standard categories
func CountCustomRisks(records []*model.RiskAssessment, standardCategories []string) int {
	count := 0
	for _, r := range records {
		if r != nil && !slices.Contains(standardCategories, r.RiskCategory) {
			count++
		}
	}
	return count
}
