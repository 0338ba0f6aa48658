package resolver

import (
	"strconv"
	"strings"
	"time"

	"github.com/secmon-lab/riskatlas/pkg/domain/model"
)

// MatchesSearchTerm reports whether term, ignoring case, is a substring of
// any field of record or of the resolved service, division or team name.
// Numbers and booleans are compared in their string form. An empty term
// matches every record.
func MatchesSearchTerm(record *model.RiskAssessment, term string, details model.ServiceDetail) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)

	for _, s := range []string{details.Name, details.Division, details.Team} {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	if record == nil {
		return false
	}

	for _, s := range searchableFields(record) {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// FilterRows keeps the rows matching term
func FilterRows(rows []*model.AssessmentRow, term string) []*model.AssessmentRow {
	if term == "" {
		return rows
	}
	result := make([]*model.AssessmentRow, 0, len(rows))
	for _, row := range rows {
		if MatchesSearchTerm(row.Assessment, term, row.Detail) {
			result = append(result, row)
		}
	}
	return result
}

func searchableFields(r *model.RiskAssessment) []string {
	fields := []string{
		r.ID.String(),
		r.ServiceID.String(),
		r.RiskCategory,
		r.RiskDescription,
		r.RiskLevel.String(),
		r.DataClassification,
		r.DataInterface,
		r.DataLocation,
		formatFloat(r.LikelihoodPerYear),
		r.Mitigation,
		r.RiskOwner,
		r.CreatedBy,
		r.RevenueImpact.String(),
		strconv.FormatBool(r.HasGlobalRevenueImpact),
		strconv.FormatBool(r.HasLocalRevenueImpact),
		r.PIDataAtRisk.String(),
		r.PIDataAmount.String(),
		r.MitigativeControlsImplemented.String(),
	}
	if !r.CreatedAt.IsZero() {
		fields = append(fields, r.CreatedAt.UTC().Format(time.RFC3339))
	}
	for _, v := range []*float64{
		r.GlobalRevenueImpactHours,
		r.LocalRevenueImpactHours,
		r.HoursToRemediate,
		r.AdditionalLossEventCosts,
	} {
		if v != nil {
			fields = append(fields, formatFloat(*v))
		}
	}
	return fields
}

// formatFloat renders whole numbers without a fraction ("12", not "12.0")
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
