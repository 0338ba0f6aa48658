package metrics

import (
	"strconv"

	"github.com/secmon-lab/riskatlas/pkg/domain/model"
)

// Key selects the risk assessment field a distribution groups by
type Key string

const (
	KeyRiskCategory                  Key = "riskCategory"
	KeyRiskLevel                     Key = "riskLevel"
	KeyDataClassification            Key = "dataClassification"
	KeyDataInterface                 Key = "dataInterface"
	KeyDataLocation                  Key = "dataLocation"
	KeyRiskOwner                     Key = "riskOwner"
	KeyRevenueImpact                 Key = "revenueImpact"
	KeyPIDataAtRisk                  Key = "piDataAtRisk"
	KeyPIDataAmount                  Key = "piDataAmount"
	KeyMitigativeControlsImplemented Key = "mitigativeControlsImplemented"
	KeyHasGlobalRevenueImpact        Key = "hasGlobalRevenueImpact"
	KeyHasLocalRevenueImpact         Key = "hasLocalRevenueImpact"
)

// AllKeys returns every supported distribution key
func AllKeys() []Key {
	return []Key{
		KeyRiskCategory,
		KeyRiskLevel,
		KeyDataClassification,
		KeyDataInterface,
		KeyDataLocation,
		KeyRiskOwner,
		KeyRevenueImpact,
		KeyPIDataAtRisk,
		KeyPIDataAmount,
		KeyMitigativeControlsImplemented,
		KeyHasGlobalRevenueImpact,
		KeyHasLocalRevenueImpact,
	}
}

// IsValid checks if the key is supported
func (k Key) IsValid() bool {
	_, ok := extractors[k]
	return ok
}

var extractors = map[Key]func(*model.RiskAssessment) string{
	KeyRiskCategory:                  func(r *model.RiskAssessment) string { return r.RiskCategory },
	KeyRiskLevel:                     func(r *model.RiskAssessment) string { return r.RiskLevel.String() },
	KeyDataClassification:            func(r *model.RiskAssessment) string { return r.DataClassification },
	KeyDataInterface:                 func(r *model.RiskAssessment) string { return r.DataInterface },
	KeyDataLocation:                  func(r *model.RiskAssessment) string { return r.DataLocation },
	KeyRiskOwner:                     func(r *model.RiskAssessment) string { return r.RiskOwner },
	KeyRevenueImpact:                 func(r *model.RiskAssessment) string { return r.RevenueImpact.String() },
	KeyPIDataAtRisk:                  func(r *model.RiskAssessment) string { return r.PIDataAtRisk.String() },
	KeyPIDataAmount:                  func(r *model.RiskAssessment) string { return r.PIDataAmount.String() },
	KeyMitigativeControlsImplemented: func(r *model.RiskAssessment) string { return r.MitigativeControlsImplemented.String() },
	KeyHasGlobalRevenueImpact:        func(r *model.RiskAssessment) string { return strconv.FormatBool(r.HasGlobalRevenueImpact) },
	KeyHasLocalRevenueImpact:         func(r *model.RiskAssessment) string { return strconv.FormatBool(r.HasLocalRevenueImpact) },
}

// Bucket is one group of a distribution
type Bucket struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Distribution counts records per field value. Buckets are in the order the
// value was first seen in the input.
type Distribution struct {
	Key     Key      `json:"key"`
	Buckets []Bucket `json:"buckets"`
}

// Count returns the count for value, or 0
func (d Distribution) Count(value string) int {
	for _, b := range d.Buckets {
		if b.Value == value {
			return b.Count
		}
	}
	return 0
}

// Values returns the bucket values in first-seen order
func (d Distribution) Values() []string {
	values := make([]string, len(d.Buckets))
	for i, b := range d.Buckets {
		values[i] = b.Value
	}
	return values
}

// Total returns the number of records counted
func (d Distribution) Total() int {
	total := 0
	for _, b := range d.Buckets {
		total += b.Count
	}
	return total
}

// DistributionBy groups records by the literal value of key. Unrecognized
// enum values form their own bucket. An unsupported key yields an empty
// distribution.
func DistributionBy(records []*model.RiskAssessment, key Key) Distribution {
	dist := Distribution{Key: key, Buckets: []Bucket{}}
	extract, ok := extractors[key]
	if !ok {
		return dist
	}

	pos := make(map[string]int)
	for _, r := range records {
		if r == nil {
			continue
		}
		v := extract(r)
		if i, seen := pos[v]; seen {
			dist.Buckets[i].Count++
			continue
		}
		pos[v] = len(dist.Buckets)
		dist.Buckets = append(dist.Buckets, Bucket{Value: v, Count: 1})
	}
	return dist
}
