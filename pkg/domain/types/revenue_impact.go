package types

import "github.com/m-mizutani/goerr/v2"

// RevenueImpact tells whether a risk affects revenue
type RevenueImpact string

const (
	RevenueImpactYes     RevenueImpact = "yes"
	RevenueImpactNo      RevenueImpact = "no"
	RevenueImpactUnclear RevenueImpact = "unclear"
)

// AllRevenueImpacts returns all valid revenue impact values
func AllRevenueImpacts() []RevenueImpact {
	return []RevenueImpact{
		RevenueImpactYes,
		RevenueImpactNo,
		RevenueImpactUnclear,
	}
}

// IsValid checks if the revenue impact is valid
func (r RevenueImpact) IsValid() bool {
	switch r {
	case RevenueImpactYes,
		RevenueImpactNo,
		RevenueImpactUnclear:
		return true
	default:
		return false
	}
}

func (r RevenueImpact) String() string {
	return string(r)
}

// ParseRevenueImpact parses a string into a RevenueImpact
func ParseRevenueImpact(s string) (RevenueImpact, error) {
	v := RevenueImpact(s)
	if !v.IsValid() {
		return "", goerr.New("invalid revenue impact", goerr.V("value", s))
	}
	return v, nil
}
