package types

import "github.com/m-mizutani/goerr/v2"

// PIDataAtRisk tells whether personal information is exposed by a risk
type PIDataAtRisk string

const (
	PIDataAtRiskYes PIDataAtRisk = "yes"
	PIDataAtRiskNo  PIDataAtRisk = "no"
)

// IsValid checks if the value is valid
func (p PIDataAtRisk) IsValid() bool {
	return p == PIDataAtRiskYes || p == PIDataAtRiskNo
}

func (p PIDataAtRisk) String() string {
	return string(p)
}

// ParsePIDataAtRisk parses a string into a PIDataAtRisk
func ParsePIDataAtRisk(s string) (PIDataAtRisk, error) {
	v := PIDataAtRisk(s)
	if !v.IsValid() {
		return "", goerr.New("invalid pi data at risk", goerr.V("value", s))
	}
	return v, nil
}

// PIDataAmount is the bucketed number of personal information records at risk
type PIDataAmount string

const (
	PIDataAmountLessThan1M      PIDataAmount = "less_than_1m"
	PIDataAmountBetween1MAnd99M PIDataAmount = "between_1m_and_99m"
	PIDataAmountMoreThan99M     PIDataAmount = "more_than_99m"
	PIDataAmountUnknown         PIDataAmount = "unknown"
)

// AllPIDataAmounts returns all valid PI data amounts, smallest first
func AllPIDataAmounts() []PIDataAmount {
	return []PIDataAmount{
		PIDataAmountLessThan1M,
		PIDataAmountBetween1MAnd99M,
		PIDataAmountMoreThan99M,
		PIDataAmountUnknown,
	}
}

// IsValid checks if the PI data amount is valid
func (p PIDataAmount) IsValid() bool {
	switch p {
	case PIDataAmountLessThan1M,
		PIDataAmountBetween1MAnd99M,
		PIDataAmountMoreThan99M,
		PIDataAmountUnknown:
		return true
	default:
		return false
	}
}

func (p PIDataAmount) String() string {
	return string(p)
}

// ParsePIDataAmount parses a string into a PIDataAmount
func ParsePIDataAmount(s string) (PIDataAmount, error) {
	v := PIDataAmount(s)
	if !v.IsValid() {
		return "", goerr.New("invalid pi data amount", goerr.V("value", s))
	}
	return v, nil
}
