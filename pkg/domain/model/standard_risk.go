package model

// StandardRisk is an entry of the catalog of commonly assessed risks
type StandardRisk struct {
	Name              string
	Category          string
	Description       string
	LossEventCategory string
}
