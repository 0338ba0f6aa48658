package types

import "github.com/m-mizutani/goerr/v2"

// MitigativeControls tells whether compensating controls are in place
type MitigativeControls string

const (
	MitigativeControlsYes       MitigativeControls = "yes"
	MitigativeControlsNo        MitigativeControls = "no"
	MitigativeControlsPartially MitigativeControls = "partially"
)

// AllMitigativeControls returns all valid mitigative controls values
func AllMitigativeControls() []MitigativeControls {
	return []MitigativeControls{
		MitigativeControlsYes,
		MitigativeControlsNo,
		MitigativeControlsPartially,
	}
}

// IsValid checks if the value is valid
func (m MitigativeControls) IsValid() bool {
	switch m {
	case MitigativeControlsYes,
		MitigativeControlsNo,
		MitigativeControlsPartially:
		return true
	default:
		return false
	}
}

func (m MitigativeControls) String() string {
	return string(m)
}

// ParseMitigativeControls parses a string into a MitigativeControls
func ParseMitigativeControls(s string) (MitigativeControls, error) {
	v := MitigativeControls(s)
	if !v.IsValid() {
		return "", goerr.New("invalid mitigative controls", goerr.V("value", s))
	}
	return v, nil
}
