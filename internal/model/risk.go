package model

import "fmt"

// RiskLevel is the coarse classification of a checked credential.
// Levels are ordered, so RiskHigh > RiskMedium > RiskLow holds.
type RiskLevel int

const (
	// RiskLow means neither the email nor the password showed exposure.
	RiskLow RiskLevel = iota

	// RiskMedium means exactly one of the two signals showed exposure.
	RiskMedium

	// RiskHigh means the email was found in a breach and the password
	// is present in the leaked password corpus.
	RiskHigh
)

// String returns the lower-case name used in API responses and the history database.
func (l RiskLevel) String() string {
	switch l {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l RiskLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *RiskLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseRiskLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseRiskLevel converts a level name back to a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch s {
	case "low":
		return RiskLow, nil
	case "medium":
		return RiskMedium, nil
	case "high":
		return RiskHigh, nil
	default:
		return RiskLow, fmt.Errorf("%w: %q", ErrUnknownRiskLevel, s)
	}
}

// RiskReason names the decision-table row that produced a verdict.
type RiskReason string

const (
	// ReasonBreachAndPassword: email found in a breach and password compromised.
	ReasonBreachAndPassword RiskReason = "breach_and_password"
	// ReasonBreachOnly: email found in a breach, password clean or unchecked.
	ReasonBreachOnly RiskReason = "breach_only"
	// ReasonPasswordOnly: password compromised, email not found or unchecked.
	ReasonPasswordOnly RiskReason = "password_only"
	// ReasonNoExposure: nothing detected.
	ReasonNoExposure RiskReason = "no_exposure"
)

// RiskVerdict is the final classification together with its guidance text.
type RiskVerdict struct {
	// Level is the classified risk.
	Level RiskLevel `json:"level"`

	// Message summarizes what was detected.
	Message string `json:"message"`

	// Recommendation tells the user what to do next.
	Recommendation string `json:"recommendation"`

	// Reason identifies the matched decision row.
	Reason RiskReason `json:"reason"`
}
