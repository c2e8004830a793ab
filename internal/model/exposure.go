package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BreachStatus is the tri-state answer of an email breach lookup.
//
// BreachUnknown is the zero value: a result nobody filled in must never
// read as "not found".
type BreachStatus int

const (
	// BreachUnknown means no provider gave a conclusive answer.
	BreachUnknown BreachStatus = iota

	// BreachNotFound means a provider positively reported zero matches.
	BreachNotFound

	// BreachFound means a provider reported at least one match.
	BreachFound
)

// String returns the status name used in logs and the history database.
func (s BreachStatus) String() string {
	switch s {
	case BreachFound:
		return "found"
	case BreachNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// ParseBreachStatus converts a status name back to a BreachStatus.
// Unrecognized names map to BreachUnknown.
func ParseBreachStatus(s string) BreachStatus {
	switch s {
	case "found":
		return BreachFound
	case "not_found":
		return BreachNotFound
	default:
		return BreachUnknown
	}
}

// MarshalJSON renders the status as true, false or null.
func (s BreachStatus) MarshalJSON() ([]byte, error) {
	switch s {
	case BreachFound:
		return []byte("true"), nil
	case BreachNotFound:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts true, false or null.
func (s *BreachStatus) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*s = BreachFound
	case "false":
		*s = BreachNotFound
	case "null":
		*s = BreachUnknown
	default:
		return fmt.Errorf("invalid breach status %s", data)
	}
	return nil
}

// EmailExposure is the result of probing breach providers for an email address.
type EmailExposure struct {
	// Status is the tri-state lookup answer.
	Status BreachStatus `json:"found"`

	// Message is a human-readable summary of the answer.
	Message string `json:"message"`

	// Sources lists breach names reported by the provider, capped for display.
	Sources []string `json:"sources"`

	// Omitted is the number of sources dropped by the display cap.
	Omitted int `json:"omitted,omitempty"`

	// Provider is the name of the provider that answered.
	// Empty when Status is BreachUnknown.
	Provider string `json:"provider,omitempty"`
}

// Found reports whether the email was positively found in a breach.
func (e EmailExposure) Found() bool {
	return e.Status == BreachFound
}

// Known reports whether a provider answered conclusively.
func (e EmailExposure) Known() bool {
	return e.Status != BreachUnknown
}

// TruncateSources keeps at most limit sources and records how many were cut.
// A non-positive limit leaves the list untouched.
func (e *EmailExposure) TruncateSources(limit int) {
	if limit <= 0 || len(e.Sources) <= limit {
		return
	}
	e.Omitted += len(e.Sources) - limit
	e.Sources = e.Sources[:limit:limit]
}

// PasswordExposure is the result of the hash-prefix password lookup.
type PasswordExposure struct {
	// Count is how many times the password appeared in breach corpora.
	// nil means the lookup could not be performed; 0 means not found.
	Count *int64 `json:"count"`
}

// PasswordSeen returns a known result with the given occurrence count.
func PasswordSeen(count int64) PasswordExposure {
	return PasswordExposure{Count: &count}
}

// PasswordUnknown returns a result for a lookup that could not be performed.
func PasswordUnknown() PasswordExposure {
	return PasswordExposure{}
}

// Known reports whether the lookup produced an answer.
func (p PasswordExposure) Known() bool {
	return p.Count != nil
}

// Compromised reports whether the password was seen at least once.
func (p PasswordExposure) Compromised() bool {
	return p.Count != nil && *p.Count > 0
}

// Value returns the count and whether it is known.
func (p PasswordExposure) Value() (int64, bool) {
	if p.Count == nil {
		return 0, false
	}
	return *p.Count, true
}

// MarshalJSON adds the derived "found" field: count > 0, or null when unknown.
func (p PasswordExposure) MarshalJSON() ([]byte, error) {
	type wire struct {
		Count *int64 `json:"count"`
		Found *bool  `json:"found"`
	}
	w := wire{Count: p.Count}
	if p.Count != nil {
		found := *p.Count > 0
		w.Found = &found
	}
	return json.Marshal(w)
}

// AttemptOutcome is what happened when a provider was asked.
type AttemptOutcome string

const (
	// AttemptConclusive means the provider answered found or not found.
	AttemptConclusive AttemptOutcome = "conclusive"
	// AttemptSkipped means the provider failed and the probe moved on.
	AttemptSkipped AttemptOutcome = "skipped"
)

// ProviderAttempt records one provider call made by the email probe.
type ProviderAttempt struct {
	// Provider is the provider name.
	Provider string `json:"provider"`

	// Outcome is conclusive or skipped.
	Outcome AttemptOutcome `json:"outcome"`

	// Reason explains a skip. Empty for conclusive attempts.
	Reason string `json:"reason,omitempty"`
}
