package model

import (
	"time"

	"github.com/google/uuid"
)

// CheckReport is the result of checking one credential.
// It carries the target email but never the password.
type CheckReport struct {
	// ID uniquely identifies the check. It is also used as the history key.
	ID string `json:"id"`

	// Target is the checked email address.
	Target string `json:"target"`

	// StartedAt is when the check began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the risk verdict was produced.
	// Zero while the check is still running.
	FinishedAt time.Time `json:"finished_at"`

	// Email is the breach probe result.
	Email EmailExposure `json:"email"`

	// Password is the hash-prefix lookup result.
	Password PasswordExposure `json:"password"`

	// Risk is the classified verdict.
	Risk RiskVerdict `json:"risk"`

	// Attempts lists every provider call in the order it was made.
	Attempts []ProviderAttempt `json:"attempts,omitempty"`
}

// NewCheckReport creates a report for the given email with a fresh ID.
// Email starts as BreachUnknown and Password as unknown until steps fill them in.
func NewCheckReport(target string) *CheckReport {
	return &CheckReport{
		ID:        uuid.NewString(),
		Target:    target,
		StartedAt: time.Now(),
		Email:     EmailExposure{Status: BreachUnknown},
		Password:  PasswordUnknown(),
	}
}

// Duration returns how long the check took, or zero if it has not finished.
func (r *CheckReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// AddAttempt appends a provider attempt.
func (r *CheckReport) AddAttempt(a ProviderAttempt) {
	r.Attempts = append(r.Attempts, a)
}

// Finish stamps the completion time.
func (r *CheckReport) Finish() {
	r.FinishedAt = time.Now()
}
