package model

import "errors"

var (
	// ErrInvalidEmail is returned when the email is empty or lacks "@".
	ErrInvalidEmail = errors.New("Invalid email address") //nolint:staticcheck // shown to users verbatim

	// ErrEmptyPassword is returned when the password is empty or whitespace only.
	ErrEmptyPassword = errors.New("Password cannot be empty") //nolint:staticcheck // shown to users verbatim

	// ErrUnknownRiskLevel is returned when parsing an unrecognized level name.
	ErrUnknownRiskLevel = errors.New("unknown risk level")
)
