// Package model defines the data shared by every breachscan component.
//
// The main types are:
//   - Credential: the email/password pair under check, with input validation
//   - EmailExposure: tri-state breach lookup answer (found, not found, unknown)
//   - PasswordExposure: optional leak count from the hash-prefix lookup
//   - RiskVerdict: the low/medium/high classification with guidance text
//   - CheckReport: everything one check produced, minus the password
//
// Unknown is always the zero value of an exposure result, so a lookup that
// never ran cannot be mistaken for a clean one.
package model
