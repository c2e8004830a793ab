// Package risk classifies a checked credential from its two exposure
// signals.
//
// Evaluate is a pure function of the email breach status and the password
// count. An unknown email status is treated like "not found" and an unknown
// password count like zero, so missing data never raises the level.
package risk
