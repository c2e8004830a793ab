// Package config provides configuration structures and utilities for
// breachscan: lookup timeouts, the courtesy pause, breach provider order,
// outbound routing, report output, history and server settings.
//
// Values are resolved in three layers: built-in defaults (NewConfig or
// NewServeConfig), the optional YAML file (.breachscan), and command-line
// flags.
package config
