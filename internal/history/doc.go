// Package history stores check verdicts in a local SQLite database
// (modernc.org/sqlite, no cgo) so that "breachscan history" can list and
// summarize past checks.
//
// Only outcomes are kept: breach status, source count, corpus count and
// risk level. Email addresses, passwords and hashes are never written.
// Recording is opt-in through --save or the history.enabled config key.
package history
