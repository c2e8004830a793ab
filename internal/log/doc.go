// Package log provides secure logging built on top of the standard slog
// package.
//
// breachscan handles a password and an email address on every check, so
// the SecureHandler masks:
//   - values under credential-like keys (password, credential, hash, suffix)
//   - values that look like secrets (SHA-1 digests, bearer tokens, API keys)
//   - email addresses anywhere in messages, strings and errors, keeping only
//     the first character and the domain
//
// Even in verbose mode masked values stay masked.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Warn("breach provider skipped", "provider", "intelx", "reason", "HTTP 429")
//
// The same logger is handed to tornago when an embedded Tor daemon is used.
package log
