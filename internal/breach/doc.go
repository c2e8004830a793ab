// Package breach looks up an email address at third-party breach search
// providers.
//
// Providers are asked in a fixed priority order. Each one returns an
// Outcome that is either conclusive (found or not found) or skipped
// (transport failure, upstream error, malformed payload). The Probe stops at
// the first conclusive outcome; when every provider is skipped the result is
// unknown, never "not found".
package breach
