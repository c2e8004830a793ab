package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidTimeout is returned when a lookup timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidPause is returned when the courtesy pause is outside 0.5s..1.5s.
	ErrInvalidPause = errors.New("invalid pause: must be between 500ms and 1.5s")

	// ErrInvalidSourceCap is returned when the source cap is negative.
	ErrInvalidSourceCap = errors.New("invalid source cap: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConflictingRouting is returned when both --tor and --proxy are set.
	ErrConflictingRouting = errors.New("conflicting routing: --tor and --proxy cannot be used together")

	// ErrInvalidMaxInflight is returned when the server concurrency is not positive.
	ErrInvalidMaxInflight = errors.New("invalid max inflight: must be positive")

	// ErrUnknownProvider is returned for a provider name breachscan does not implement.
	ErrUnknownProvider = errors.New("unknown breach provider: must be one of intelx, leakcheck")

	// ErrDuplicateProvider is returned when a provider is listed twice.
	ErrDuplicateProvider = errors.New("duplicate breach provider")

	// ErrNoProviders is returned when every breach provider is disabled.
	ErrNoProviders = errors.New("no breach provider enabled")
)
