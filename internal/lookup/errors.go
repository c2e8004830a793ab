package lookup

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport covers connection errors, timeouts and body read failures.
	ErrTransport = errors.New("transport failure")

	// ErrUpstream is returned when the remote service answers with a non-200 status.
	// The concrete error is an *UpstreamError carrying the status code.
	ErrUpstream = errors.New("upstream error")

	// ErrMalformed is returned when a response body cannot be interpreted.
	ErrMalformed = errors.New("malformed response")
)

// UpstreamError reports an unexpected HTTP status from a remote service.
type UpstreamError struct {
	// StatusCode is the HTTP status returned by the service.
	StatusCode int
}

// Error implements error.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Is makes errors.Is(err, ErrUpstream) match any *UpstreamError.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// Reason returns a short, log-safe description of a lookup failure.
// It never includes response bodies or request URLs, which may contain the
// searched email address.
func Reason(err error) string {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &upstream):
		return fmt.Sprintf("HTTP %d", upstream.StatusCode)
	case errors.Is(err, ErrMalformed):
		return ErrMalformed.Error()
	case errors.Is(err, ErrTransport):
		return ErrTransport.Error()
	default:
		return "unexpected error"
	}
}
