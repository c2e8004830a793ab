// Package lookup performs the outbound HTTP requests made by breachscan.
//
// Every remote call goes through Client, which applies a per-request timeout,
// a User-Agent and a response size limit, and sorts failures into three
// sentinel errors: ErrTransport, ErrUpstream and ErrMalformed. Callers
// decide how each failure degrades; lookup itself never retries.
package lookup
