// Package server exposes the credential check over HTTP.
//
// Routes:
//
//	GET  /         embedded web form
//	POST /check    {"email": "...", "password": "..."} -> report.Response
//	GET  /healthz  liveness and version
//	GET  /metrics  Prometheus metrics
//
// Request validation is the only error a client sees: 400 with
// {"error": "Invalid email address"} or {"error": "Password cannot be empty"}.
// Upstream failures never fail a request; they show up as null values in the
// response.
package server
