// Package transport builds the HTTP clients that carry breach and password
// lookups: direct, through a SOCKS5 proxy, or through an embedded Tor daemon
// managed with tornago.
//
// Routing through a proxy hides the caller's address from the breach
// providers; it does not change what is sent. The email still reaches the
// provider and only the five-character hash prefix reaches the password API.
package transport
