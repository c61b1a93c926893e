// Package client wraps the daemon's HTTP API for CLI and programmatic use.
//
// It mirrors the API surface one to one and surfaces non-2xx responses as
// APIError values carrying the server's message. The underlying HTTP client
// has no timeout because feed fetches in wait mode block until the caller's
// context ends.
package client
