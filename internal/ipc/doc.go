// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships the
// matching client used by the CLI.
//
// It owns socket lifecycle management and the request/response DTOs for the
// control channel. The control surface stays intentionally small: liveness,
// status, and shutdown. Task traffic goes through the HTTP API instead so
// remote clients and the CLI share one code path.
package ipc
