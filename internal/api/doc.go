// Package api defines wire-format types and the task service used by the HTTP
// and IPC layers. It translates internal task and feed models into
// transport-friendly DTOs so consumers never couple to storage types.
//
// DTOs use camelCase JSON tags for JavaScript/TypeScript consumers and
// RFC3339-millisecond timestamps. The owner identifier never appears in a
// payload: every response is already scoped to the authenticated caller.
package api
