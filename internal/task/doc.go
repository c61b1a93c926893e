// Package task persists owner-scoped task records in SQLite and exposes the
// validated mutation operations of the service.
//
// The Store manages database connections, schema migrations, and the four
// operations every surface goes through: Insert, ToggleChecked, Delete, and
// List. Write paths never accept a caller-supplied owner for an existing
// record; ownership is checked against the record before any mutation, and
// ErrNotFound/ErrUnauthorized are kept distinct here even though the API layer
// presents them identically.
//
// Treat this package as the single source of truth for task semantics; when
// record fields change, add a migration under migrations/.
package task
