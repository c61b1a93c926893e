// Package identity manages accounts and bearer-token sessions.
//
// User records live in the shared SQLite database (created by the task store's
// migrations) with bcrypt-hashed credentials and case-folded username
// uniqueness. Sessions are in-memory tokens with a configurable TTL; the
// daemon purges expired ones on a maintenance schedule.
package identity
