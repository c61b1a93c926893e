// Package daemon hosts the long-running shortlistd process: the HTTP API
// server, session-resolving auth middleware, startup seeding, maintenance
// scheduling, and single-instance locking.
//
// The daemon owns every shared component (store, account store, session
// manager, feed hub, task service) and wires them together; binaries only
// construct a Daemon and call Start/Stop.
package daemon
