// Package feed fans task mutations out to connected clients.
//
// The Hub keeps a bounded ring of sequence-numbered events and serves
// owner-filtered long-poll fetches: a client supplies the last sequence it
// saw and either receives pending events immediately or blocks until one
// arrives. Ordering is the publish order of the store's mutations; clients
// re-sort by creation time for display, so the only promise is that every
// change eventually reaches its owner and nobody else.
package feed
