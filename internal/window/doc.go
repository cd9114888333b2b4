// Package window maintains the reviewer's bounded view onto the pending
// backlog and drives items through their terminal decision.
//
// The Manager owns the only mutable window state: an ordered list of at
// most Capacity pending items mirrored from the item store, the last-known
// server pending total, and the pagination offset for the next pull.
// Retire and backfill are deliberately decoupled: retiring an item never
// fetches its replacement, so the window may run transiently short until
// BackfillIfNeeded or the next stats reconciliation tops it up.
//
// The Scheduler polls the authoritative pending count on an interval tied
// to the reviewer surface lifecycle and backfills drift caused by other
// reviewers. The Controller commits decisions and performs the retire +
// backfill cleanup only after the store confirms them; any failure leaves
// the window untouched. The DetailController fetches single items on
// demand and never mutates the window.
package window
