// Package store persists review items in SQLite and enforces their
// lifecycle on the server side.
//
// The Store manages database connections, schema initialization, oldest-first
// pending pagination, decision transitions, stats queries, and database
// health diagnostics. Decisions are applied with a guarded UPDATE so the
// pending-to-terminal transition happens exactly once no matter how many
// reviewers race on the same item; the loser receives an already-resolved
// conflict instead of overwriting the first decision.
//
// Pending items are ordered by submission time with the item id as a
// tiebreak, which keeps offset-based pagination stable across calls.
// Schema changes bump the version in schema.go; users clear the database
// to adopt the new schema.
package store
