// Package daemon runs the modqd item store service: it owns the SQLite
// backed review store, serves the HTTP API that reviewer clients page
// against, and uses a file lock to keep a single instance per data
// directory.
package daemon
