// Package main hosts the modq CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into HTTP
// calls against the modqd item store: interactive review sessions, one-shot
// decisions, queue listings, story submission, and configuration
// scaffolding. It centralizes configuration resolution and client
// construction so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
