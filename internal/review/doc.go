// Package review defines the shared data model for content moderation:
// items awaiting a decision, their lifecycle statuses, and the risk
// annotation attached at submission time.
//
// An item enters the system as pending and leaves it through exactly one
// transition to approved or rejected. Both terminal statuses are final;
// every other component treats a second decision attempt as a conflict
// rather than a state change. Risk levels and flagged terms are assigned
// by the classifier when the item is stored and are read-only afterwards.
//
// Keep this package dependency-free so the store, the window manager, and
// the CLI can all share it without import cycles.
package review
