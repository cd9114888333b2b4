// Package itemstore defines the review API consumed by the reviewer
// surface: paginated pending listing, authoritative pending totals,
// per-item fetch, and decision submission.
//
// It owns the wire DTOs shared between the daemon's HTTP handlers and the
// CLI client, plus the HTTP client implementation with its error mapping.
// Transport failures surface as review.ErrUnavailable while decision
// conflicts map back to review.ErrAlreadyResolved / review.ErrNotFound,
// so callers reason about one error vocabulary on both sides of the wire.
package itemstore
