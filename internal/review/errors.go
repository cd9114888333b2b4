package review

import "errors"

// Decision and fetch failures share these markers across the store, the
// HTTP API, and the reviewer client so error semantics survive the wire.
var (
	// ErrNotFound indicates the item no longer exists (or never did).
	ErrNotFound = errors.New("item not found")
	// ErrAlreadyResolved indicates another reviewer reached a terminal
	// decision first; local state should defer to the next reconciliation.
	ErrAlreadyResolved = errors.New("item already resolved")
	// ErrUnavailable indicates a transient transport or server failure;
	// the operation may be retried without local mutation.
	ErrUnavailable = errors.New("item store unavailable")
	// ErrValidation indicates a malformed request that will never succeed.
	ErrValidation = errors.New("validation error")
)

// Wire error codes for the decision endpoint.
const (
	CodeNotFound        = "not_found"
	CodeAlreadyResolved = "already_resolved"
	CodeServerError     = "server_error"
)

// ErrorCode maps an error to its wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAlreadyResolved):
		return CodeAlreadyResolved
	default:
		return CodeServerError
	}
}

// CodeError maps a wire code back to its marker error.
func CodeError(code string) error {
	switch code {
	case CodeNotFound:
		return ErrNotFound
	case CodeAlreadyResolved:
		return ErrAlreadyResolved
	default:
		return ErrUnavailable
	}
}
