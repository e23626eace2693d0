// Package apperr defines the request-semantic error taxonomy shared by the
// services and the HTTP boundary.
//
// These errors describe what the caller did wrong (asked for a missing
// record, duplicated a grant, passed a bad parameter, lacked a role), not
// infrastructure failures.  Storage and I/O errors are wrapped with
// fmt.Errorf("%w") as usual and surface as a generic internal error at the
// boundary; nothing in this package is retried.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a request-semantic failure.
type Kind int

const (
	// NotFound: a referenced gate, badge, grant, or transit does not exist
	// (or is deliberately hidden from this viewer).
	NotFound Kind = iota + 1

	// Conflict: a uniqueness invariant would be violated, e.g. a second
	// grant for the same (badge, gate) pair or a second badge per user.
	Conflict

	// BadRequest: a missing required parameter or an invalid value, e.g.
	// a date range with start after end.
	BadRequest

	// Unauthorized: no viewer identity, or a role that is not permitted
	// to perform the operation.
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case BadRequest:
		return "bad_request"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error is a failure with a machine-checkable Kind and a human-readable
// message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// New returns a kinded error with the given message.
func New(k Kind, msg string) error {
	return &Error{Kind: k, Msg: msg}
}

// Newf returns a kinded error with a formatted message.
func Newf(k Kind, format string, args ...any) error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, unwrapping as needed.
// Returns 0 (no kind) for nil and for non-kinded errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
