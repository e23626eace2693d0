// Package store defines the persistence gateway: per-record-kind read/write
// interfaces implemented by the memory and sqlite backends.
//
// Conventions shared by all implementations:
//   - Get on a missing record returns an apperr.NotFound error, never
//     (nil, nil).
//   - Create that would break a uniqueness invariant returns
//     apperr.Conflict.
//   - Range queries return an empty slice for an empty window; an empty
//     result set is a valid outcome, not a failure.
package store

// Stores bundles one implementation of every store interface.  The
// composition root builds it once and hands slices of it to the services.
type Stores struct {
	Gates          GateStore
	Badges         BadgeStore
	Authorizations AuthorizationStore
	Transits       TransitStore
	Users          UserStore
}
