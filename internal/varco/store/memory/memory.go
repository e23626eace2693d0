// Package memory provides in-memory implementations of the store
// interfaces.  It is intended for tests and dev environments.
//
// Each store guards its records with its own mutex and holds check-and-
// insert sequences (duplicate grant, duplicate badge-per-user) under the
// lock, the same guarantee the sqlite backend gets from its unique
// constraints.
package memory

import "github.com/varcoaccess/varco/internal/varco/store"

// New builds the full set of in-memory stores with cascade wiring between
// gates/badges and their dependent grants and transits.
func New() store.Stores {
	auths := NewAuthorizationStore()
	transits := NewTransitStore()
	return store.Stores{
		Gates:          NewGateStore(auths, transits),
		Badges:         NewBadgeStore(auths, transits),
		Authorizations: auths,
		Transits:       transits,
		Users:          NewUserStore(),
	}
}
