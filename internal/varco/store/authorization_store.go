package store

import (
	"context"

	"github.com/varcoaccess/varco/internal/varco/types"
)

// AuthorizationStore persists grants.  A grant's identity is the
// (badgeID, gateID) pair; Create returns Conflict for a duplicate pair.
//
// The uniqueness invariant must hold under concurrent creates: the sqlite
// implementation relies on the composite primary key (two racing inserts
// cannot both commit), the memory implementation holds its mutex across
// check-and-insert.
type AuthorizationStore interface {
	Get(ctx context.Context, badgeID, gateID string) (types.Authorization, error)
	GetAll(ctx context.Context) ([]types.Authorization, error)
	Create(ctx context.Context, a types.Authorization) error
	Delete(ctx context.Context, badgeID, gateID string) error
}
