package store

import (
	"context"

	"github.com/varcoaccess/varco/internal/varco/types"
)

// BadgeStore persists badges.  Create enforces the one-badge-per-user
// invariant with a Conflict error.
type BadgeStore interface {
	Get(ctx context.Context, id string) (types.Badge, error)
	GetByUserID(ctx context.Context, userID string) (types.Badge, error)
	GetAll(ctx context.Context) ([]types.Badge, error)
	Create(ctx context.Context, b types.Badge) error
	Update(ctx context.Context, b types.Badge) error
	Delete(ctx context.Context, id string) error
}
