package store

import (
	"context"

	"github.com/varcoaccess/varco/internal/varco/types"
)

// UserStore persists login accounts.  Create returns Conflict for a
// duplicate email.
type UserStore interface {
	Get(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetAll(ctx context.Context) ([]types.User, error)
	Create(ctx context.Context, u types.User) error
	Update(ctx context.Context, u types.User) error
	Delete(ctx context.Context, id string) error
}
