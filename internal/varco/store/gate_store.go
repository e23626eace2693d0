package store

import (
	"context"

	"github.com/varcoaccess/varco/internal/varco/types"
)

// GateStore persists gates.  Delete cascades to the gate's authorizations
// and transits (enforced by FK actions in sqlite, mirrored manually in
// memory).
type GateStore interface {
	Get(ctx context.Context, id string) (types.Gate, error)
	GetByName(ctx context.Context, name string) (types.Gate, error)
	GetAll(ctx context.Context) ([]types.Gate, error)
	Create(ctx context.Context, g types.Gate) error
	Update(ctx context.Context, g types.Gate) error
	Delete(ctx context.Context, id string) error
}
