package store

import (
	"context"
	"time"

	"github.com/varcoaccess/varco/internal/varco/types"
)

// TransitStore persists crossing events and serves the filtered range
// queries the aggregation engine runs on.
//
// Range filter semantics (both queries): a zero start means no lower
// bound, a zero end means no upper bound; when both are set the filter is
// an inclusive between on CreatedAt.  Results are ordered by CreatedAt
// ascending so aggregation buckets appear in event order.
type TransitStore interface {
	Get(ctx context.Context, id string) (types.Transit, error)
	GetAll(ctx context.Context) ([]types.Transit, error)
	Create(ctx context.Context, t types.Transit) error
	Update(ctx context.Context, t types.Transit) error
	Delete(ctx context.Context, id string) error

	// FindByBadge returns the badge's transits, optionally narrowed to one
	// gate (empty gateID = all gates) and to a creation-time window.
	FindByBadge(ctx context.Context, badgeID, gateID string, start, end time.Time) ([]types.Transit, error)

	// FindAllInRange returns every transit in the creation-time window.
	FindAllInRange(ctx context.Context, start, end time.Time) ([]types.Transit, error)

	// PruneCreatedBefore deletes transits created before cutoff and
	// returns the number of rows removed.  Used by the retention sweep.
	PruneCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
