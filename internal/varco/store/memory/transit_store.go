package memory

import (
	"context"
	"sync"
	"time"

	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type TransitStore struct {
	mu sync.RWMutex
	// Append-only order is the event order; range queries walk the slice
	// front to back so aggregation sees transits as they happened.
	transits []types.Transit
}

func NewTransitStore() *TransitStore {
	return &TransitStore{}
}

func (s *TransitStore) Get(_ context.Context, id string) (types.Transit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.transits {
		if t.ID == id {
			return t, nil
		}
	}
	return types.Transit{}, apperr.Newf(apperr.NotFound, "transit %s not found", id)
}

func (s *TransitStore) GetAll(_ context.Context) ([]types.Transit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Transit, len(s.transits))
	copy(out, s.transits)
	return out, nil
}

func (s *TransitStore) Create(_ context.Context, t types.Transit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.transits {
		if existing.ID == t.ID {
			return apperr.Newf(apperr.Conflict, "transit %s already exists", t.ID)
		}
	}
	s.transits = append(s.transits, t)
	return nil
}

func (s *TransitStore) Update(_ context.Context, t types.Transit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.transits {
		if existing.ID == t.ID {
			s.transits[i] = t
			return nil
		}
	}
	return apperr.Newf(apperr.NotFound, "transit %s not found", t.ID)
}

func (s *TransitStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.transits {
		if existing.ID == id {
			s.transits = append(s.transits[:i], s.transits[i+1:]...)
			return nil
		}
	}
	return apperr.Newf(apperr.NotFound, "transit %s not found", id)
}

// inRange applies the inclusive window filter; zero bounds are open.
func inRange(t types.Transit, start, end time.Time) bool {
	if !start.IsZero() && t.CreatedAt.Before(start) {
		return false
	}
	if !end.IsZero() && t.CreatedAt.After(end) {
		return false
	}
	return true
}

func (s *TransitStore) FindByBadge(_ context.Context, badgeID, gateID string, start, end time.Time) ([]types.Transit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Transit, 0)
	for _, t := range s.transits {
		if t.BadgeID != badgeID {
			continue
		}
		if gateID != "" && t.GateID != gateID {
			continue
		}
		if !inRange(t, start, end) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *TransitStore) FindAllInRange(_ context.Context, start, end time.Time) ([]types.Transit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Transit, 0)
	for _, t := range s.transits {
		if inRange(t, start, end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TransitStore) PruneCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.transits[:0]
	var deleted int64
	for _, t := range s.transits {
		if t.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	s.transits = kept
	return deleted, nil
}

// deleteWhere removes every transit matching the predicate.  Cascade helper
// for gate/badge deletion.
func (s *TransitStore) deleteWhere(match func(types.Transit) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.transits[:0]
	for _, t := range s.transits {
		if !match(t) {
			kept = append(kept, t)
		}
	}
	s.transits = kept
}
