package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type BadgeStore struct {
	mu       sync.RWMutex
	badges   map[string]types.Badge
	auths    *AuthorizationStore
	transits *TransitStore
}

func NewBadgeStore(auths *AuthorizationStore, transits *TransitStore) *BadgeStore {
	return &BadgeStore{
		badges:   make(map[string]types.Badge),
		auths:    auths,
		transits: transits,
	}
}

func (s *BadgeStore) Get(_ context.Context, id string) (types.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.badges[id]
	if !ok {
		return types.Badge{}, apperr.Newf(apperr.NotFound, "badge %s not found", id)
	}
	return b, nil
}

func (s *BadgeStore) GetByUserID(_ context.Context, userID string) (types.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.badges {
		if b.UserID == userID {
			return b, nil
		}
	}
	return types.Badge{}, apperr.Newf(apperr.NotFound, "no badge for user %s", userID)
}

func (s *BadgeStore) GetAll(_ context.Context) ([]types.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Badge, 0, len(s.badges))
	for _, b := range s.badges {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *BadgeStore) Create(_ context.Context, b types.Badge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.badges[b.ID]; ok {
		return apperr.Newf(apperr.Conflict, "badge %s already exists", b.ID)
	}
	for _, existing := range s.badges {
		if existing.UserID == b.UserID {
			return apperr.Newf(apperr.Conflict, "user %s already has a badge", b.UserID)
		}
	}
	s.badges[b.ID] = b
	return nil
}

func (s *BadgeStore) Update(_ context.Context, b types.Badge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.badges[b.ID]; !ok {
		return apperr.Newf(apperr.NotFound, "badge %s not found", b.ID)
	}
	s.badges[b.ID] = b
	return nil
}

// Delete removes the badge and cascades to its grants and transits.
func (s *BadgeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.badges[id]; !ok {
		return apperr.Newf(apperr.NotFound, "badge %s not found", id)
	}
	delete(s.badges, id)

	s.auths.deleteWhere(func(a types.Authorization) bool { return a.BadgeID == id })
	s.transits.deleteWhere(func(t types.Transit) bool { return t.BadgeID == id })
	return nil
}
