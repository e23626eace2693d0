package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type AuthorizationStore struct {
	mu sync.RWMutex
	// Keyed by badgeID+"\x00"+gateID, the grant's composite identity.
	auths map[string]types.Authorization
}

func NewAuthorizationStore() *AuthorizationStore {
	return &AuthorizationStore{auths: make(map[string]types.Authorization)}
}

func authKey(badgeID, gateID string) string {
	return badgeID + "\x00" + gateID
}

func (s *AuthorizationStore) Get(_ context.Context, badgeID, gateID string) (types.Authorization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.auths[authKey(badgeID, gateID)]
	if !ok {
		return types.Authorization{}, apperr.Newf(apperr.NotFound,
			"no authorization for badge %s at gate %s", badgeID, gateID)
	}
	return a, nil
}

func (s *AuthorizationStore) GetAll(_ context.Context) ([]types.Authorization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Authorization, 0, len(s.auths))
	for _, a := range s.auths {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BadgeID != out[j].BadgeID {
			return out[i].BadgeID < out[j].BadgeID
		}
		return out[i].GateID < out[j].GateID
	})
	return out, nil
}

// Create inserts the grant.  The duplicate check and the insert happen
// under one lock acquisition, so two racing creates for the same pair
// cannot both succeed.
func (s *AuthorizationStore) Create(_ context.Context, a types.Authorization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := authKey(a.BadgeID, a.GateID)
	if _, ok := s.auths[k]; ok {
		return apperr.Newf(apperr.Conflict,
			"authorization for badge %s at gate %s already exists", a.BadgeID, a.GateID)
	}
	s.auths[k] = a
	return nil
}

func (s *AuthorizationStore) Delete(_ context.Context, badgeID, gateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := authKey(badgeID, gateID)
	if _, ok := s.auths[k]; !ok {
		return apperr.Newf(apperr.NotFound,
			"no authorization for badge %s at gate %s", badgeID, gateID)
	}
	delete(s.auths, k)
	return nil
}

// deleteWhere removes every grant matching the predicate.  Cascade helper
// for gate/badge deletion.
func (s *AuthorizationStore) deleteWhere(match func(types.Authorization) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, a := range s.auths {
		if match(a) {
			delete(s.auths, k)
		}
	}
}
