package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type GateStore struct {
	mu       sync.RWMutex
	gates    map[string]types.Gate
	auths    *AuthorizationStore
	transits *TransitStore
}

func NewGateStore(auths *AuthorizationStore, transits *TransitStore) *GateStore {
	return &GateStore{
		gates:    make(map[string]types.Gate),
		auths:    auths,
		transits: transits,
	}
}

func (s *GateStore) Get(_ context.Context, id string) (types.Gate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.gates[id]
	if !ok {
		return types.Gate{}, apperr.Newf(apperr.NotFound, "gate %s not found", id)
	}
	return g, nil
}

func (s *GateStore) GetByName(_ context.Context, name string) (types.Gate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.gates {
		if g.Name == name {
			return g, nil
		}
	}
	return types.Gate{}, apperr.Newf(apperr.NotFound, "gate named %q not found", name)
}

func (s *GateStore) GetAll(_ context.Context) ([]types.Gate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Gate, 0, len(s.gates))
	for _, g := range s.gates {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *GateStore) Create(_ context.Context, g types.Gate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.gates[g.ID]; ok {
		return apperr.Newf(apperr.Conflict, "gate %s already exists", g.ID)
	}
	for _, existing := range s.gates {
		if existing.Name == g.Name {
			return apperr.Newf(apperr.Conflict, "gate named %q already exists", g.Name)
		}
	}
	s.gates[g.ID] = g
	return nil
}

func (s *GateStore) Update(_ context.Context, g types.Gate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.gates[g.ID]; !ok {
		return apperr.Newf(apperr.NotFound, "gate %s not found", g.ID)
	}
	for _, existing := range s.gates {
		if existing.Name == g.Name && existing.ID != g.ID {
			return apperr.Newf(apperr.Conflict, "gate named %q already exists", g.Name)
		}
	}
	s.gates[g.ID] = g
	return nil
}

// Delete removes the gate and cascades to its grants and transits, matching
// the FK actions of the sqlite schema.
func (s *GateStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.gates[id]; !ok {
		return apperr.Newf(apperr.NotFound, "gate %s not found", id)
	}
	delete(s.gates, id)

	s.auths.deleteWhere(func(a types.Authorization) bool { return a.GateID == id })
	s.transits.deleteWhere(func(t types.Transit) bool { return t.GateID == id })
	return nil
}
