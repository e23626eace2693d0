package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[string]types.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]types.User)}
}

func (s *UserStore) Get(_ context.Context, id string) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return types.User{}, apperr.Newf(apperr.NotFound, "user %s not found", id)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return types.User{}, apperr.Newf(apperr.NotFound, "user %s not found", email)
}

func (s *UserStore) GetAll(_ context.Context) ([]types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *UserStore) Create(_ context.Context, u types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; ok {
		return apperr.Newf(apperr.Conflict, "user %s already exists", u.ID)
	}
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperr.Newf(apperr.Conflict, "email %s already registered", u.Email)
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *UserStore) Update(_ context.Context, u types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return apperr.Newf(apperr.NotFound, "user %s not found", u.ID)
	}
	s.users[u.ID] = u
	return nil
}

func (s *UserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return apperr.Newf(apperr.NotFound, "user %s not found", id)
	}
	delete(s.users, id)
	return nil
}
