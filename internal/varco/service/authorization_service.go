package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/store"
	"github.com/varcoaccess/varco/internal/varco/types"
)

// AuthorizationService manages grants (badge ↔ gate) and the role-scoped
// visibility of transit detail.
type AuthorizationService struct {
	gates    store.GateStore
	badges   store.BadgeStore
	auths    store.AuthorizationStore
	transits store.TransitStore
	logger   *slog.Logger
}

func NewAuthorizationService(st store.Stores, logger *slog.Logger) *AuthorizationService {
	return &AuthorizationService{
		gates:    st.Gates,
		badges:   st.Badges,
		auths:    st.Authorizations,
		transits: st.Transits,
		logger:   logger,
	}
}

// Get returns the grant for the pair, NotFound when none exists.
func (s *AuthorizationService) Get(ctx context.Context, badgeID, gateID string) (types.Authorization, error) {
	return s.auths.Get(ctx, badgeID, gateID)
}

// List returns every grant.
func (s *AuthorizationService) List(ctx context.Context) ([]types.Authorization, error) {
	return s.auths.GetAll(ctx)
}

// Create grants the badge access to the gate.  Checks run in a fixed
// order so error messages are deterministic: badge existence, then gate
// existence, then duplicate grant.  The store's unique constraint
// backstops the duplicate check against concurrent creates.
func (s *AuthorizationService) Create(ctx context.Context, badgeID, gateID string) (types.Authorization, error) {
	if _, err := s.badges.Get(ctx, badgeID); err != nil {
		return types.Authorization{}, err
	}
	if _, err := s.gates.Get(ctx, gateID); err != nil {
		return types.Authorization{}, err
	}
	if _, err := s.auths.Get(ctx, badgeID, gateID); err == nil {
		return types.Authorization{}, apperr.Newf(apperr.Conflict,
			"authorization for badge %s at gate %s already exists", badgeID, gateID)
	} else if !apperr.IsKind(err, apperr.NotFound) {
		return types.Authorization{}, err
	}

	a := types.Authorization{
		BadgeID:   badgeID,
		GateID:    gateID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.auths.Create(ctx, a); err != nil {
		return types.Authorization{}, err
	}
	return a, nil
}

// Delete revokes the grant, NotFound when none exists.
func (s *AuthorizationService) Delete(ctx context.Context, badgeID, gateID string) error {
	if _, err := s.auths.Get(ctx, badgeID, gateID); err != nil {
		return err
	}
	return s.auths.Delete(ctx, badgeID, gateID)
}

// VisibleTransit reads a transit on behalf of a viewer:
//
//   - no viewer: Unauthorized, before any lookup
//   - admin: any transit
//   - user: only transits made with the viewer's own badge; any other
//     transit is NotFound rather than Forbidden, so a user cannot probe
//     which transit IDs exist
//   - gate: Unauthorized, devices report transits and never read them
//
// The switch is exhaustive over the closed Role set; anything else falls
// through to Unauthorized.
func (s *AuthorizationService) VisibleTransit(ctx context.Context, viewer *types.Viewer, transitID string) (types.Transit, error) {
	if viewer == nil {
		return types.Transit{}, apperr.New(apperr.Unauthorized, "authentication required")
	}

	switch viewer.Role {
	case types.RoleAdmin:
		return s.transits.Get(ctx, transitID)

	case types.RoleUser:
		t, err := s.transits.Get(ctx, transitID)
		if err != nil {
			return types.Transit{}, err
		}
		b, err := s.badges.Get(ctx, t.BadgeID)
		if err != nil {
			return types.Transit{}, err
		}
		if b.UserID != viewer.ID {
			return types.Transit{}, apperr.Newf(apperr.NotFound, "transit %s not found", transitID)
		}
		return t, nil

	case types.RoleGate:
		return types.Transit{}, apperr.New(apperr.Unauthorized, "gate devices may not read transits")

	default:
		return types.Transit{}, apperr.Newf(apperr.Unauthorized, "unknown role %q", viewer.Role)
	}
}
