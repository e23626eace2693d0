package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/store"
	"github.com/varcoaccess/varco/internal/varco/types"
)

// Denial reasons carried in the crossing response.  They are not
// persisted; the transit record keeps only the two-valued status plus the
// violation flag.
const (
	ReasonGranted        = "granted"
	ReasonNoGrant        = "no_grant"
	ReasonBadgeSuspended = "badge_suspended"
	ReasonDPIViolation   = "dpi_violation"
)

// SuspensionPolicy controls automatic badge suspension after repeated
// unauthorized attempts.
type SuspensionPolicy struct {
	// Threshold is the number of unauthorized attempts within Window that
	// suspends the badge.  0 disables automatic suspension.
	Threshold int

	// Window is how long the attempt counter keeps accumulating before it
	// resets on the next unauthorized attempt.
	Window time.Duration
}

// TransitService decides and records crossing attempts, and applies admin
// corrections to recorded transits.
type TransitService struct {
	gates    store.GateStore
	badges   store.BadgeStore
	auths    store.AuthorizationStore
	transits store.TransitStore
	policy   SuspensionPolicy
	logger   *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

func NewTransitService(st store.Stores, policy SuspensionPolicy, logger *slog.Logger) *TransitService {
	return &TransitService{
		gates:    st.Gates,
		badges:   st.Badges,
		auths:    st.Authorizations,
		transits: st.Transits,
		policy:   policy,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RecordResult is the crossing decision returned to the gate device.
type RecordResult struct {
	Transit types.Transit `json:"transit"`
	Granted bool          `json:"granted"`
	Reason  string        `json:"reason"`
}

// Record decides one crossing attempt and persists it as a transit.
//
// The attempt is authorized only when a grant exists for the pair, the
// badge is active, and the used DPIs cover the gate's required set.  The
// DPI-violation flag is persisted independently of the outcome so
// aggregation can count violations without re-joining against gates.
func (s *TransitService) Record(ctx context.Context, gateID, badgeID string, usedDPIs types.DPISet) (RecordResult, error) {
	gate, err := s.gates.Get(ctx, gateID)
	if err != nil {
		return RecordResult{}, err
	}
	badge, err := s.badges.Get(ctx, badgeID)
	if err != nil {
		return RecordResult{}, err
	}

	violation := !usedDPIs.Covers(gate.RequiredDPIs)

	granted := true
	reason := ReasonGranted
	switch {
	case badge.Status != types.BadgeActive:
		granted = false
		reason = ReasonBadgeSuspended
	case !s.hasGrant(ctx, badgeID, gateID):
		granted = false
		reason = ReasonNoGrant
	case violation:
		granted = false
		reason = ReasonDPIViolation
	}

	status := types.TransitAuthorized
	if !granted {
		status = types.TransitUnauthorized
	}

	t := types.Transit{
		ID:           types.NewID(),
		GateID:       gateID,
		BadgeID:      badgeID,
		Status:       status,
		UsedDPIs:     usedDPIs,
		DPIViolation: violation,
		CreatedAt:    s.now(),
	}
	if err := s.transits.Create(ctx, t); err != nil {
		return RecordResult{}, err
	}

	if !granted {
		// Counter bookkeeping must not fail the device's decision
		// response.
		s.noteUnauthorized(ctx, badge)
	}

	return RecordResult{Transit: t, Granted: granted, Reason: reason}, nil
}

func (s *TransitService) hasGrant(ctx context.Context, badgeID, gateID string) bool {
	_, err := s.auths.Get(ctx, badgeID, gateID)
	return err == nil
}

// noteUnauthorized advances the badge's unauthorized-attempt counter and
// suspends the badge once the counter reaches the policy threshold within
// the policy window.  An attempt landing after the window restarts the
// counter at 1.
func (s *TransitService) noteUnauthorized(ctx context.Context, badge types.Badge) {
	now := s.now()

	if badge.FirstUnauthorizedAt == nil || now.Sub(*badge.FirstUnauthorizedAt) > s.policy.Window {
		badge.UnauthorizedCount = 1
		badge.FirstUnauthorizedAt = &now
	} else {
		badge.UnauthorizedCount++
	}

	if s.policy.Threshold > 0 && badge.UnauthorizedCount >= s.policy.Threshold {
		if badge.Status == types.BadgeActive {
			s.logger.Warn("suspending badge after repeated unauthorized attempts",
				"badge_id", badge.ID,
				"attempts", badge.UnauthorizedCount,
				"window", s.policy.Window)
		}
		badge.Status = types.BadgeSuspended
	}
	badge.UpdatedAt = now

	if err := s.badges.Update(ctx, badge); err != nil {
		s.logger.Error("unauthorized-attempt bookkeeping failed",
			"badge_id", badge.ID, "err", err)
	}
}

// CorrectionPatch is an admin correction to a recorded transit.  Nil
// fields are left untouched.
type CorrectionPatch struct {
	Status   *types.TransitStatus
	UsedDPIs *types.DPISet
}

// Correct applies an administrative correction.  When the used DPIs
// change, the violation flag is recomputed against the gate's current
// required set.
func (s *TransitService) Correct(ctx context.Context, transitID string, patch CorrectionPatch) (types.Transit, error) {
	t, err := s.transits.Get(ctx, transitID)
	if err != nil {
		return types.Transit{}, err
	}

	if patch.Status != nil {
		switch *patch.Status {
		case types.TransitAuthorized, types.TransitUnauthorized:
			t.Status = *patch.Status
		default:
			return types.Transit{}, apperr.Newf(apperr.BadRequest,
				"invalid transit status %q", *patch.Status)
		}
	}

	if patch.UsedDPIs != nil {
		gate, err := s.gates.Get(ctx, t.GateID)
		if err != nil {
			return types.Transit{}, err
		}
		t.UsedDPIs = *patch.UsedDPIs
		t.DPIViolation = !t.UsedDPIs.Covers(gate.RequiredDPIs)
	}

	if err := s.transits.Update(ctx, t); err != nil {
		return types.Transit{}, err
	}
	return t, nil
}
