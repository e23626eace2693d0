package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/store/memory"
	"github.com/varcoaccess/varco/internal/varco/types"
)

func TestBadgeCreate_OnePerUser(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	if err := st.Badges.Create(ctx, types.Badge{ID: "b1", UserID: "u1"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := st.Badges.Create(ctx, types.Badge{ID: "b2", UserID: "u1"})
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("expected Conflict for a second badge on the same user, got %v", err)
	}
}

func TestAuthorizationCreate_DuplicatePair_Conflict(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	a := types.Authorization{BadgeID: "b1", GateID: "g1", CreatedAt: time.Now().UTC()}
	if err := st.Authorizations.Create(ctx, a); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := st.Authorizations.Create(ctx, a); !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}
}

func TestGateDelete_CascadesToGrantsAndTransits(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	if err := st.Gates.Create(ctx, types.Gate{ID: "g1", Name: "north-gate"}); err != nil {
		t.Fatalf("create gate: %v", err)
	}
	if err := st.Badges.Create(ctx, types.Badge{ID: "b1", UserID: "u1"}); err != nil {
		t.Fatalf("create badge: %v", err)
	}
	if err := st.Authorizations.Create(ctx, types.Authorization{BadgeID: "b1", GateID: "g1"}); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := st.Transits.Create(ctx, types.Transit{ID: "t1", GateID: "g1", BadgeID: "b1"}); err != nil {
		t.Fatalf("create transit: %v", err)
	}

	if err := st.Gates.Delete(ctx, "g1"); err != nil {
		t.Fatalf("delete gate: %v", err)
	}

	if _, err := st.Authorizations.Get(ctx, "b1", "g1"); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected grant gone with the gate, got %v", err)
	}
	if _, err := st.Transits.Get(ctx, "t1"); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected transit gone with the gate, got %v", err)
	}
}

func TestBadgeDelete_CascadesToGrantsAndTransits(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	if err := st.Gates.Create(ctx, types.Gate{ID: "g1", Name: "north-gate"}); err != nil {
		t.Fatalf("create gate: %v", err)
	}
	if err := st.Badges.Create(ctx, types.Badge{ID: "b1", UserID: "u1"}); err != nil {
		t.Fatalf("create badge: %v", err)
	}
	if err := st.Authorizations.Create(ctx, types.Authorization{BadgeID: "b1", GateID: "g1"}); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := st.Transits.Create(ctx, types.Transit{ID: "t1", GateID: "g1", BadgeID: "b1"}); err != nil {
		t.Fatalf("create transit: %v", err)
	}

	if err := st.Badges.Delete(ctx, "b1"); err != nil {
		t.Fatalf("delete badge: %v", err)
	}

	if _, err := st.Authorizations.Get(ctx, "b1", "g1"); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected grant gone with the badge, got %v", err)
	}
	if _, err := st.Transits.Get(ctx, "t1"); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected transit gone with the badge, got %v", err)
	}
}

func TestTransitFindByBadge_OrderAndBounds(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"t1", "t2", "t3"} {
		tr := types.Transit{
			ID: id, GateID: "g1", BadgeID: "b1",
			Status:    types.TransitAuthorized,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := st.Transits.Create(ctx, tr); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	got, err := st.Transits.FindByBadge(ctx, "b1", "", base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected inclusive bounds to keep 2 transits, got %d", len(got))
	}
	if got[0].ID != "t1" || got[1].ID != "t2" {
		t.Errorf("expected event order [t1 t2], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestUserGetByEmail_CaseInsensitive(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	if err := st.Users.Create(ctx, types.User{ID: "u1", Email: "worker@varco.local"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := st.Users.GetByEmail(ctx, "Worker@VARCO.local")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("expected u1, got %s", got.ID)
	}
}
