package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/varcoaccess/varco/internal/varco/store"
	"github.com/varcoaccess/varco/internal/varco/store/memory"
	"github.com/varcoaccess/varco/internal/varco/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStores() store.Stores { return memory.New() }

func mustCreateGate(t *testing.T, st store.Stores, name string, dpis ...string) types.Gate {
	t.Helper()
	now := time.Now().UTC()
	g := types.Gate{
		ID:           types.NewID(),
		Name:         name,
		RequiredDPIs: types.NewDPISet(dpis...),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := st.Gates.Create(context.Background(), g); err != nil {
		t.Fatalf("create gate %s: %v", name, err)
	}
	return g
}

func mustCreateBadge(t *testing.T, st store.Stores, userID string) types.Badge {
	t.Helper()
	now := time.Now().UTC()
	b := types.Badge{
		ID:        types.NewID(),
		UserID:    userID,
		Status:    types.BadgeActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := st.Badges.Create(context.Background(), b); err != nil {
		t.Fatalf("create badge for user %s: %v", userID, err)
	}
	return b
}

func mustCreateTransit(t *testing.T, st store.Stores, tr types.Transit) types.Transit {
	t.Helper()
	if tr.ID == "" {
		tr.ID = types.NewID()
	}
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = time.Now().UTC()
	}
	if err := st.Transits.Create(context.Background(), tr); err != nil {
		t.Fatalf("create transit: %v", err)
	}
	return tr
}
