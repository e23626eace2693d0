package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	dbpkg "github.com/varcoaccess/varco/internal/db"
	"github.com/varcoaccess/varco/internal/varco/store"
	"github.com/varcoaccess/varco/internal/varco/store/sqlite"
	"github.com/varcoaccess/varco/internal/varco/types"
)

// openTestStores migrates a fresh in-memory database and wires the full
// store set over a single write worker.  Everything is torn down with the
// test.
func openTestStores(t *testing.T) store.Stores {
	t.Helper()

	conn, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := dbpkg.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	writer := dbpkg.NewWorker(conn)
	t.Cleanup(func() {
		writer.Close()
		conn.Close()
	})

	return store.Stores{
		Gates:          sqlite.NewGateStore(conn, writer),
		Badges:         sqlite.NewBadgeStore(conn, writer),
		Authorizations: sqlite.NewAuthorizationStore(conn, writer),
		Transits:       sqlite.NewTransitStore(conn, writer),
		Users:          sqlite.NewUserStore(conn, writer),
	}
}

func seedUser(t *testing.T, st store.Stores, email string) types.User {
	t.Helper()
	now := time.Now().UTC()
	u := types.User{
		ID:           types.NewID(),
		Email:        email,
		PasswordHash: "x",
		Role:         types.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := st.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func seedGate(t *testing.T, st store.Stores, name string, dpis ...string) types.Gate {
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
		t.Fatalf("seed gate %s: %v", name, err)
	}
	return g
}

func seedBadge(t *testing.T, st store.Stores, userID string) types.Badge {
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
		t.Fatalf("seed badge: %v", err)
	}
	return b
}

func seedTransit(t *testing.T, st store.Stores, gateID, badgeID string, status types.TransitStatus, at time.Time) types.Transit {
	t.Helper()
	tr := types.Transit{
		ID:        types.NewID(),
		GateID:    gateID,
		BadgeID:   badgeID,
		Status:    status,
		CreatedAt: at,
	}
	if err := st.Transits.Create(context.Background(), tr); err != nil {
		t.Fatalf("seed transit: %v", err)
	}
	return tr
}
