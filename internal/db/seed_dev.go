package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Fixed IDs so repeated dev seeding stays idempotent.
const (
	seedAdminID  = "11111111-0000-0000-0000-000000000001"
	seedUserID   = "11111111-0000-0000-0000-000000000002"
	seedDeviceID = "11111111-0000-0000-0000-000000000003"
	seedGateID   = "22222222-0000-0000-0000-000000000001"
	seedBadgeID  = "33333333-0000-0000-0000-000000000001"
)

type SeedDevOptions struct {
	AdminEmail    string // default admin@varco.local
	AdminPassword string // default admin
}

// SeedDev populates a dev database with an admin account, a demo worker
// with a badge, a gate (with its device account), and a grant for the
// badge at the gate.  Safe to run repeatedly.
func SeedDev(ctx context.Context, conn *sql.DB, opt SeedDevOptions) error {
	if opt.AdminEmail == "" {
		opt.AdminEmail = "admin@varco.local"
	}
	if opt.AdminPassword == "" {
		opt.AdminPassword = "admin"
	}

	now := time.Now().UTC().UnixMilli()

	adminHash, err := bcrypt.GenerateFromPassword([]byte(opt.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	demoHash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	if _, err := conn.ExecContext(ctx, `
INSERT OR IGNORE INTO users(user_id, email, password_hash, role, credit, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, 'admin', 0, ?, ?);`,
		seedAdminID, opt.AdminEmail, string(adminHash), now, now); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if _, err := conn.ExecContext(ctx, `
INSERT OR IGNORE INTO gates(gate_id, name, required_dpis, created_at_ms, updated_at_ms)
VALUES (?, 'Main Gate', 'helmet,vest', ?, ?);`,
		seedGateID, now, now); err != nil {
		return fmt.Errorf("seed gate: %w", err)
	}

	// Device account for the seeded gate.
	if _, err := conn.ExecContext(ctx, `
INSERT OR IGNORE INTO users(user_id, email, password_hash, role, gate_id, credit, created_at_ms, updated_at_ms)
VALUES (?, 'main-gate@varco.local', ?, 'gate', ?, 0, ?, ?);`,
		seedDeviceID, string(demoHash), seedGateID, now, now); err != nil {
		return fmt.Errorf("seed gate device: %w", err)
	}

	if _, err := conn.ExecContext(ctx, `
INSERT OR IGNORE INTO users(user_id, email, password_hash, role, credit, created_at_ms, updated_at_ms)
VALUES (?, 'worker@varco.local', ?, 'user', 0, ?, ?);`,
		seedUserID, string(demoHash), now, now); err != nil {
		return fmt.Errorf("seed worker: %w", err)
	}

	if _, err := conn.ExecContext(ctx, `
INSERT OR IGNORE INTO badges(badge_id, user_id, status, unauthorized_count, created_at_ms, updated_at_ms)
VALUES (?, ?, 'active', 0, ?, ?);`,
		seedBadgeID, seedUserID, now, now); err != nil {
		return fmt.Errorf("seed badge: %w", err)
	}

	if _, err := conn.ExecContext(ctx, `
INSERT OR IGNORE INTO authorizations(badge_id, gate_id, created_at_ms)
VALUES (?, ?, ?);`,
		seedBadgeID, seedGateID, now); err != nil {
		return fmt.Errorf("seed authorization: %w", err)
	}

	return nil
}
