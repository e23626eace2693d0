package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	dbpkg "github.com/varcoaccess/varco/internal/db"
	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type AuthorizationStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAuthorizationStore(conn *sql.DB, writer *dbpkg.Worker) *AuthorizationStore {
	return &AuthorizationStore{db: conn, writer: writer}
}

func (s *AuthorizationStore) Get(ctx context.Context, badgeID, gateID string) (types.Authorization, error) {
	var (
		a         types.Authorization
		createdMs int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT badge_id, gate_id, created_at_ms
FROM authorizations
WHERE badge_id = ? AND gate_id = ?;`, badgeID, gateID).Scan(&a.BadgeID, &a.GateID, &createdMs)
	if err == sql.ErrNoRows {
		return types.Authorization{}, apperr.Newf(apperr.NotFound,
			"no authorization for badge %s at gate %s", badgeID, gateID)
	}
	if err != nil {
		return types.Authorization{}, fmt.Errorf("get authorization: %w", err)
	}
	a.CreatedAt = msToTime(createdMs)
	return a, nil
}

func (s *AuthorizationStore) GetAll(ctx context.Context) ([]types.Authorization, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT badge_id, gate_id, created_at_ms
FROM authorizations
ORDER BY badge_id, gate_id;`)
	if err != nil {
		return nil, fmt.Errorf("list authorizations: %w", err)
	}
	defer rows.Close()

	out := make([]types.Authorization, 0)
	for rows.Next() {
		var (
			a         types.Authorization
			createdMs int64
		)
		if err := rows.Scan(&a.BadgeID, &a.GateID, &createdMs); err != nil {
			return nil, fmt.Errorf("scan authorization: %w", err)
		}
		a.CreatedAt = msToTime(createdMs)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create inserts the grant.  The composite primary key on
// (badge_id, gate_id) makes the duplicate check race-free: when two creates
// race, the loser's insert fails and is reported as a Conflict.
func (s *AuthorizationStore) Create(ctx context.Context, a types.Authorization) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO authorizations(badge_id, gate_id, created_at_ms)
VALUES (?, ?, ?);`, a.BadgeID, a.GateID, timeToMs(a.CreatedAt))
		if isUniqueViolation(err) {
			return apperr.Newf(apperr.Conflict,
				"authorization for badge %s at gate %s already exists", a.BadgeID, a.GateID)
		}
		if err != nil {
			return fmt.Errorf("insert authorization: %w", err)
		}
		return nil
	})
}

func (s *AuthorizationStore) Delete(ctx context.Context, badgeID, gateID string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM authorizations WHERE badge_id = ? AND gate_id = ?;`, badgeID, gateID)
		if err != nil {
			return fmt.Errorf("delete authorization: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.Newf(apperr.NotFound,
				"no authorization for badge %s at gate %s", badgeID, gateID)
		}
		return nil
	})
}
