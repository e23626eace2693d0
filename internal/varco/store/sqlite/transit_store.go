package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/varcoaccess/varco/internal/db"
	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type TransitStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewTransitStore(conn *sql.DB, writer *dbpkg.Worker) *TransitStore {
	return &TransitStore{db: conn, writer: writer}
}

const transitColumns = `transit_id, gate_id, badge_id, status, used_dpis, dpi_violation, created_at_ms`

func scanTransit(row interface{ Scan(...any) error }) (types.Transit, error) {
	var (
		t         types.Transit
		status    string
		dpis      string
		violation int
		createdMs int64
	)
	if err := row.Scan(&t.ID, &t.GateID, &t.BadgeID, &status, &dpis, &violation, &createdMs); err != nil {
		return types.Transit{}, err
	}
	t.Status = types.TransitStatus(status)
	t.UsedDPIs = types.ParseDPISet(dpis)
	t.DPIViolation = violation != 0
	t.CreatedAt = msToTime(createdMs)
	return t, nil
}

func (s *TransitStore) Get(ctx context.Context, id string) (types.Transit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transitColumns+` FROM transits WHERE transit_id = ?;`, id)
	t, err := scanTransit(row)
	if err == sql.ErrNoRows {
		return types.Transit{}, apperr.Newf(apperr.NotFound, "transit %s not found", id)
	}
	if err != nil {
		return types.Transit{}, fmt.Errorf("get transit: %w", err)
	}
	return t, nil
}

func (s *TransitStore) GetAll(ctx context.Context) ([]types.Transit, error) {
	return s.queryTransits(ctx,
		`SELECT `+transitColumns+` FROM transits ORDER BY created_at_ms, transit_id;`)
}

func (s *TransitStore) Create(ctx context.Context, t types.Transit) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO transits(transit_id, gate_id, badge_id, status, used_dpis, dpi_violation, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?);`,
			t.ID, t.GateID, t.BadgeID, string(t.Status), t.UsedDPIs.Join(),
			boolToInt(t.DPIViolation), timeToMs(t.CreatedAt))
		if isUniqueViolation(err) {
			return apperr.Newf(apperr.Conflict, "transit %s already exists", t.ID)
		}
		if err != nil {
			return fmt.Errorf("insert transit: %w", err)
		}
		return nil
	})
}

// Update rewrites the correctable fields (status, used DPIs, violation
// flag).  Gate, badge, and creation time are immutable.
func (s *TransitStore) Update(ctx context.Context, t types.Transit) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE transits SET status = ?, used_dpis = ?, dpi_violation = ?
WHERE transit_id = ?;`,
			string(t.Status), t.UsedDPIs.Join(), boolToInt(t.DPIViolation), t.ID)
		if err != nil {
			return fmt.Errorf("update transit: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.Newf(apperr.NotFound, "transit %s not found", t.ID)
		}
		return nil
	})
}

func (s *TransitStore) Delete(ctx context.Context, id string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM transits WHERE transit_id = ?;`, id)
		if err != nil {
			return fmt.Errorf("delete transit: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.Newf(apperr.NotFound, "transit %s not found", id)
		}
		return nil
	})
}

// FindByBadge narrows by badge, optionally by gate and creation-time
// window.  Zero times leave that side of the window open; set bounds are
// inclusive.
func (s *TransitStore) FindByBadge(ctx context.Context, badgeID, gateID string, start, end time.Time) ([]types.Transit, error) {
	where := []string{"badge_id = ?"}
	args := []any{badgeID}
	if gateID != "" {
		where = append(where, "gate_id = ?")
		args = append(args, gateID)
	}
	where, args = appendRange(where, args, start, end)

	query := `SELECT ` + transitColumns + ` FROM transits WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at_ms, transit_id;`
	return s.queryTransits(ctx, query, args...)
}

func (s *TransitStore) FindAllInRange(ctx context.Context, start, end time.Time) ([]types.Transit, error) {
	where := []string{"1=1"}
	args := []any{}
	where, args = appendRange(where, args, start, end)

	query := `SELECT ` + transitColumns + ` FROM transits WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at_ms, transit_id;`
	return s.queryTransits(ctx, query, args...)
}

// PruneCreatedBefore deletes transits created strictly before cutoff and
// returns the number of rows removed.  Uses idx_transits_created.
func (s *TransitStore) PruneCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM transits WHERE created_at_ms < ?;`, timeToMs(cutoff))
		if err != nil {
			return fmt.Errorf("prune transits: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}

func (s *TransitStore) queryTransits(ctx context.Context, query string, args ...any) ([]types.Transit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transits: %w", err)
	}
	defer rows.Close()

	out := make([]types.Transit, 0)
	for rows.Next() {
		t, err := scanTransit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transit: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func appendRange(where []string, args []any, start, end time.Time) ([]string, []any) {
	if !start.IsZero() {
		where = append(where, "created_at_ms >= ?")
		args = append(args, timeToMs(start))
	}
	if !end.IsZero() {
		where = append(where, "created_at_ms <= ?")
		args = append(args, timeToMs(end))
	}
	return where, args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
