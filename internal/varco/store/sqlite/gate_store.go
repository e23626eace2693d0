package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	dbpkg "github.com/varcoaccess/varco/internal/db"
	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type GateStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewGateStore(conn *sql.DB, writer *dbpkg.Worker) *GateStore {
	return &GateStore{db: conn, writer: writer}
}

const gateColumns = `gate_id, name, required_dpis, created_at_ms, updated_at_ms`

func scanGate(row interface{ Scan(...any) error }) (types.Gate, error) {
	var (
		g         types.Gate
		dpis      string
		createdMs int64
		updatedMs int64
	)
	if err := row.Scan(&g.ID, &g.Name, &dpis, &createdMs, &updatedMs); err != nil {
		return types.Gate{}, err
	}
	g.RequiredDPIs = types.ParseDPISet(dpis)
	g.CreatedAt = msToTime(createdMs)
	g.UpdatedAt = msToTime(updatedMs)
	return g, nil
}

func (s *GateStore) Get(ctx context.Context, id string) (types.Gate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+gateColumns+` FROM gates WHERE gate_id = ?;`, id)
	g, err := scanGate(row)
	if err == sql.ErrNoRows {
		return types.Gate{}, apperr.Newf(apperr.NotFound, "gate %s not found", id)
	}
	if err != nil {
		return types.Gate{}, fmt.Errorf("get gate: %w", err)
	}
	return g, nil
}

func (s *GateStore) GetByName(ctx context.Context, name string) (types.Gate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+gateColumns+` FROM gates WHERE name = ?;`, name)
	g, err := scanGate(row)
	if err == sql.ErrNoRows {
		return types.Gate{}, apperr.Newf(apperr.NotFound, "gate named %q not found", name)
	}
	if err != nil {
		return types.Gate{}, fmt.Errorf("get gate by name: %w", err)
	}
	return g, nil
}

func (s *GateStore) GetAll(ctx context.Context) ([]types.Gate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+gateColumns+` FROM gates ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("list gates: %w", err)
	}
	defer rows.Close()

	out := make([]types.Gate, 0)
	for rows.Next() {
		g, err := scanGate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gate: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *GateStore) Create(ctx context.Context, g types.Gate) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO gates(gate_id, name, required_dpis, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?);`,
			g.ID, g.Name, g.RequiredDPIs.Join(), timeToMs(g.CreatedAt), timeToMs(g.UpdatedAt))
		if isUniqueViolation(err) {
			return apperr.Newf(apperr.Conflict, "gate named %q already exists", g.Name)
		}
		if err != nil {
			return fmt.Errorf("insert gate: %w", err)
		}
		return nil
	})
}

func (s *GateStore) Update(ctx context.Context, g types.Gate) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE gates SET name = ?, required_dpis = ?, updated_at_ms = ?
WHERE gate_id = ?;`,
			g.Name, g.RequiredDPIs.Join(), timeToMs(g.UpdatedAt), g.ID)
		if isUniqueViolation(err) {
			return apperr.Newf(apperr.Conflict, "gate named %q already exists", g.Name)
		}
		if err != nil {
			return fmt.Errorf("update gate: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.Newf(apperr.NotFound, "gate %s not found", g.ID)
		}
		return nil
	})
}

// Delete removes the gate; the ON DELETE CASCADE actions on authorizations
// and transits remove the dependents in the same transaction.
func (s *GateStore) Delete(ctx context.Context, id string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM gates WHERE gate_id = ?;`, id)
		if err != nil {
			return fmt.Errorf("delete gate: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.Newf(apperr.NotFound, "gate %s not found", id)
		}
		return nil
	})
}
