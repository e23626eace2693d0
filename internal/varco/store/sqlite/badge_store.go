package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	dbpkg "github.com/varcoaccess/varco/internal/db"
	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type BadgeStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewBadgeStore(conn *sql.DB, writer *dbpkg.Worker) *BadgeStore {
	return &BadgeStore{db: conn, writer: writer}
}

const badgeColumns = `badge_id, user_id, status, unauthorized_count, first_unauthorized_at_ms, created_at_ms, updated_at_ms`

func scanBadge(row interface{ Scan(...any) error }) (types.Badge, error) {
	var (
		b         types.Badge
		status    string
		firstMs   sql.NullInt64
		createdMs int64
		updatedMs int64
	)
	if err := row.Scan(&b.ID, &b.UserID, &status, &b.UnauthorizedCount, &firstMs, &createdMs, &updatedMs); err != nil {
		return types.Badge{}, err
	}
	b.Status = types.BadgeStatus(status)
	if firstMs.Valid {
		t := msToTime(firstMs.Int64)
		b.FirstUnauthorizedAt = &t
	}
	b.CreatedAt = msToTime(createdMs)
	b.UpdatedAt = msToTime(updatedMs)
	return b, nil
}

func (s *BadgeStore) Get(ctx context.Context, id string) (types.Badge, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+badgeColumns+` FROM badges WHERE badge_id = ?;`, id)
	b, err := scanBadge(row)
	if err == sql.ErrNoRows {
		return types.Badge{}, apperr.Newf(apperr.NotFound, "badge %s not found", id)
	}
	if err != nil {
		return types.Badge{}, fmt.Errorf("get badge: %w", err)
	}
	return b, nil
}

func (s *BadgeStore) GetByUserID(ctx context.Context, userID string) (types.Badge, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+badgeColumns+` FROM badges WHERE user_id = ?;`, userID)
	b, err := scanBadge(row)
	if err == sql.ErrNoRows {
		return types.Badge{}, apperr.Newf(apperr.NotFound, "no badge for user %s", userID)
	}
	if err != nil {
		return types.Badge{}, fmt.Errorf("get badge by user: %w", err)
	}
	return b, nil
}

func (s *BadgeStore) GetAll(ctx context.Context) ([]types.Badge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+badgeColumns+` FROM badges ORDER BY badge_id;`)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	out := make([]types.Badge, 0)
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *BadgeStore) Create(ctx context.Context, b types.Badge) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO badges(badge_id, user_id, status, unauthorized_count, first_unauthorized_at_ms, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?);`,
			b.ID, b.UserID, string(b.Status), b.UnauthorizedCount,
			nullableMs(b.FirstUnauthorizedAt), timeToMs(b.CreatedAt), timeToMs(b.UpdatedAt))
		if isUniqueViolation(err) {
			// The UNIQUE(user_id) constraint: one badge per user.
			return apperr.Newf(apperr.Conflict, "user %s already has a badge", b.UserID)
		}
		if err != nil {
			return fmt.Errorf("insert badge: %w", err)
		}
		return nil
	})
}

func (s *BadgeStore) Update(ctx context.Context, b types.Badge) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE badges SET status = ?, unauthorized_count = ?, first_unauthorized_at_ms = ?, updated_at_ms = ?
WHERE badge_id = ?;`,
			string(b.Status), b.UnauthorizedCount, nullableMs(b.FirstUnauthorizedAt),
			timeToMs(b.UpdatedAt), b.ID)
		if err != nil {
			return fmt.Errorf("update badge: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.Newf(apperr.NotFound, "badge %s not found", b.ID)
		}
		return nil
	})
}

func (s *BadgeStore) Delete(ctx context.Context, id string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM badges WHERE badge_id = ?;`, id)
		if err != nil {
			return fmt.Errorf("delete badge: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.Newf(apperr.NotFound, "badge %s not found", id)
		}
		return nil
	})
}
