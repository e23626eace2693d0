package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	dbpkg "github.com/varcoaccess/varco/internal/db"
	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

type UserStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewUserStore(conn *sql.DB, writer *dbpkg.Worker) *UserStore {
	return &UserStore{db: conn, writer: writer}
}

const userColumns = `user_id, email, password_hash, role, gate_id, credit, created_at_ms, updated_at_ms`

func scanUser(row interface{ Scan(...any) error }) (types.User, error) {
	var (
		u         types.User
		role      string
		gateID    sql.NullString
		createdMs int64
		updatedMs int64
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &gateID, &u.Credit, &createdMs, &updatedMs); err != nil {
		return types.User{}, err
	}
	u.Role = types.Role(role)
	u.GateID = gateID.String
	u.CreatedAt = msToTime(createdMs)
	u.UpdatedAt = msToTime(updatedMs)
	return u, nil
}

func (s *UserStore) Get(ctx context.Context, id string) (types.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = ?;`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return types.User{}, apperr.Newf(apperr.NotFound, "user %s not found", id)
	}
	if err != nil {
		return types.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (types.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?;`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return types.User{}, apperr.Newf(apperr.NotFound, "user %s not found", email)
	}
	if err != nil {
		return types.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetAll(ctx context.Context) ([]types.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY email;`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]types.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *UserStore) Create(ctx context.Context, u types.User) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var gateID any
		if u.GateID != "" {
			gateID = u.GateID
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO users(user_id, email, password_hash, role, gate_id, credit, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
			u.ID, u.Email, u.PasswordHash, string(u.Role), gateID, u.Credit,
			timeToMs(u.CreatedAt), timeToMs(u.UpdatedAt))
		if isUniqueViolation(err) {
			return apperr.Newf(apperr.Conflict, "email %s already registered", u.Email)
		}
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

func (s *UserStore) Update(ctx context.Context, u types.User) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var gateID any
		if u.GateID != "" {
			gateID = u.GateID
		}
		res, err := tx.ExecContext(ctx, `
UPDATE users SET email = ?, password_hash = ?, role = ?, gate_id = ?, credit = ?, updated_at_ms = ?
WHERE user_id = ?;`,
			u.Email, u.PasswordHash, string(u.Role), gateID, u.Credit,
			timeToMs(u.UpdatedAt), u.ID)
		if isUniqueViolation(err) {
			return apperr.Newf(apperr.Conflict, "email %s already registered", u.Email)
		}
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.Newf(apperr.NotFound, "user %s not found", u.ID)
		}
		return nil
	})
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?;`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.Newf(apperr.NotFound, "user %s not found", id)
		}
		return nil
	})
}
