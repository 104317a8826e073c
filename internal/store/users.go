package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"pharmacy/m/domain"
)

const selectUser = `SELECT id, username, password_hash, full_name, active, created_at FROM users`

// CreateUser inserts u, assigning an id when it has none.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO users (id, username, password_hash, full_name, active, created_at)
                VALUES (:id, :username, :password_hash, :full_name, :active, :created_at)`, u)
	return mapError("create user", err)
}

// UserByUsername looks a user up by username only; credential checks happen in auth.
func (s *Store) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(selectUser+` WHERE username = ?`), strings.ToLower(strings.TrimSpace(username)))
	return u, mapError("get user", err)
}

// SetUserActive enables or disables a login.
func (s *Store) SetUserActive(ctx context.Context, username string, active bool) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE users SET active = ? WHERE username = ?`), active, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return mapError("update user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mapError("update user", sql.ErrNoRows)
	}
	return nil
}
