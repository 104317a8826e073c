// Package store is the data-access layer: thin sqlx queries over the five tables, plus the
// two multi-statement writes (stock addition and dispensing) that must be atomic.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"pharmacy/m/domain"
)

// Store bundles the database handle used by every query.
type Store struct {
	db *sqlx.DB
}

// New constructs a Store.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for callers that run migrations or seeds.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// mapError translates driver errors into domain sentinels so callers can classify them
// without knowing which database is behind the store.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		case "23503":
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := liteErr.Error()
		switch {
		case strings.Contains(msg, "UNIQUE"), strings.Contains(msg, "PRIMARY KEY"):
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		case strings.Contains(msg, "FOREIGN KEY"):
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func likePattern(query string) string {
	return "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
}
