package macros

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/jmoiron/sqlx"

	"github.com/imneme/mini-sk/internal/dbutil"
)

// SetupDB creates the macro table if it does not exist yet.
func SetupDB(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS macros (
		name TEXT NOT NULL,
		src TEXT NOT NULL,

		PRIMARY KEY(name)
	)`)
	return err
}

// DBStore resolves names against user definitions in the database, falling
// back to base for anything not defined there. User definitions shadow the
// base table.
type DBStore struct {
	db    *sqlx.DB
	base  Resolver
	cache *simplelru.LRU[string, string]
}

func NewDBStore(db *sqlx.DB, base Resolver) (*DBStore, error) {
	cache, err := simplelru.NewLRU[string, string](128, nil)
	if err != nil {
		return nil, err
	}
	return &DBStore{db: db, base: base, cache: cache}, nil
}

func (s *DBStore) Resolve(ctx context.Context, name string) (string, error) {
	if src, ok := s.cache.Get(name); ok {
		return src, nil
	}
	src, err := dbutil.DoTx1(ctx, s.db, func(tx *sqlx.Tx) (string, error) {
		var src string
		err := tx.Get(&src, `SELECT src FROM macros WHERE name = ?`, name)
		return src, err
	})
	switch {
	case err == nil:
		s.cache.Add(name, src)
		return src, nil
	case errors.Is(err, sql.ErrNoRows):
		if s.base == nil {
			return "", ErrNotFound
		}
		return s.base.Resolve(ctx, name)
	default:
		return "", err
	}
}

// Define creates or overwrites the definition of name.
func (s *DBStore) Define(ctx context.Context, name, src string) error {
	if name == "" {
		return fmt.Errorf("macro name cannot be empty")
	}
	for _, c := range name {
		if !isNameChar(c) {
			return fmt.Errorf("bad macro name %q", name)
		}
	}
	s.cache.Remove(name)
	return dbutil.DoTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`INSERT INTO macros (name, src) VALUES (?, ?)
			ON CONFLICT (name) DO UPDATE SET src = excluded.src`, name, src)
		return err
	})
}

// Drop removes the definition of name. Dropping an undefined name is not
// an error.
func (s *DBStore) Drop(ctx context.Context, name string) error {
	s.cache.Remove(name)
	return dbutil.DoTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`DELETE FROM macros WHERE name = ?`, name)
		return err
	})
}

// List returns the user-defined names, sorted.
func (s *DBStore) List(ctx context.Context) ([]string, error) {
	return dbutil.DoTx1(ctx, s.db, func(tx *sqlx.Tx) ([]string, error) {
		var names []string
		err := tx.Select(&names, `SELECT name FROM macros ORDER BY name`)
		return names, err
	})
}

func isNameChar(c rune) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '_':
		return true
	}
	return false
}
