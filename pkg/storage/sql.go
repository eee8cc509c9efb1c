package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	kerrors "github.com/grovetools/kakapo/errors"
)

// sqlStore is the kv table shared by the sqlite and postgres drivers. Both
// accept $N placeholders and ON CONFLICT upserts.
type sqlStore struct {
	db     *sql.DB
	driver string
}

const kvDDL = `CREATE TABLE IF NOT EXISTS kakapo_kv (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL
)`

const kvDDLPostgres = `CREATE TABLE IF NOT EXISTS kakapo_kv (
	key TEXT PRIMARY KEY,
	value BYTEA NOT NULL
)`

func newSQLStore(ctx context.Context, db *sql.DB, driver, ddl string) (*sqlStore, error) {
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()
		return nil, kerrors.StorageFailed(driver, "migrate", fmt.Errorf("create kv table: %w", err))
	}
	return &sqlStore{db: db, driver: driver}, nil
}

func (s *sqlStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kakapo_kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, kerrors.StorageFailed(s.driver, "get", err)
	}
	return value, true, nil
}

func (s *sqlStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kakapo_kv(key, value) VALUES($1, $2) ON CONFLICT(key) DO UPDATE SET value = EXCLUDED.value`,
		key, value)
	if err != nil {
		return kerrors.StorageFailed(s.driver, "set", err)
	}
	return nil
}

func (s *sqlStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kakapo_kv WHERE key = $1`, key); err != nil {
		return kerrors.StorageFailed(s.driver, "remove", err)
	}
	return nil
}

func (s *sqlStore) Close() error   { return s.db.Close() }
func (s *sqlStore) Driver() string { return s.driver }

// DB exposes the underlying handle.
func (s *sqlStore) DB() *sql.DB { return s.db }
