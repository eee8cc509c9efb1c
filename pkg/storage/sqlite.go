package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovetools/kakapo/config"
	"github.com/grovetools/kakapo/errors"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLite stores keys in a local sqlite database.
type SQLite struct {
	*sqlStore
	path string
}

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.StorageFailed(config.DriverSQLite, "open", fmt.Errorf("create dirs: %w", err))
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.StorageFailed(config.DriverSQLite, "open", err)
	}
	// A single connection serialises writers.
	db.SetMaxOpenConns(1)
	store, err := newSQLStore(ctx, db, config.DriverSQLite, kvDDL)
	if err != nil {
		return nil, err
	}
	return &SQLite{sqlStore: store, path: path}, nil
}

// Path returns the database file.
func (s *SQLite) Path() string { return s.path }
