package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/grovetools/kakapo/config"
	"github.com/grovetools/kakapo/errors"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const postgresDriverName = "pgx"

// sqlOpen is swapped in tests.
var sqlOpen = sql.Open

// Postgres stores keys in a postgres table.
type Postgres struct {
	*sqlStore
}

// NewPostgres connects with dsn and ensures the kv table exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.StorageFailed(config.DriverPostgres, "open", fmt.Errorf("dsn required"))
	}
	db, err := sqlOpen(postgresDriverName, dsn)
	if err != nil {
		return nil, errors.StorageFailed(config.DriverPostgres, "open", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.StorageFailed(config.DriverPostgres, "ping", err)
	}
	store, err := newSQLStore(ctx, db, config.DriverPostgres, kvDDLPostgres)
	if err != nil {
		return nil, err
	}
	return &Postgres{sqlStore: store}, nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	prev := sqlOpen
	sqlOpen = fn
	return func() { sqlOpen = prev }
}
