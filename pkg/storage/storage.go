// Package storage persists the kakapo sound collection in a small key-value
// store. Backends: memory, file (YAML), sqlite, postgres and s3.
package storage

import (
	"context"

	"github.com/grovetools/kakapo/config"
	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/pkg/paths"
	"github.com/grovetools/kakapo/util/pathutil"
)

// Storage is a string-keyed blob store.
type Storage interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
	Driver() string
}

// Open builds the backend selected by cfg.
func Open(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	path, err := pathutil.Expand(cfg.Path)
	if err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case "", config.DriverFile:
		if path == "" {
			path = paths.SoundsFilePath()
		}
		return NewFile(path), nil
	case config.DriverSQLite:
		if path == "" {
			path = paths.SQLitePath()
		}
		return NewSQLite(ctx, path)
	case config.DriverPostgres:
		return NewPostgres(ctx, cfg.DSN)
	case config.DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, errors.StorageUnsupported(cfg.Driver)
	}
}
