package daemon

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/grovetools/kakapo/config"
	"github.com/grovetools/kakapo/pkg/actions"
	"github.com/grovetools/kakapo/pkg/catalog"
	"github.com/grovetools/kakapo/pkg/paths"
	"github.com/grovetools/kakapo/pkg/sounds"
	"github.com/grovetools/kakapo/pkg/storage"
	"github.com/sirupsen/logrus"
)

// SocketPath returns the daemon socket from cfg, defaulting to the XDG path.
func SocketPath(cfg *config.Config) string {
	if cfg != nil && cfg.Server.Socket != "" {
		return cfg.Server.Socket
	}
	return paths.SocketPath()
}

// New returns a Client that will use the daemon if available, otherwise a
// LocalClient backed by the configured storage. The local collection is
// restored from the cache; it is only fetched from the catalog on an
// explicit init.
//
// This implements the "transparent daemon" pattern: callers don't need
// to know whether the daemon is running or not.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Entry) (Client, error) {
	socketPath := SocketPath(cfg)
	if _, err := os.Stat(socketPath); err == nil {
		conn, err := net.DialTimeout("unix", socketPath, 100*time.Millisecond)
		if err == nil {
			conn.Close()
			if client, err := NewRemoteClient(socketPath); err == nil {
				return client, nil
			}
		}
	}

	d, st, err := NewDispatcher(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if _, err := d.Bootstrap(ctx); err != nil {
		logger.WithError(err).Warn("Failed to restore sound cache")
	}
	return NewLocalClient(d, st), nil
}

// NewFetcher builds the catalog fetcher described by cfg.
func NewFetcher(cfg *config.Config) (catalog.Fetcher, error) {
	return catalog.WithExclusions(
		catalog.New(cfg.Catalog.URL, cfg.Catalog.TimeoutDuration()),
		cfg.Catalog.Exclude,
	)
}

// NewDispatcher wires storage, the catalog fetcher and a fresh store.
func NewDispatcher(ctx context.Context, cfg *config.Config, logger *logrus.Entry) (*actions.Dispatcher, storage.Storage, error) {
	fetcher, err := NewFetcher(cfg)
	if err != nil {
		return nil, nil, err
	}
	st, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	return actions.New(sounds.New(), fetcher, st, logger), st, nil
}
