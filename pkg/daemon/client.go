// Package daemon provides a client for the kakapo daemon (kakapod).
// It implements a transparent fallback pattern: if the daemon is running, use
// its HTTP API over the unix socket; if not, run the dispatcher in-process.
package daemon

import (
	"context"
	"time"

	"github.com/grovetools/kakapo/pkg/actions"
	"github.com/grovetools/kakapo/pkg/models"
	"github.com/grovetools/kakapo/pkg/sounds"
)

// Client defines the interface for interacting with the sound collection.
// Both RemoteClient (daemon) and LocalClient (in-process) implement it.
type Client interface {
	// Sounds returns the current collection.
	Sounds(ctx context.Context) (sounds.Snapshot, error)

	// Dispatch runs one command and returns its descriptor.
	Dispatch(ctx context.Context, cmd actions.Command) (actions.Action, error)

	// Stream subscribes to collection updates. The channel is closed when
	// ctx is cancelled or the connection is lost.
	Stream(ctx context.Context) (<-chan Event, error)

	// IsRunning returns true if the daemon is available and responding.
	IsRunning() bool

	// Close cleans up any resources used by the client.
	Close() error
}

// Event types beyond the store update kinds.
const (
	EventInitial      = "initial"
	EventConfigReload = "config_reload"
)

// Event is pushed to stream subscribers.
type Event struct {
	Type  string        `json:"type"`
	ID    string        `json:"id,omitempty"`
	Count int           `json:"count"`
	Sound *models.Sound `json:"sound,omitempty"`
	// Sounds carries the whole collection for initial, received, hydrated and
	// reset events.
	Sounds     []models.Sound `json:"sounds,omitempty"`
	ConfigFile string         `json:"config_file,omitempty"`
}

// EventFromUpdate converts a store update. Whole-collection updates are
// filled from snapshot.
func EventFromUpdate(u sounds.Update, snapshot func() sounds.Snapshot) Event {
	ev := Event{Type: string(u.Type), ID: u.ID, Count: u.Count, Sound: u.Sound}
	switch u.Type {
	case sounds.UpdateReceived, sounds.UpdateHydrated, sounds.UpdateReset:
		ev.Sounds = snapshot().Sounds
	}
	return ev
}

// RunningConfig describes the daemon's active settings. Served at /api/config.
type RunningConfig struct {
	Socket         string    `json:"socket"`
	Listen         string    `json:"listen,omitempty"`
	CatalogURL     string    `json:"catalog_url"`
	StorageDriver  string    `json:"storage_driver"`
	SchemaVersion  string    `json:"schema_version"`
	Version        string    `json:"version"`
	StartedAt      time.Time `json:"started_at"`
	ConfigReloaded time.Time `json:"config_reloaded,omitempty"`
}
