package daemon

import (
	"context"

	"github.com/grovetools/kakapo/pkg/actions"
	"github.com/grovetools/kakapo/pkg/sounds"
	"github.com/grovetools/kakapo/pkg/storage"
)

// LocalClient implements Client by running the dispatcher in-process. It is
// used when the daemon is not running.
type LocalClient struct {
	dispatcher *actions.Dispatcher
	storage    storage.Storage
}

// NewLocalClient wraps d. st is closed by Close and may be nil.
func NewLocalClient(d *actions.Dispatcher, st storage.Storage) *LocalClient {
	return &LocalClient{dispatcher: d, storage: st}
}

// Dispatcher returns the wrapped dispatcher.
func (c *LocalClient) Dispatcher() *actions.Dispatcher {
	return c.dispatcher
}

// Sounds returns the in-process collection.
func (c *LocalClient) Sounds(ctx context.Context) (sounds.Snapshot, error) {
	return c.dispatcher.Store().Snapshot(), nil
}

// Dispatch runs cmd directly.
func (c *LocalClient) Dispatch(ctx context.Context, cmd actions.Command) (actions.Action, error) {
	return c.dispatcher.Dispatch(ctx, cmd)
}

// Stream forwards store updates of this process until ctx is done.
func (c *LocalClient) Stream(ctx context.Context) (<-chan Event, error) {
	store := c.dispatcher.Store()
	sub := store.Subscribe()
	out := make(chan Event, 10)

	go func() {
		defer close(out)
		defer store.Unsubscribe(sub)

		out <- Event{Type: EventInitial, Count: store.Len(), Sounds: store.Snapshot().Sounds}
		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-sub:
				if !ok {
					return
				}
				select {
				case out <- EventFromUpdate(u, store.Snapshot):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// IsRunning returns false since this is the local fallback client.
func (c *LocalClient) IsRunning() bool {
	return false
}

// Close releases the storage backend.
func (c *LocalClient) Close() error {
	if c.storage != nil {
		return c.storage.Close()
	}
	return nil
}

var _ Client = (*LocalClient)(nil)
