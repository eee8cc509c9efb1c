package actions

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/logging"
	"github.com/grovetools/kakapo/pkg/catalog"
	"github.com/grovetools/kakapo/pkg/models"
	"github.com/grovetools/kakapo/pkg/sounds"
	"github.com/grovetools/kakapo/pkg/storage"
	"github.com/sirupsen/logrus"
)

// persistTimeout bounds a single write of the collection after a mutation.
const persistTimeout = 5 * time.Second

// Dispatcher applies operations to a Store, persists the result and reports
// an Action per call.
type Dispatcher struct {
	store   *sounds.Store
	storage storage.Storage
	logger  *logrus.Entry

	fetcherMu sync.RWMutex
	fetcher   catalog.Fetcher

	initPending atomic.Bool

	// persistMu serializes snapshot and write so an older snapshot never
	// lands after a newer one.
	persistMu sync.Mutex

	obsMu     sync.RWMutex
	observers []Observer
}

// New wires a dispatcher. storage may be nil to skip persistence; a nil logger
// falls back to the "kakapo-actions" component logger.
func New(store *sounds.Store, fetcher catalog.Fetcher, st storage.Storage, logger *logrus.Entry) *Dispatcher {
	if logger == nil {
		logger = logging.NewLogger("kakapo-actions")
	}
	return &Dispatcher{
		store:   store,
		fetcher: fetcher,
		storage: st,
		logger:  logger,
	}
}

// Store returns the collection the dispatcher mutates.
func (d *Dispatcher) Store() *sounds.Store {
	return d.store
}

// SetFetcher swaps the catalog source used by later Init calls.
func (d *Dispatcher) SetFetcher(f catalog.Fetcher) {
	d.fetcherMu.Lock()
	defer d.fetcherMu.Unlock()
	d.fetcher = f
}

// Observe registers fn to run after every operation.
func (d *Dispatcher) Observe(fn Observer) {
	d.obsMu.Lock()
	defer d.obsMu.Unlock()
	d.observers = append(d.observers, fn)
}

// Init fetches the catalog and replaces the collection with it. The fetch is
// the only blocking step and runs without holding the store lock. A second
// Init while one is in flight fails with INIT_PENDING. On fetch failure the
// collection is left untouched.
func (d *Dispatcher) Init(ctx context.Context) (Action, error) {
	if !d.initPending.CompareAndSwap(false, true) {
		err := errors.InitPending()
		d.notify(Action{Type: TypeReceived}, err)
		return Action{}, err
	}
	defer d.initPending.Store(false)
	return d.init(ctx)
}

// InitAsync runs Init in the background. The pending check happens before it
// returns, so a rejected call delivers its error immediately.
func (d *Dispatcher) InitAsync(ctx context.Context) <-chan InitResult {
	out := make(chan InitResult, 1)
	if !d.initPending.CompareAndSwap(false, true) {
		err := errors.InitPending()
		d.notify(Action{Type: TypeReceived}, err)
		out <- InitResult{Err: err}
		close(out)
		return out
	}
	go func() {
		defer close(out)
		defer d.initPending.Store(false)
		action, err := d.init(ctx)
		out <- InitResult{Action: action, Err: err}
	}()
	return out
}

// InitPending reports whether an Init is in flight.
func (d *Dispatcher) InitPending() bool {
	return d.initPending.Load()
}

func (d *Dispatcher) init(ctx context.Context) (Action, error) {
	d.fetcherMu.RLock()
	fetcher := d.fetcher
	d.fetcherMu.RUnlock()

	start := time.Now()
	records, err := fetcher.Fetch(ctx)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.FetchFailed("catalog", err)
		}
		d.logger.WithError(err).Warn("Sound catalog fetch failed")
		d.notify(Action{Type: TypeReceived}, err)
		return Action{}, err
	}
	received := len(records)
	records = catalog.Normalize(records)
	if dropped := received - len(records); dropped > 0 {
		d.logger.WithField("duplicates", dropped).Warn("Catalog repeats sound ids, later records win")
	}

	_, size := d.store.Init(records)
	d.persist(true)

	action := Action{Type: TypeReceived, Count: len(records), Found: true}
	d.logger.WithFields(logrus.Fields{
		"received": received,
		"size":     size,
		"duration": time.Since(start).String(),
	}).Info("Sound catalog received")
	d.notify(action, nil)
	return action, nil
}

// Play toggles playback of id.
func (d *Dispatcher) Play(id string) Action {
	snd, found := d.store.Play(id)
	return d.finish(Action{Type: TypePlay, ID: id}, snd, found)
}

// Volume sets the volume of id, clamped into [0,1]. The payload carries the
// applied volume, never the raw input.
func (d *Dispatcher) Volume(id string, value float64) Action {
	snd, found := d.store.Volume(id, value)
	applied := models.Clamp(value)
	if found {
		applied = snd.Volume
	}
	return d.finish(Action{Type: TypeVolume, ID: id, Payload: applied}, snd, found)
}

// Edit merges patch into id.
func (d *Dispatcher) Edit(id string, patch models.Patch) Action {
	patch = patch.Normalized()
	snd, found := d.store.Edit(id, patch)
	return d.finish(Action{Type: TypeEdit, ID: id, Payload: patch}, snd, found)
}

// Remove deletes id. Removing an absent id reports Found=false.
func (d *Dispatcher) Remove(id string) Action {
	found := d.store.Remove(id)
	return d.finish(Action{Type: TypeRemove, ID: id}, models.Sound{}, found)
}

// Reset empties the collection or restores the last baseline.
func (d *Dispatcher) Reset(toEmpty bool) Action {
	snap := d.store.Reset(toEmpty)
	d.persist(false)
	action := Action{Type: TypeReset, Payload: toEmpty, Count: snap.Len(), Found: true}
	d.logger.WithFields(logrus.Fields{"to_empty": toEmpty, "size": snap.Len()}).Info("Sound collection reset")
	d.notify(action, nil)
	return action
}

// Dispatch routes a typed command. Only InitCommand can fail.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (Action, error) {
	switch c := cmd.(type) {
	case InitCommand:
		return d.Init(ctx)
	case PlayCommand:
		return d.Play(c.ID), nil
	case VolumeCommand:
		return d.Volume(c.ID, c.Value), nil
	case EditCommand:
		return d.Edit(c.ID, c.Patch), nil
	case RemoveCommand:
		return d.Remove(c.ID), nil
	case ResetCommand:
		return d.Reset(c.ToEmpty), nil
	case nil:
		return Action{}, errors.New(errors.ErrCodeInvalidInput, "nil command")
	default:
		return Action{}, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown command %T", cmd))
	}
}

// Bootstrap restores the collection and the reset baseline from storage.
// When the stored schema version differs the cache is dropped. hydrated is
// true only when a non-empty cached collection was loaded.
func (d *Dispatcher) Bootstrap(ctx context.Context) (hydrated bool, err error) {
	if d.storage == nil {
		return false, nil
	}
	current, err := storage.CheckVersion(ctx, d.storage)
	if err != nil {
		return false, err
	}
	if !current {
		d.logger.WithField("version", storage.SchemaVersion).Info("Sound cache version changed, dropping cached sounds")
		return false, nil
	}
	list, ok, err := storage.LoadSounds(ctx, d.storage)
	if err != nil {
		return false, err
	}
	baseline, _, err := storage.LoadBaseline(ctx, d.storage)
	if err != nil {
		return false, err
	}

	hydrated = ok && len(list) > 0
	if hydrated {
		d.store.Hydrate(list)
	}
	// Hydrate captures the cache as baseline; the stored one is the last init.
	d.store.SetBaseline(baseline)
	if !hydrated {
		return false, nil
	}
	d.logger.WithField("size", len(list)).Info("Sound collection restored from cache")
	d.notify(Action{Type: TypeHydrated, Count: len(list), Found: true}, nil)
	return true, nil
}

// Load restores the cached collection and falls back to Init when there is
// nothing usable in storage.
func (d *Dispatcher) Load(ctx context.Context) (Action, error) {
	hydrated, err := d.Bootstrap(ctx)
	if err != nil {
		d.logger.WithError(err).Warn("Failed to restore sound cache, fetching catalog")
	}
	if hydrated {
		return Action{Type: TypeHydrated, Count: d.store.Len(), Found: true}, nil
	}
	return d.Init(ctx)
}

func (d *Dispatcher) finish(action Action, snd models.Sound, found bool) Action {
	action.Found = found
	action.Count = d.store.Len()
	if found {
		if action.Type != TypeRemove {
			action.Sound = &snd
		}
		d.persist(false)
		d.logger.WithFields(logrus.Fields{"action": string(action.Type), "id": action.ID}).Debug("Sound updated")
	} else {
		d.logger.WithFields(logrus.Fields{"action": string(action.Type), "id": action.ID}).Debug("Sound not in collection, ignoring")
	}
	d.notify(action, nil)
	return action
}

// persist writes the current collection, and the reset baseline when
// withBaseline is set. Failures are logged and never surface to the caller.
func (d *Dispatcher) persist(withBaseline bool) {
	if d.storage == nil {
		return
	}
	d.persistMu.Lock()
	defer d.persistMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	logger := d.logger.WithField("driver", d.storage.Driver())
	if withBaseline {
		if err := storage.SaveBaseline(ctx, d.storage, d.store.Baseline().Sounds); err != nil {
			logger.WithError(err).Warn("Failed to persist reset baseline")
		}
	}
	if err := storage.SaveSounds(ctx, d.storage, d.store.Snapshot().Sounds); err != nil {
		logger.WithError(err).Warn("Failed to persist sound collection")
	}
}

func (d *Dispatcher) notify(a Action, err error) {
	d.obsMu.RLock()
	defer d.obsMu.RUnlock()
	for _, fn := range d.observers {
		fn(a, err)
	}
}
