package sounds

import (
	"math"
	"sync"

	"github.com/grovetools/kakapo/pkg/models"
)

// Store holds the authoritative sound collection.
// It is thread-safe and supports pub/sub for real-time updates.
type Store struct {
	mu          sync.RWMutex
	order       []string
	sounds      map[string]*models.Sound
	baseline    []models.Sound
	subscribers map[chan Update]struct{}
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		sounds:      make(map[string]*models.Sound),
		subscribers: make(map[chan Update]struct{}),
	}
}

// Init replaces the collection with sounds built from records.
// Records without an id are skipped; a later record with a duplicate id
// replaces the earlier one in place. A non-empty result becomes the reset
// baseline.
func (s *Store) Init(records []models.Record) (Snapshot, int) {
	sounds := make([]models.Sound, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		sounds = append(sounds, models.NewSound(r))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(sounds)
	s.captureBaseline()
	snap := s.snapshot()
	s.broadcast(Update{Type: UpdateReceived, Count: len(s.order)})
	return snap, len(s.order)
}

// Hydrate loads a previously persisted collection. A non-empty result becomes
// the reset baseline.
func (s *Store) Hydrate(sounds []models.Sound) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(sounds)
	s.captureBaseline()
	snap := s.snapshot()
	s.broadcast(Update{Type: UpdateHydrated, Count: len(s.order)})
	return snap
}

// SetBaseline replaces the reset baseline without touching the collection.
// An empty list leaves the current baseline in place.
func (s *Store) SetBaseline(sounds []models.Sound) {
	if len(sounds) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseline = append([]models.Sound(nil), sounds...)
}

// Play toggles playback of the sound with the given id.
// It returns the updated sound and whether it was present.
func (s *Store) Play(id string) (models.Sound, bool) {
	return s.mutate(id, UpdatePlay, func(snd *models.Sound) {
		snd.Playing = !snd.Playing
	})
}

// Volume sets the volume of a sound, clamped into [0,1]. NaN leaves the
// volume unchanged.
func (s *Store) Volume(id string, value float64) (models.Sound, bool) {
	return s.mutate(id, UpdateVolume, func(snd *models.Sound) {
		if math.IsNaN(value) {
			return
		}
		snd.Volume = models.Clamp(value)
	})
}

// Edit merges patch into the sound.
func (s *Store) Edit(id string, patch models.Patch) (models.Sound, bool) {
	return s.mutate(id, UpdateEdit, func(snd *models.Sound) {
		*snd = patch.Apply(*snd)
	})
}

// Remove deletes a sound. Removing an absent id is a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sounds[id]; !ok {
		return false
	}
	delete(s.sounds, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.broadcast(Update{Type: UpdateRemove, ID: id, Count: len(s.order)})
	return true
}

// Reset clears the collection when toEmpty is set, otherwise it restores the
// baseline captured at the most recent non-empty Init or Hydrate.
func (s *Store) Reset(toEmpty bool) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if toEmpty {
		s.replace(nil)
	} else {
		s.replace(s.baseline)
	}
	snap := s.snapshot()
	s.broadcast(Update{Type: UpdateReset, Count: len(s.order)})
	return snap
}

// Get returns a copy of the sound with the given id.
func (s *Store) Get(id string) (models.Sound, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snd, ok := s.sounds[id]
	if !ok {
		return models.Sound{}, false
	}
	return *snd, true
}

// Len returns the number of sounds in the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Snapshot returns a copy of the current collection.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Baseline returns a copy of the collection Reset(false) would restore.
func (s *Store) Baseline() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Sounds: append([]models.Sound{}, s.baseline...)}
}

// Subscribe creates a new subscription channel for collection updates.
func (s *Store) Subscribe() chan Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Update, 100) // Buffered
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch chan Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; !ok {
		return
	}
	delete(s.subscribers, ch)
	close(ch)
}

func (s *Store) mutate(id string, kind UpdateType, fn func(*models.Sound)) (models.Sound, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snd, ok := s.sounds[id]
	if !ok {
		return models.Sound{}, false
	}
	fn(snd)
	updated := *snd
	s.broadcast(Update{Type: kind, ID: id, Count: len(s.order), Sound: &updated})
	return updated, true
}

// replace swaps in a copy of sounds. Callers hold s.mu.
func (s *Store) replace(sounds []models.Sound) {
	s.order = make([]string, 0, len(sounds))
	s.sounds = make(map[string]*models.Sound, len(sounds))
	for _, snd := range sounds {
		snd := snd
		if _, dup := s.sounds[snd.ID]; !dup {
			s.order = append(s.order, snd.ID)
		}
		s.sounds[snd.ID] = &snd
	}
}

// captureBaseline records the current collection if it is non-empty.
// Callers hold s.mu.
func (s *Store) captureBaseline() {
	if len(s.order) == 0 {
		return
	}
	s.baseline = s.snapshot().Sounds
}

func (s *Store) snapshot() Snapshot {
	out := make([]models.Sound, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.sounds[id])
	}
	return Snapshot{Sounds: out}
}

func (s *Store) broadcast(u Update) {
	for ch := range s.subscribers {
		select {
		case ch <- u:
		default:
			// Non-blocking send so a slow subscriber cannot stall mutations
		}
	}
}
