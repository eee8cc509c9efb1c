// Package sounds provides the in-memory sound collection store.
package sounds

import (
	"github.com/grovetools/kakapo/pkg/models"
)

// UpdateType defines what kind of mutation happened.
type UpdateType string

const (
	UpdateReceived UpdateType = "received"
	UpdateHydrated UpdateType = "hydrated"
	UpdatePlay     UpdateType = "play"
	UpdateVolume   UpdateType = "volume"
	UpdateEdit     UpdateType = "edit"
	UpdateRemove   UpdateType = "remove"
	UpdateReset    UpdateType = "reset"
)

// Update represents a change to the collection.
type Update struct {
	Type  UpdateType
	ID    string // Empty for whole-collection updates
	Count int    // Collection size after the update
	Sound *models.Sound
}

// Snapshot is an immutable view of the collection at a point in time.
// Sounds are kept in insertion order.
type Snapshot struct {
	Sounds []models.Sound `json:"sounds"`
}

// Len returns the number of sounds in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Sounds)
}

// Get looks up a sound by id.
func (s Snapshot) Get(id string) (models.Sound, bool) {
	for _, snd := range s.Sounds {
		if snd.ID == id {
			return snd, true
		}
	}
	return models.Sound{}, false
}

// IDs returns the sound ids in order.
func (s Snapshot) IDs() []string {
	ids := make([]string, len(s.Sounds))
	for i, snd := range s.Sounds {
		ids[i] = snd.ID
	}
	return ids
}

// Filter returns the sounds matching keep, preserving order.
func (s Snapshot) Filter(keep func(models.Sound) bool) []models.Sound {
	var out []models.Sound
	for _, snd := range s.Sounds {
		if keep(snd) {
			out = append(out, snd)
		}
	}
	return out
}
