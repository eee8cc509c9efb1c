package storage

import (
	"context"
	"encoding/json"

	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/pkg/models"
)

// Keys used for the persisted collection.
const (
	KeyVersion  = "version"
	KeySounds   = "sounds"
	KeyBaseline = "baseline"
)

// SchemaVersion is bumped whenever the persisted sound layout changes. A cache
// written under another version is discarded on startup.
const SchemaVersion = "1"

// LoadSounds reads the cached collection. ok is false when nothing is cached.
func LoadSounds(ctx context.Context, s Storage) ([]models.Sound, bool, error) {
	return loadList(ctx, s, KeySounds)
}

// SaveSounds writes the collection under KeySounds.
func SaveSounds(ctx context.Context, s Storage, list []models.Sound) error {
	return saveList(ctx, s, KeySounds, list)
}

// LoadBaseline reads the collection that a plain reset restores.
func LoadBaseline(ctx context.Context, s Storage) ([]models.Sound, bool, error) {
	return loadList(ctx, s, KeyBaseline)
}

// SaveBaseline writes the reset baseline under KeyBaseline.
func SaveBaseline(ctx context.Context, s Storage, list []models.Sound) error {
	return saveList(ctx, s, KeyBaseline, list)
}

func loadList(ctx context.Context, s Storage, key string) ([]models.Sound, bool, error) {
	data, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var list []models.Sound
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, false, errors.StorageFailed(s.Driver(), "decode", err)
	}
	return list, true, nil
}

func saveList(ctx context.Context, s Storage, key string, list []models.Sound) error {
	if list == nil {
		list = []models.Sound{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return errors.StorageFailed(s.Driver(), "encode", err)
	}
	return s.Set(ctx, key, data)
}

// CheckVersion compares the stored version with SchemaVersion. On mismatch
// (or first run) the cached sounds and baseline are dropped, the current
// version is written and current is false.
func CheckVersion(ctx context.Context, s Storage) (current bool, err error) {
	stored, ok, err := s.Get(ctx, KeyVersion)
	if err != nil {
		return false, err
	}
	if ok && string(stored) == SchemaVersion {
		return true, nil
	}
	for _, key := range []string{KeySounds, KeyBaseline} {
		if err := s.Remove(ctx, key); err != nil {
			return false, err
		}
	}
	if err := s.Set(ctx, KeyVersion, []byte(SchemaVersion)); err != nil {
		return false, err
	}
	return false, nil
}
