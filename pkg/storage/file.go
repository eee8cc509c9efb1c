package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/grovetools/kakapo/config"
	"github.com/grovetools/kakapo/errors"
	"gopkg.in/yaml.v3"
)

// File stores all keys in one YAML document. Values are kept as strings so
// the file stays readable.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a YAML file store at path. The file is created on first Set.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file.
func (f *File) Path() string { return f.path }

func (f *File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var state map[string]string
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	if state == nil {
		state = make(map[string]string)
	}
	return state, nil
}

func (f *File) save(state map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, err := f.load()
	if err != nil {
		return nil, false, errors.StorageFailed(config.DriverFile, "get", err)
	}
	v, ok := state[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, err := f.load()
	if err != nil {
		return errors.StorageFailed(config.DriverFile, "set", err)
	}
	state[key] = string(value)
	if err := f.save(state); err != nil {
		return errors.StorageFailed(config.DriverFile, "set", err)
	}
	return nil
}

func (f *File) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, err := f.load()
	if err != nil {
		return errors.StorageFailed(config.DriverFile, "remove", err)
	}
	if _, ok := state[key]; !ok {
		return nil
	}
	delete(state, key)
	if err := f.save(state); err != nil {
		return errors.StorageFailed(config.DriverFile, "remove", err)
	}
	return nil
}

func (f *File) Close() error   { return nil }
func (f *File) Driver() string { return config.DriverFile }
