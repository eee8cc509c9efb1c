package daemon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/kakapo/logging"
	"github.com/sirupsen/logrus"
)

// ConfigWatcher watches the config directories for kakapo.* changes and
// calls onReload with the changed file.
type ConfigWatcher struct {
	watcher      *fsnotify.Watcher
	debounceMs   int
	lastChange   time.Time
	mu           sync.Mutex
	logger       *logrus.Entry
	onReload     func(file string)
	targetToLink map[string]string // symlink target path -> link path
}

// isConfigFile reports whether name looks like a kakapo config file.
func isConfigFile(name string) bool {
	base := filepath.Base(name)
	if !strings.HasPrefix(base, "kakapo.") {
		return false
	}
	switch filepath.Ext(base) {
	case ".yml", ".yaml", ".toml":
		return true
	}
	return false
}

// NewConfigWatcher watches dirs (missing ones are skipped). fsnotify doesn't
// follow symlinks, so the directories of linked config files are watched too.
func NewConfigWatcher(dirs []string, debounceMs int, onReload func(string)) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger("config-watcher")
	watched := make(map[string]bool)
	targetToLink := make(map[string]string)

	add := func(dir string) {
		if dir == "" || watched[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			logger.WithError(err).Debugf("Not watching %s", dir)
			return
		}
		watched[dir] = true
	}

	for _, dir := range dirs {
		add(dir)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !isConfigFile(entry.Name()) || entry.Type()&os.ModeSymlink == 0 {
				continue
			}
			link := filepath.Join(dir, entry.Name())
			target, err := filepath.EvalSymlinks(link)
			if err != nil {
				logger.WithError(err).Warnf("Failed to resolve symlink %s", entry.Name())
				continue
			}
			targetToLink[target] = link
			add(filepath.Dir(target))
		}
	}

	if len(watched) == 0 {
		watcher.Close()
		return nil, os.ErrNotExist
	}
	if debounceMs <= 0 {
		debounceMs = 100
	}

	return &ConfigWatcher{
		watcher:      watcher,
		debounceMs:   debounceMs,
		logger:       logger,
		onReload:     onReload,
		targetToLink: targetToLink,
	}, nil
}

// Start begins watching for config changes. It blocks until the context is cancelled.
func (w *ConfigWatcher) Start(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := event.Name
			if link, ok := w.targetToLink[name]; ok {
				name = link
			}
			if isConfigFile(name) {
				w.handleChange(name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.watcher.Close()
			return
		}
	}
}

// handleChange processes a config file change with debouncing.
func (w *ConfigWatcher) handleChange(file string) {
	w.mu.Lock()
	elapsed := time.Since(w.lastChange)
	if elapsed < time.Duration(w.debounceMs)*time.Millisecond {
		w.mu.Unlock()
		w.logger.Debugf("Debounced: %s (only %v since last change)", filepath.Base(file), elapsed)
		return
	}
	w.lastChange = time.Now()
	w.mu.Unlock()

	w.logger.Infof("Config changed: %s", filepath.Base(file))
	if w.onReload != nil {
		w.onReload(file)
	}
}

// Close stops the watcher and releases resources.
func (w *ConfigWatcher) Close() error {
	return w.watcher.Close()
}
