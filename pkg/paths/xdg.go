// Package paths provides XDG-compliant path resolution for kakapo.
//
// Resolution order:
// 1. KAKAPO_HOME (portable root) → $KAKAPO_HOME/{config,state,cache,run}
// 2. XDG env vars → $XDG_*_HOME/kakapo
// 3. Platform defaults → ~/.config/kakapo, ~/.local/state/kakapo, etc.
package paths

import (
	"os"
	"path/filepath"
)

const appName = "kakapo"

// home resolves a base directory: KAKAPO_HOME/<portable>, then the XDG
// variable, then ~/<fallback...>.
func home(portable, xdgVar string, fallback ...string) string {
	if kakapoHome := os.Getenv("KAKAPO_HOME"); kakapoHome != "" {
		return filepath.Join(kakapoHome, portable)
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return xdg
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(append([]string{homeDir}, fallback...)...)
	}
	return ""
}

func appDir(base string) string {
	if base == "" {
		return ""
	}
	if os.Getenv("KAKAPO_HOME") != "" {
		return base
	}
	return filepath.Join(base, appName)
}

// ConfigDir returns the kakapo configuration directory.
// Used for the global kakapo.yml.
func ConfigDir() string {
	return appDir(home("config", "XDG_CONFIG_HOME", ".config"))
}

// StateDir returns the kakapo state directory.
// Used for the sound cache, databases, logs and the pid file.
func StateDir() string {
	return appDir(home("state", "XDG_STATE_HOME", ".local", "state"))
}

// CacheDir returns the kakapo cache directory.
// Used for downloaded audio files.
func CacheDir() string {
	return appDir(home("cache", "XDG_CACHE_HOME", ".cache"))
}

// RuntimeDir returns the directory for sockets.
// Uses XDG_RUNTIME_DIR when available (Linux), falls back to StateDir (macOS).
func RuntimeDir() string {
	if kakapoHome := os.Getenv("KAKAPO_HOME"); kakapoHome != "" {
		return filepath.Join(kakapoHome, "run")
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return StateDir()
}

// GlobalConfigPath returns the path of the user-wide configuration file.
func GlobalConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "kakapo.yml")
}

// SocketPath returns the path to the kakapo daemon unix socket.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), "kakapod.sock")
}

// PidFilePath returns the path to the kakapo daemon PID file.
func PidFilePath() string {
	return filepath.Join(StateDir(), "kakapod.pid")
}

// LogDir returns the directory log files are written to.
func LogDir() string {
	return filepath.Join(StateDir(), "logs")
}

// SoundsFilePath returns the default location of the file storage backend.
func SoundsFilePath() string {
	return filepath.Join(StateDir(), "sounds.yml")
}

// SQLitePath returns the default database of the sqlite storage backend.
func SQLitePath() string {
	return filepath.Join(StateDir(), "kakapo.db")
}

// EnsureDirs creates all kakapo directories if they don't exist.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		StateDir(),
		CacheDir(),
		RuntimeDir(),
		LogDir(),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
