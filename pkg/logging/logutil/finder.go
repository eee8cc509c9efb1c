package logutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/kakapo/config"
	"github.com/grovetools/kakapo/logging"
	"github.com/grovetools/kakapo/pkg/paths"
	"github.com/grovetools/kakapo/util/pathutil"
)

// FindLogFile resolves the log file to follow. An explicit logging.file.path in
// cfg wins; otherwise the newest file in the log dir whose name starts with
// component is used. An empty component matches every file.
func FindLogFile(cfg *config.Config, component string) (logFile string, logsDir string, err error) {
	var logCfg logging.Config
	if cfg != nil {
		// A malformed section falls back to the default location.
		_ = cfg.UnmarshalExtension("logging", &logCfg)
	}

	if logCfg.File.Path != "" {
		expanded, err := pathutil.Expand(logCfg.File.Path)
		if err != nil {
			return "", "", err
		}
		return expanded, filepath.Dir(expanded), nil
	}

	logsDir = paths.LogDir()
	logFile, err = FindLatestLogFile(logsDir, component)
	return logFile, logsDir, err
}

// FindLatestLogFile finds the most recently modified file in dir whose name
// starts with prefix. Files with content are preferred over empty ones.
func FindLatestLogFile(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("could not read log directory %s: %w", dir, err)
	}

	var latestFile os.FileInfo
	var latestPath string
	var latestNonEmptyFile os.FileInfo
	var latestNonEmptyPath string

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latestFile == nil || info.ModTime().After(latestFile.ModTime()) {
			latestFile = info
			latestPath = filepath.Join(dir, entry.Name())
		}
		if info.Size() > 0 {
			if latestNonEmptyFile == nil || info.ModTime().After(latestNonEmptyFile.ModTime()) {
				latestNonEmptyFile = info
				latestNonEmptyPath = filepath.Join(dir, entry.Name())
			}
		}
	}

	if latestNonEmptyFile != nil {
		return latestNonEmptyPath, nil
	}
	if latestFile == nil {
		return "", fmt.Errorf("no log files found in %s", dir)
	}
	return latestPath, nil
}
