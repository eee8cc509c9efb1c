package logutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/kakapo/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLatestLogFile(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "kakapod-2026-01-01.log")
	newer := filepath.Join(dir, "kakapod-2026-01-02.log")
	empty := filepath.Join(dir, "kakapod-2026-01-03.log")
	other := filepath.Join(dir, "kakapo-cli-2026-01-04.log")

	require.NoError(t, os.WriteFile(old, []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("b\n"), 0o644))
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	require.NoError(t, os.WriteFile(other, []byte("c\n"), 0o644))

	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, base, base))
	require.NoError(t, os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)))
	require.NoError(t, os.Chtimes(empty, base.Add(2*time.Minute), base.Add(2*time.Minute)))
	require.NoError(t, os.Chtimes(other, base.Add(3*time.Minute), base.Add(3*time.Minute)))

	got, err := FindLatestLogFile(dir, "kakapod")
	require.NoError(t, err)
	assert.Equal(t, newer, got, "non-empty files win over a newer empty one")

	got, err = FindLatestLogFile(dir, "")
	require.NoError(t, err)
	assert.Equal(t, other, got)

	_, err = FindLatestLogFile(dir, "missing")
	assert.Error(t, err)
}

func TestFindLogFileExplicitPath(t *testing.T) {
	cfg, err := config.LoadFromBytes([]byte("logging:\n  file:\n    path: /var/log/kakapo.log\n"))
	require.NoError(t, err)

	file, dir, err := FindLogFile(cfg, "kakapod")
	require.NoError(t, err)
	assert.Equal(t, "/var/log/kakapo.log", file)
	assert.Equal(t, "/var/log", dir)
}

func TestFindLogFileDefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("KAKAPO_HOME", home)
	logs := filepath.Join(home, "state", "logs")
	require.NoError(t, os.MkdirAll(logs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(logs, "kakapod-2026-10-19.log"), []byte("x\n"), 0o644))

	file, dir, err := FindLogFile(nil, "kakapod")
	require.NoError(t, err)
	assert.Equal(t, logs, dir)
	assert.Equal(t, filepath.Join(logs, "kakapod-2026-10-19.log"), file)
}
