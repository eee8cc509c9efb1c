package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	t.Run("defaults are filled", func(t *testing.T) {
		info := Info{Version: "dev", Commit: "none", BuildDate: "unknown"}
		fillFromBuildInfo(&info, bi)
		assert.Equal(t, "v0.4.0", info.Version)
		assert.Equal(t, "abc123", info.Commit)
		assert.Equal(t, "2026-10-01T12:00:00Z", info.BuildDate)
		assert.True(t, info.Modified)
	})

	t.Run("linker values win", func(t *testing.T) {
		info := Info{Version: "v1.0.0", Commit: "fff", BuildDate: "today"}
		fillFromBuildInfo(&info, bi)
		assert.Equal(t, "v1.0.0", info.Version)
		assert.Equal(t, "fff", info.Commit)
		assert.Equal(t, "today", info.BuildDate)
	})

	t.Run("devel main module", func(t *testing.T) {
		info := Info{Version: "dev"}
		fillFromBuildInfo(&info, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		assert.Equal(t, "dev", info.Version)
	})
}

func TestString(t *testing.T) {
	s := Info{Version: "v1", Platform: "linux/amd64"}.String()
	assert.Contains(t, s, "Version:\tv1")
	assert.Contains(t, s, "Platform:\tlinux/amd64")
}
