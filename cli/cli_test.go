package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/kakapo/config"
	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/pkg/models"
	"github.com/grovetools/kakapo/pkg/sounds"
	"github.com/grovetools/kakapo/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardFlags(t *testing.T) {
	cmd := NewStandardCommand("kakapo", "ambient sounds")
	require.NoError(t, cmd.ParseFlags([]string{"-v", "--json", "-c", "/tmp/k.yml"}))

	opts := GetOptions(cmd)
	assert.Equal(t, CommandOptions{ConfigFile: "/tmp/k.yml", Verbose: true, JSONOutput: true}, opts)

	logger := GetLogger(cmd)
	assert.Equal(t, logrus.DebugLevel, logger.Logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Logger.Formatter)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kakapo.yml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: memory\n"), 0644))

	cmd := NewStandardCommand("kakapo", "")
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))
	cfg, err := LoadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, cfg.Storage.Driver)

	cmd = NewStandardCommand("kakapo", "")
	require.NoError(t, cmd.ParseFlags([]string{"--config", path + ".missing"}))
	_, err = LoadConfig(cmd)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sound not found", errors.SoundNotFound("wind"), "Sound 'wind' is not in the collection"},
		{"fetch failed", errors.FetchFailed("https://x", nil), "Could not fetch the sound catalog from https://x"},
		{"pending", errors.InitPending(), "already running"},
		{"daemon", errors.DaemonUnavailable("/s", nil), "kakapo serve"},
		{"config invalid", errors.ConfigInvalid("bad"), "invalid configuration: bad"},
		{"generic", assert.AnError, "Error: " + assert.AnError.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &ErrorHandler{Out: &buf}
			assert.Equal(t, tt.err, h.Handle(tt.err))
			assert.Contains(t, buf.String(), tt.want)
		})
	}

	t.Run("verbose prints details", func(t *testing.T) {
		var buf bytes.Buffer
		h := &ErrorHandler{Out: &buf, Verbose: true}
		h.Handle(errors.SoundNotFound("wind"))
		assert.Contains(t, buf.String(), `"code": "SOUND_NOT_FOUND"`)
	})

	assert.NoError(t, NewErrorHandler(false).Handle(nil))
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf, 40)

	pending := p.Update(sounds.Snapshot{Sounds: []models.Sound{
		{ID: "cafe", Name: "Cafe", Progress: 0.5},
		{ID: "wind", Name: "Wind", Progress: 1},
	}})
	assert.True(t, pending)
	assert.Contains(t, buf.String(), "Cafe")
	assert.NotContains(t, buf.String(), "Wind")

	buf.Reset()
	assert.False(t, p.Update(sounds.Snapshot{}))
	assert.Contains(t, buf.String(), "No downloads in progress")

	p.Done()
	assert.Contains(t, buf.String(), "All downloads finished")
}

func TestVersionCommand(t *testing.T) {
	info := version.Info{Version: "1.2.3", Commit: "abc", Platform: "linux/amd64"}
	root := NewStandardCommand("kakapo", "")
	root.AddCommand(NewVersionCommand("kakapo", info))

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "kakapo 1.2.3")
	assert.Contains(t, buf.String(), "linux/amd64")

	buf.Reset()
	root.SetArgs([]string{"version", "--json"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), `"version":"1.2.3"`)
}

func TestStyledHelp(t *testing.T) {
	root := NewStandardCommand("kakapo", "Ambient sound mixer")
	root.AddCommand(&cobra.Command{
		Use:   "play <id>",
		Short: "Toggle playback",
		Long:  "Toggle playback of a sound.\n\nExamples:\n  # play the wind\n  kakapo play wind",
		Run:   func(*cobra.Command, []string) {},
	})
	ApplyStyledHelpRecursive(root)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"play", "--help"})
	require.NoError(t, root.Execute())

	out := buf.String()
	assert.Contains(t, out, "KAKAPO PLAY")
	assert.Contains(t, out, "USAGE")
	assert.Contains(t, out, "EXAMPLES")
	assert.Contains(t, out, "# play the wind")

	buf.Reset()
	root.SetArgs([]string{"--help"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "COMMANDS")
	assert.True(t, strings.Contains(buf.String(), "play"))
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "one two\nthree", wrapText("one two three", 8))
	assert.Equal(t, "short\nlines", wrapText("short\nlines", 20))
}
