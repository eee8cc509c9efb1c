package view

import (
	"fmt"
	"strings"
	"testing"

	"github.com/grovetools/kakapo/pkg/models"
	"github.com/grovetools/kakapo/pkg/sounds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomSounds builds count sounds where the first three are half downloaded.
func randomSounds(count int) sounds.Snapshot {
	var snap sounds.Snapshot
	for i := 0; i < count; i++ {
		progress := 1.0
		if i <= 2 {
			progress = 0.5
		}
		snap.Sounds = append(snap.Sounds, models.NewSound(models.Record{
			ID:       fmt.Sprintf("test%d", i),
			Name:     fmt.Sprintf("test%d", i),
			Source:   models.SourceURL,
			Progress: models.Float(progress),
		}))
	}
	return snap
}

func favourites(count int) []models.Record {
	out := make([]models.Record, count)
	for i := range out {
		out[i] = models.Record{
			ID:     fmt.Sprintf("test%d", i),
			Name:   fmt.Sprintf("test%d", i),
			Source: models.SourceFile,
			Link:   fmt.Sprintf("https://kakapo.co/s/test%d", i),
		}
	}
	return out
}

func TestDownloadListEmpty(t *testing.T) {
	out, err := DownloadList(sounds.Snapshot{}).HTML()
	require.NoError(t, err)
	assert.Equal(t, "<div></div>", out)
}

func TestDownloadList(t *testing.T) {
	node := DownloadList(randomSounds(4))
	assert.Equal(t, "div", node.Tag)
	assert.Equal(t, "download-list", node.Class)
	assert.Len(t, node.Children, 3)

	out, err := node.HTML()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<div class="download-list">`))
	assert.Equal(t, 3, strings.Count(out, `class="download-item"`))
	assert.Contains(t, out, "50%")
}

func TestDownloadListAllDownloaded(t *testing.T) {
	snap := randomSounds(6)
	snap.Sounds = snap.Sounds[3:]
	node := DownloadList(snap)
	assert.Equal(t, "download-list", node.Class)
	assert.Empty(t, node.Children)
}

func TestKakapo(t *testing.T) {
	node := Kakapo(nil)
	assert.Equal(t, "div", node.Tag)
	assert.Equal(t, "kakapo", node.Class)

	node = Kakapo(favourites(5))
	assert.Len(t, node.Find("KakapoItem"), 5)

	out, err := node.HTML()
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(out, `class="kakapo-item"`))
	assert.Contains(t, out, `data-link="https://kakapo.co/s/test0"`)
}

func TestHTMLEscapes(t *testing.T) {
	node := Kakapo([]models.Record{{ID: "x", Name: "<script>"}})
	out, err := node.HTML()
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestMixer(t *testing.T) {
	snap := randomSounds(4)
	snap.Sounds[3].Playing = true
	node := Mixer(snap)
	require.Len(t, node.Children, 4)
	assert.Equal(t, "sound downloading", node.Children[0].Class)
	assert.Equal(t, "sound playing", node.Children[3].Class)
}

func TestRender(t *testing.T) {
	out := Render(DownloadList(randomSounds(4)), 60)
	assert.Equal(t, 3, strings.Count(out, "\n")+1)
	assert.Contains(t, out, "test0")

	out = Render(Kakapo(favourites(3)), 80)
	for i := 0; i < 3; i++ {
		assert.Contains(t, out, fmt.Sprintf("test%d", i))
	}

	assert.NotEmpty(t, Render(DownloadList(randomSounds(0)), 0))
}

func TestProgressCells(t *testing.T) {
	assert.Equal(t, 5, progressCells("0.50", 10))
	assert.Equal(t, 10, progressCells("1.00", 10))
	assert.Equal(t, 0, progressCells("junk", 10))
}
