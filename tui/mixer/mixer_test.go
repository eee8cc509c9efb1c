package mixer

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/kakapo/pkg/actions"
	"github.com/grovetools/kakapo/pkg/catalog"
	"github.com/grovetools/kakapo/pkg/daemon"
	"github.com/grovetools/kakapo/pkg/models"
	"github.com/grovetools/kakapo/pkg/sounds"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (*Model, *actions.Dispatcher) {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	d := actions.New(sounds.New(), catalog.FetcherFunc(func(context.Context) ([]models.Record, error) {
		return []models.Record{
			{ID: "wind", Name: "Wind"},
			{ID: "rain", Name: "Rain"},
			{ID: "cafe", Name: "Cafe", Source: models.SourceYoutube},
		}, nil
	}), nil, logrus.NewEntry(l))
	_, err := d.Init(context.Background())
	require.NoError(t, err)

	m := New(context.Background(), daemon.NewLocalClient(d, nil))
	m.Update(m.load()())
	return m, d
}

// press feeds a key and runs any resulting command synchronously.
func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := m.Update(msg)
		for cmd != nil {
			next := cmd()
			if next == nil {
				break
			}
			_, cmd = m.Update(next)
		}
	}
}

func TestNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, 3, m.Snapshot().Len())
	assert.Equal(t, 0, m.Cursor())

	press(m, "j", "j", "j")
	assert.Equal(t, 2, m.Cursor(), "cursor stops at the last row")

	press(m, "k")
	assert.Equal(t, 1, m.Cursor())

	press(m, "g", "g")
	assert.Equal(t, 0, m.Cursor())

	press(m, "G")
	assert.Equal(t, 2, m.Cursor())
}

func TestPlaybackAndVolume(t *testing.T) {
	m, d := newTestModel(t)

	press(m, " ")
	wind, _ := d.Store().Get("wind")
	assert.True(t, wind.Playing)

	press(m, "+")
	wind, _ = d.Store().Get("wind")
	assert.InDelta(t, 0.6, wind.Volume, 1e-9)

	press(m, "-", "-")
	wind, _ = d.Store().Get("wind")
	assert.InDelta(t, 0.4, wind.Volume, 1e-9)

	// Without a stream the model reloads after each action.
	shown, _ := m.Snapshot().Get("wind")
	assert.True(t, shown.Playing)
	assert.InDelta(t, 0.4, shown.Volume, 1e-9)
}

func TestRemoveAndReset(t *testing.T) {
	m, d := newTestModel(t)

	press(m, "j", "d", "d")
	_, ok := d.Store().Get("rain")
	assert.False(t, ok)
	assert.Equal(t, 2, m.Snapshot().Len())

	press(m, "r")
	assert.Equal(t, 3, d.Store().Len())

	press(m, "R")
	assert.Equal(t, 0, d.Store().Len())
	assert.Equal(t, 0, m.Snapshot().Len())
	assert.Contains(t, m.View(), "No sounds")
}

func TestStreamEvents(t *testing.T) {
	m, d := newTestModel(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := daemon.NewLocalClient(d, nil).Stream(ctx)
	require.NoError(t, err)
	m.Update(streamMsg{events: events})

	next := func() {
		select {
		case ev := <-events:
			m.Update(eventMsg{event: ev, ok: true})
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
	next() // initial

	d.Play("cafe")
	next()
	cafe, _ := m.Snapshot().Get("cafe")
	assert.True(t, cafe.Playing)

	d.Remove("wind")
	next()
	assert.Equal(t, []string{"rain", "cafe"}, m.Snapshot().IDs())

	m.Update(eventMsg{event: daemon.Event{Type: daemon.EventConfigReload, ConfigFile: "kakapo.yml"}, ok: true})
	assert.Contains(t, m.View(), "config reloaded")

	m.Update(eventMsg{ok: false})
	assert.Contains(t, m.View(), "update stream closed")
}

func TestViewShowsDownloads(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, "Wind")
	assert.Contains(t, view, "0%")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "received 3 sounds", describe(actions.Action{Type: actions.TypeReceived, Count: 3}))
	assert.Equal(t, "nope is not in the collection", describe(actions.Action{Type: actions.TypePlay, ID: "nope"}))
	assert.Equal(t, "removed wind", describe(actions.Action{Type: actions.TypeRemove, ID: "wind", Found: true}))
	assert.Equal(t, "", describe(actions.Action{Type: actions.TypePlay, ID: "wind", Found: true}))
}
