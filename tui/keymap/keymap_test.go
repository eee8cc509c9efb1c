package keymap

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

var (
	top    = key.NewBinding(key.WithKeys("gg"), key.WithHelp("gg", "top"))
	remove = key.NewBinding(key.WithKeys("dd"), key.WithHelp("dd", "remove"))
	play   = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play"))
)

func runes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSequenceProcess(t *testing.T) {
	tests := []struct {
		name    string
		keys    string
		want    SequenceResult
		wantIdx int
	}{
		{"first key is pending", "d", SequencePending, -1},
		{"double d matches", "dd", SequenceMatch, 1},
		{"double g matches", "gg", SequenceMatch, 0},
		{"unknown key", "x", SequenceNone, -1},
		{"broken sequence", "dg", SequenceNone, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSequenceState()
			var got SequenceResult
			idx := -1
			for _, r := range tt.keys {
				got, idx = s.Process(runes(r), top, remove, play)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantIdx, idx)
		})
	}
}

func TestSequenceTimeout(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSequenceStateWithTimeout(time.Second)
	s.now = func() time.Time { return now }

	res, _ := s.ProcessKey("d", remove)
	assert.Equal(t, SequencePending, res)

	now = now.Add(2 * time.Second)
	res, _ = s.ProcessKey("d", remove)
	assert.Equal(t, SequencePending, res, "stale prefix should be dropped")
	assert.Equal(t, "d", s.Buffer())

	res, idx := s.ProcessKey("d", remove)
	assert.Equal(t, SequenceMatch, res)
	assert.Equal(t, 0, idx)

	s.Clear()
	assert.Empty(t, s.Buffer())
}

type testKeys struct{}

func (testKeys) Sections() []Section {
	disabled := key.NewBinding(key.WithKeys("x"), key.WithDisabled())
	return []Section{
		NewSection(SectionNavigation, top),
		NewSection(SectionPlayback, play, disabled),
		NewSection(SectionSystem, disabled),
	}
}

func TestColumns(t *testing.T) {
	cols := Columns(testKeys{})
	assert.Len(t, cols, 2)
	assert.Len(t, cols[1], 1)

	assert.True(t, NewSection(SectionSystem).IsEmpty())
	assert.False(t, NewSection(SectionSystem, play).IsEmpty())
}
