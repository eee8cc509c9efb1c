// Package mixer is the interactive sound mixer: a list of the collection
// with playback, volume and collection controls.
package mixer

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/kakapo/pkg/daemon"
	"github.com/grovetools/kakapo/pkg/sounds"
	"github.com/grovetools/kakapo/tui"
	"github.com/grovetools/kakapo/tui/keymap"
)

// VolumeStep is how much one volume key press changes the volume.
const VolumeStep = 0.1

// Model represents the state of the mixer TUI.
type Model struct {
	ctx    context.Context
	client daemon.Client
	events <-chan daemon.Event

	snap   sounds.Snapshot
	keys   KeyMap
	help   help.Model
	seq    *keymap.SequenceState
	cursor int
	width  int
	height int

	status string
	err    error
}

// New creates a mixer model driven by client. ctx bounds the update stream.
func New(ctx context.Context, client daemon.Client) *Model {
	return &Model{
		ctx:    ctx,
		client: client,
		keys:   DefaultKeyMap,
		help:   help.New(),
		seq:    keymap.NewSequenceState(),
	}
}

// Init loads the collection and subscribes to updates.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.subscribe())
}

// Snapshot returns the collection as the mixer currently shows it.
func (m *Model) Snapshot() sounds.Snapshot {
	return m.snap
}

// Cursor returns the selected row.
func (m *Model) Cursor() int {
	return m.cursor
}

// Run starts the mixer full screen and blocks until the user quits.
func Run(ctx context.Context, client daemon.Client) error {
	tui.InitializeTUI()
	_, err := tea.NewProgram(New(ctx, client), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
