package mixer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/kakapo/pkg/actions"
	"github.com/grovetools/kakapo/pkg/daemon"
	"github.com/grovetools/kakapo/pkg/models"
	"github.com/grovetools/kakapo/pkg/sounds"
	"github.com/grovetools/kakapo/tui/keymap"
)

type snapshotMsg struct {
	snap sounds.Snapshot
	err  error
}

type streamMsg struct {
	events <-chan daemon.Event
	err    error
}

type eventMsg struct {
	event daemon.Event
	ok    bool
}

type actionMsg struct {
	action actions.Action
	err    error
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.client.Sounds(m.ctx)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m *Model) subscribe() tea.Cmd {
	return func() tea.Msg {
		events, err := m.client.Stream(m.ctx)
		return streamMsg{events: events, err: err}
	}
}

func waitForEvent(events <-chan daemon.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return eventMsg{event: ev, ok: ok}
	}
}

func (m *Model) dispatch(cmd actions.Command) tea.Cmd {
	return func() tea.Msg {
		action, err := m.client.Dispatch(m.ctx, cmd)
		return actionMsg{action: action, err: err}
	}
}

// Update handles messages and updates the model accordingly.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.setSnapshot(msg.snap)
		return m, nil

	case streamMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.events = msg.events
		return m, waitForEvent(m.events)

	case eventMsg:
		if !msg.ok {
			m.status = "update stream closed"
			return m, nil
		}
		m.apply(msg.event)
		return m, waitForEvent(m.events)

	case actionMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = describe(msg.action)
			// Without a stream the result is only visible after a reload.
			if m.events == nil {
				return m, m.load()
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.help.ShowAll {
		m.help.ShowAll = false
		return nil
	}

	result, idx := m.seq.Process(msg, m.keys.sequences()...)
	switch result {
	case keymap.SequencePending:
		return nil
	case keymap.SequenceMatch:
		m.seq.Clear()
		switch idx {
		case 0:
			m.cursor = 0
		case 1:
			if snd, ok := m.selected(); ok {
				return m.dispatch(actions.RemoveCommand{ID: snd.ID})
			}
		}
		return nil
	}
	m.seq.Clear()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = true
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.snap.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Bottom):
		if m.snap.Len() > 0 {
			m.cursor = m.snap.Len() - 1
		}
	case key.Matches(msg, m.keys.Play):
		if snd, ok := m.selected(); ok {
			return m.dispatch(actions.PlayCommand{ID: snd.ID})
		}
	case key.Matches(msg, m.keys.VolumeUp):
		if snd, ok := m.selected(); ok {
			return m.dispatch(actions.VolumeCommand{ID: snd.ID, Value: models.Clamp(snd.Volume + VolumeStep)})
		}
	case key.Matches(msg, m.keys.VolumeDown):
		if snd, ok := m.selected(); ok {
			return m.dispatch(actions.VolumeCommand{ID: snd.ID, Value: models.Clamp(snd.Volume - VolumeStep)})
		}
	case key.Matches(msg, m.keys.Fetch):
		m.status = "fetching catalog..."
		return m.dispatch(actions.InitCommand{})
	case key.Matches(msg, m.keys.Reset):
		return m.dispatch(actions.ResetCommand{})
	case key.Matches(msg, m.keys.Clear):
		return m.dispatch(actions.ResetCommand{ToEmpty: true})
	}
	return nil
}

func (m *Model) selected() (models.Sound, bool) {
	if m.cursor < 0 || m.cursor >= m.snap.Len() {
		return models.Sound{}, false
	}
	return m.snap.Sounds[m.cursor], true
}

func (m *Model) setSnapshot(snap sounds.Snapshot) {
	m.snap = snap
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= m.snap.Len() {
		m.cursor = m.snap.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// apply folds one stream event into the displayed collection.
func (m *Model) apply(ev daemon.Event) {
	switch ev.Type {
	case daemon.EventConfigReload:
		m.status = fmt.Sprintf("config reloaded: %s", ev.ConfigFile)
	case daemon.EventInitial, string(sounds.UpdateReceived), string(sounds.UpdateHydrated), string(sounds.UpdateReset):
		m.setSnapshot(sounds.Snapshot{Sounds: ev.Sounds})
	case string(sounds.UpdateRemove):
		kept := m.snap.Filter(func(s models.Sound) bool { return s.ID != ev.ID })
		m.setSnapshot(sounds.Snapshot{Sounds: kept})
	default:
		if ev.Sound == nil {
			return
		}
		for i := range m.snap.Sounds {
			if m.snap.Sounds[i].ID == ev.ID {
				m.snap.Sounds[i] = *ev.Sound
				return
			}
		}
	}
}

func describe(a actions.Action) string {
	switch a.Type {
	case actions.TypeReceived:
		return fmt.Sprintf("received %d sounds", a.Count)
	case actions.TypeReset:
		return fmt.Sprintf("reset to %d sounds", a.Count)
	}
	if !a.Found {
		return fmt.Sprintf("%s is not in the collection", a.ID)
	}
	if a.Type == actions.TypeRemove {
		return fmt.Sprintf("removed %s", a.ID)
	}
	return ""
}
