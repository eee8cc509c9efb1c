package mixer

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/grovetools/kakapo/tui/keymap"
)

// KeyMap defines the keybindings for the mixer.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Play       key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Fetch      key.Binding
	Remove     key.Binding
	Reset      key.Binding
	Clear      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap is the default set of keybindings.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Top: key.NewBinding(
		key.WithKeys("gg"),
		key.WithHelp("gg", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "bottom"),
	),
	Play: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "play/pause"),
	),
	VolumeUp: key.NewBinding(
		key.WithKeys("+", "=", "l", "right"),
		key.WithHelp("+/l", "louder"),
	),
	VolumeDown: key.NewBinding(
		key.WithKeys("-", "h", "left"),
		key.WithHelp("-/h", "quieter"),
	),
	Fetch: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "fetch catalog"),
	),
	Remove: key.NewBinding(
		key.WithKeys("dd"),
		key.WithHelp("dd", "remove"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Clear: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "clear all"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "quit"),
	),
}

// Sections groups the bindings for the help view.
func (k KeyMap) Sections() []keymap.Section {
	return []keymap.Section{
		keymap.NewSection(keymap.SectionNavigation, k.Up, k.Down, k.Top, k.Bottom),
		keymap.NewSection(keymap.SectionPlayback, k.Play, k.VolumeUp, k.VolumeDown),
		keymap.NewSection(keymap.SectionCollection, k.Fetch, k.Remove, k.Reset, k.Clear),
		keymap.NewSection(keymap.SectionSystem, k.Help, k.Quit),
	}
}

// ShortHelp returns keybindings to be shown in the compact help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.VolumeUp, k.VolumeDown, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return keymap.Columns(k)
}

func (k KeyMap) sequences() []key.Binding {
	return []key.Binding{k.Top, k.Remove}
}
