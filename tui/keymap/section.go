// Package keymap groups key bindings into help sections and resolves
// multi-key sequences such as "dd" or "gg".
package keymap

import "github.com/charmbracelet/bubbles/key"

// Standard section names, shared by every view so help screens read the same.
const (
	SectionNavigation = "Navigation"
	SectionPlayback   = "Playback"
	SectionCollection = "Collection"
	SectionSystem     = "System"
)

// Section is a named group of bindings for help display.
type Section struct {
	Name     string
	Bindings []key.Binding
}

// SectionedKeyMap is implemented by keymaps that organize their bindings
// into sections.
type SectionedKeyMap interface {
	Sections() []Section
}

// NewSection creates a section with a custom name.
func NewSection(name string, bindings ...key.Binding) Section {
	return Section{Name: name, Bindings: bindings}
}

// FilterEnabled returns only the enabled bindings.
func (s Section) FilterEnabled() []key.Binding {
	var result []key.Binding
	for _, b := range s.Bindings {
		if b.Enabled() {
			result = append(result, b)
		}
	}
	return result
}

// IsEmpty returns true if the section has no enabled bindings.
func (s Section) IsEmpty() bool {
	return len(s.FilterEnabled()) == 0
}

// Columns converts sections to the column layout used by bubbles/help,
// skipping empty ones.
func Columns(km SectionedKeyMap) [][]key.Binding {
	var cols [][]key.Binding
	for _, s := range km.Sections() {
		if b := s.FilterEnabled(); len(b) > 0 {
			cols = append(cols, b)
		}
	}
	return cols
}
