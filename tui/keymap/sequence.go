package keymap

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// SequenceResult is the outcome of feeding one key to a SequenceState.
type SequenceResult int

const (
	// SequenceNone means the buffer matches nothing and never will.
	SequenceNone SequenceResult = iota
	// SequencePending means the buffer is a prefix of a bound sequence.
	SequencePending
	// SequenceMatch means the buffer completes a bound sequence.
	SequenceMatch
)

// SequenceState buffers keys for multi-key bindings. The buffer is dropped
// when more than timeout passes between keys.
type SequenceState struct {
	buffer     string
	lastUpdate time.Time
	timeout    time.Duration
	now        func() time.Time
}

// NewSequenceState creates a sequence state with a one second timeout.
func NewSequenceState() *SequenceState {
	return NewSequenceStateWithTimeout(time.Second)
}

// NewSequenceStateWithTimeout creates a sequence state with a custom timeout.
// A zero timeout never expires.
func NewSequenceStateWithTimeout(timeout time.Duration) *SequenceState {
	return &SequenceState{timeout: timeout, now: time.Now}
}

// Buffer returns the pending keys.
func (s *SequenceState) Buffer() string {
	return s.buffer
}

// Clear resets the buffer. Call it after acting on a match.
func (s *SequenceState) Clear() {
	s.buffer = ""
}

// Process appends msg to the buffer and matches it against bindings. On
// SequenceMatch the index of the matching binding is returned, otherwise -1.
// Bindings only take part when their keys are longer than one character.
func (s *SequenceState) Process(msg tea.KeyMsg, bindings ...key.Binding) (SequenceResult, int) {
	return s.ProcessKey(msg.String(), bindings...)
}

// ProcessKey is Process for a key string.
func (s *SequenceState) ProcessKey(k string, bindings ...key.Binding) (SequenceResult, int) {
	now := s.now()
	if s.timeout > 0 && now.Sub(s.lastUpdate) > s.timeout {
		s.buffer = ""
	}
	s.lastUpdate = now
	s.buffer += k

	pending := false
	for i, b := range bindings {
		for _, seq := range b.Keys() {
			if len(seq) < 2 {
				continue
			}
			if seq == s.buffer {
				return SequenceMatch, i
			}
			if strings.HasPrefix(seq, s.buffer) {
				pending = true
			}
		}
	}
	if pending {
		return SequencePending, -1
	}
	return SequenceNone, -1
}
