// Package actions routes named sound operations to the collection store and
// reports what happened as an Action descriptor.
package actions

import (
	"github.com/grovetools/kakapo/pkg/models"
)

// Type names an operation on the sound collection.
type Type string

const (
	TypeReceived Type = "SOUNDS_RECEIVED"
	TypeHydrated Type = "SOUNDS_HYDRATED"
	TypePlay     Type = "SOUNDS_PLAY"
	TypeVolume   Type = "SOUNDS_VOLUME"
	TypeEdit     Type = "SOUNDS_EDIT"
	TypeRemove   Type = "SOUNDS_REMOVE"
	TypeReset    Type = "SOUNDS_RESET"
)

// Action describes the outcome of one dispatched operation.
type Action struct {
	Type Type   `json:"type"`
	ID   string `json:"id,omitempty"`
	// Payload echoes the operation argument: the volume, the patch or the
	// reset flag.
	Payload interface{} `json:"payload,omitempty"`
	// Count is the number of records received for init, and the collection
	// size after the operation otherwise.
	Count int `json:"count"`
	// Found is false when the operation targeted an id that is not in the
	// collection. Such operations change nothing.
	Found bool          `json:"found"`
	Sound *models.Sound `json:"sound,omitempty"`
}

// Command is a typed request accepted by Dispatch.
type Command interface {
	command() Type
}

// InitCommand fetches the catalog and replaces the collection.
type InitCommand struct{}

// PlayCommand toggles playback.
type PlayCommand struct {
	ID string `json:"id"`
}

// VolumeCommand sets the volume, clamped into [0,1].
type VolumeCommand struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
}

// EditCommand merges a patch into a sound.
type EditCommand struct {
	ID    string       `json:"id"`
	Patch models.Patch `json:"patch"`
}

// RemoveCommand deletes a sound.
type RemoveCommand struct {
	ID string `json:"id"`
}

// ResetCommand empties the collection or restores the baseline.
type ResetCommand struct {
	ToEmpty bool `json:"to_empty"`
}

func (InitCommand) command() Type   { return TypeReceived }
func (PlayCommand) command() Type   { return TypePlay }
func (VolumeCommand) command() Type { return TypeVolume }
func (EditCommand) command() Type   { return TypeEdit }
func (RemoveCommand) command() Type { return TypeRemove }
func (ResetCommand) command() Type  { return TypeReset }

// InitResult is delivered by InitAsync.
type InitResult struct {
	Action Action
	Err    error
}

// Observer is notified after every dispatched operation.
type Observer func(a Action, err error)
