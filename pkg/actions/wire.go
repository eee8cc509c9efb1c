package actions

import (
	"fmt"
	"math"

	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/pkg/models"
)

// Request is the JSON form of a Command used by the daemon API.
type Request struct {
	Type    Type          `json:"type"`
	ID      string        `json:"id,omitempty"`
	Value   *float64      `json:"value,omitempty"`
	Patch   *models.Patch `json:"patch,omitempty"`
	ToEmpty bool          `json:"to_empty,omitempty"`
}

// NewRequest encodes cmd for the wire. JSON has no infinities, so volumes and
// progress are clamped here the same way the store would clamp them. A NaN
// volume has no encoding and leaves Value unset.
func NewRequest(cmd Command) Request {
	switch c := cmd.(type) {
	case PlayCommand:
		return Request{Type: TypePlay, ID: c.ID}
	case VolumeCommand:
		req := Request{Type: TypeVolume, ID: c.ID}
		if !math.IsNaN(c.Value) {
			req.Value = models.Float(models.Clamp(c.Value))
		}
		return req
	case EditCommand:
		patch := c.Patch.Normalized()
		return Request{Type: TypeEdit, ID: c.ID, Patch: &patch}
	case RemoveCommand:
		return Request{Type: TypeRemove, ID: c.ID}
	case ResetCommand:
		return Request{Type: TypeReset, ToEmpty: c.ToEmpty}
	default:
		return Request{Type: TypeReceived}
	}
}

// Command decodes the request. Play, volume, edit and remove need an id;
// volume needs a value.
func (r Request) Command() (Command, error) {
	needID := func() error {
		if r.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("%s requires an id", r.Type))
		}
		return nil
	}
	switch r.Type {
	case TypeReceived:
		return InitCommand{}, nil
	case TypePlay:
		if err := needID(); err != nil {
			return nil, err
		}
		return PlayCommand{ID: r.ID}, nil
	case TypeVolume:
		if err := needID(); err != nil {
			return nil, err
		}
		if r.Value == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "SOUNDS_VOLUME requires a value")
		}
		return VolumeCommand{ID: r.ID, Value: *r.Value}, nil
	case TypeEdit:
		if err := needID(); err != nil {
			return nil, err
		}
		var patch models.Patch
		if r.Patch != nil {
			patch = *r.Patch
		}
		return EditCommand{ID: r.ID, Patch: patch}, nil
	case TypeRemove:
		if err := needID(); err != nil {
			return nil, err
		}
		return RemoveCommand{ID: r.ID}, nil
	case TypeReset:
		return ResetCommand{ToEmpty: r.ToEmpty}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown action type %q", r.Type))
	}
}
