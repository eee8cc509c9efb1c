package actions

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestCommand(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Command
	}{
		{"init", `{"type":"SOUNDS_RECEIVED"}`, InitCommand{}},
		{"play", `{"type":"SOUNDS_PLAY","id":"wind"}`, PlayCommand{ID: "wind"}},
		{"volume", `{"type":"SOUNDS_VOLUME","id":"wind","value":0.25}`, VolumeCommand{ID: "wind", Value: 0.25}},
		{"edit", `{"type":"SOUNDS_EDIT","id":"wind","patch":{"tags":"newTag"}}`, EditCommand{ID: "wind", Patch: models.Patch{Tags: models.String("newTag")}}},
		{"remove", `{"type":"SOUNDS_REMOVE","id":"wind"}`, RemoveCommand{ID: "wind"}},
		{"reset", `{"type":"SOUNDS_RESET","to_empty":true}`, ResetCommand{ToEmpty: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req Request
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			cmd, err := req.Command()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
			assert.Equal(t, tt.want, mustCommand(t, NewRequest(cmd)))
		})
	}
}

func mustCommand(t *testing.T, r Request) Command {
	t.Helper()
	cmd, err := r.Command()
	require.NoError(t, err)
	return cmd
}

func TestRequestCommandErrors(t *testing.T) {
	for _, req := range []Request{
		{Type: TypePlay},
		{Type: TypeVolume, ID: "wind"},
		{Type: TypeRemove},
		{Type: "SOUNDS_SHUFFLE"},
	} {
		_, err := req.Command()
		assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err), string(req.Type))
	}
}

func TestNewRequestEncodesNonFiniteValues(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want Command
	}{
		{"volume +Inf", VolumeCommand{ID: "wind", Value: math.Inf(1)}, VolumeCommand{ID: "wind", Value: 1}},
		{"volume -Inf", VolumeCommand{ID: "wind", Value: math.Inf(-1)}, VolumeCommand{ID: "wind", Value: 0}},
		{"progress +Inf", EditCommand{ID: "wind", Patch: models.Patch{Progress: models.Float(math.Inf(1))}},
			EditCommand{ID: "wind", Patch: models.Patch{Progress: models.Float(1)}}},
		{"progress NaN", EditCommand{ID: "wind", Patch: models.Patch{Progress: models.Float(math.NaN())}},
			EditCommand{ID: "wind"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(NewRequest(tt.cmd))
			require.NoError(t, err)

			var req Request
			require.NoError(t, json.Unmarshal(data, &req))
			got, err := req.Command()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	data, err := json.Marshal(NewRequest(VolumeCommand{ID: "wind", Value: math.NaN()}))
	require.NoError(t, err)
	var req Request
	require.NoError(t, json.Unmarshal(data, &req))
	_, err = req.Command()
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
}
