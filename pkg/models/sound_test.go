package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSoundDefaults(t *testing.T) {
	s := NewSound(Record{ID: "wind", Name: "Wind", Tags: "nature"})
	assert.Equal(t, "wind", s.ID)
	assert.Equal(t, SourceFile, s.Source)
	assert.Equal(t, DefaultVolume, s.Volume)
	assert.Equal(t, 1.0, s.Progress)
	assert.False(t, s.Playing)
	assert.True(t, s.Downloaded())

	remote := NewSound(Record{ID: "rain", Source: SourceYoutube})
	assert.Equal(t, 0.0, remote.Progress)
	assert.False(t, remote.Downloaded())

	clamped := NewSound(Record{ID: "x", Progress: Float(3), Volume: Float(-2)})
	assert.Equal(t, 1.0, clamped.Progress)
	assert.Equal(t, 0.0, clamped.Volume)
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{42, 1},
		{math.Inf(1), 1},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clamp(tt.in), "Clamp(%v)", tt.in)
	}
}

func TestPatchApply(t *testing.T) {
	s := Sound{ID: "wind", Source: SourceFile, Tags: "old", Progress: 0.2, Volume: 0.5}

	assert.True(t, Patch{}.Empty())
	assert.Equal(t, s, Patch{}.Apply(s))

	got := Patch{Tags: String("newTag"), Progress: Float(1.7)}.Apply(s)
	assert.Equal(t, "newTag", got.Tags)
	assert.Equal(t, 1.0, got.Progress)
	assert.Equal(t, "wind", got.ID)
	assert.Equal(t, SourceFile, got.Source)

	nan := Patch{Progress: Float(math.NaN())}.Apply(s)
	assert.Equal(t, 0.2, nan.Progress)
}
