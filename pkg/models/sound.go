package models

import "math"

// Default values applied to freshly created sounds.
const (
	DefaultVolume = 0.5
	MaxProgress   = 1.0
)

// Source identifies where a sound came from. It is fixed at creation.
type Source string

const (
	SourceFile       Source = "file"
	SourceURL        Source = "url"
	SourceYoutube    Source = "youtube"
	SourceSoundcloud Source = "soundcloud"
)

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	switch s {
	case SourceFile, SourceURL, SourceYoutube, SourceSoundcloud:
		return true
	}
	return false
}

// Sound is one entry of the sound collection.
type Sound struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Source   Source  `json:"source" yaml:"source"`
	File     string  `json:"file,omitempty" yaml:"file,omitempty"`
	Img      string  `json:"img,omitempty" yaml:"img,omitempty"`
	Link     string  `json:"link,omitempty" yaml:"link,omitempty"`
	Tags     string  `json:"tags" yaml:"tags"`
	Progress float64 `json:"progress" yaml:"progress"`
	Playing  bool    `json:"playing" yaml:"playing"`
	Volume   float64 `json:"volume" yaml:"volume"`
}

// Downloaded reports whether the sound is fully available for playback.
func (s Sound) Downloaded() bool {
	return s.Progress >= MaxProgress
}

// Record is a raw sound description as delivered by a catalog.
type Record struct {
	ID       string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string   `json:"name" yaml:"name"`
	Source   Source   `json:"source,omitempty" yaml:"source,omitempty"`
	File     string   `json:"file,omitempty" yaml:"file,omitempty"`
	Img      string   `json:"img,omitempty" yaml:"img,omitempty"`
	Link     string   `json:"link,omitempty" yaml:"link,omitempty"`
	Tags     string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	Progress *float64 `json:"progress,omitempty" yaml:"progress,omitempty"`
	Volume   *float64 `json:"volume,omitempty" yaml:"volume,omitempty"`
}

// NewSound builds a Sound from a catalog record. Unknown sources default to
// SourceFile. Bundled files start fully downloaded, remote sources start at 0
// unless the record says otherwise.
func NewSound(r Record) Sound {
	src := r.Source
	if !src.Valid() {
		src = SourceFile
	}
	progress := 0.0
	if src == SourceFile {
		progress = MaxProgress
	}
	if r.Progress != nil {
		progress = Clamp(*r.Progress)
	}
	volume := DefaultVolume
	if r.Volume != nil {
		volume = Clamp(*r.Volume)
	}
	return Sound{
		ID:       r.ID,
		Name:     r.Name,
		Source:   src,
		File:     r.File,
		Img:      r.Img,
		Link:     r.Link,
		Tags:     r.Tags,
		Progress: progress,
		Volume:   volume,
	}
}

// Patch is a typed partial update for a Sound. Nil fields are left untouched.
// ID and Source are deliberately absent.
type Patch struct {
	Name     *string  `json:"name,omitempty" yaml:"name,omitempty"`
	Tags     *string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	File     *string  `json:"file,omitempty" yaml:"file,omitempty"`
	Img      *string  `json:"img,omitempty" yaml:"img,omitempty"`
	Link     *string  `json:"link,omitempty" yaml:"link,omitempty"`
	Progress *float64 `json:"progress,omitempty" yaml:"progress,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Tags == nil && p.File == nil &&
		p.Img == nil && p.Link == nil && p.Progress == nil
}

// Normalized returns the patch as Apply sees it: Progress clamped into [0,1],
// or dropped when it is NaN.
func (p Patch) Normalized() Patch {
	if p.Progress != nil {
		if math.IsNaN(*p.Progress) {
			p.Progress = nil
		} else {
			p.Progress = Float(Clamp(*p.Progress))
		}
	}
	return p
}

// Apply merges the patch into s and returns the result.
func (p Patch) Apply(s Sound) Sound {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Tags != nil {
		s.Tags = *p.Tags
	}
	if p.File != nil {
		s.File = *p.File
	}
	if p.Img != nil {
		s.Img = *p.Img
	}
	if p.Link != nil {
		s.Link = *p.Link
	}
	if p.Progress != nil && !math.IsNaN(*p.Progress) {
		s.Progress = Clamp(*p.Progress)
	}
	return s
}

// Clamp limits v to [0,1]. NaN maps to 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// String returns a pointer to v, for building patches.
func String(v string) *string { return &v }

// Float returns a pointer to v, for building patches and records.
func Float(v float64) *float64 { return &v }
