// Package swatches holds the kakapo tile palette.
//
// Every sound tile is painted with one swatch. Dark swatches carry light
// foreground text, light swatches carry dark text.
package swatches

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects a subset of the palette.
type Mode string

const (
	// All is the full palette.
	All   Mode = ""
	Dark  Mode = "dark"
	Light Mode = "light"
)

// Swatch is a single named palette entry.
type Swatch struct {
	Name string `json:"name" yaml:"name"`
	Hex  string `json:"hex" yaml:"hex"`
	Mode Mode   `json:"mode" yaml:"mode"`
}

// Color returns the swatch as a lipgloss color.
func (s Swatch) Color() lipgloss.Color {
	return lipgloss.Color(s.Hex)
}

// Foreground returns the text color that reads on top of the swatch.
func (s Swatch) Foreground() lipgloss.Color {
	if s.Mode == Light {
		return lipgloss.Color("#1D1C19")
	}
	return lipgloss.Color("#F7F7FB")
}

// Style returns a tile style painted with the swatch.
func (s Swatch) Style() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(s.Color()).
		Foreground(s.Foreground()).
		Padding(0, 1)
}

var palette = []Swatch{
	{"red", "#F44336", Dark},
	{"pink", "#E91E63", Dark},
	{"purple", "#9C27B0", Dark},
	{"deep-purple", "#673AB7", Dark},
	{"indigo", "#3F51B5", Dark},
	{"blue", "#2196F3", Dark},
	{"light-blue", "#039BE5", Dark},
	{"cyan", "#00ACC1", Dark},
	{"teal", "#009688", Dark},
	{"green", "#43A047", Dark},
	{"light-green", "#689F38", Dark},
	{"orange", "#EF6C00", Dark},
	{"deep-orange", "#FF5722", Dark},
	{"brown", "#795548", Dark},
	{"grey", "#757575", Dark},
	{"blue-grey", "#607D8B", Dark},
	{"black", "#212121", Dark},
	{"lime", "#CDDC39", Light},
	{"yellow", "#FFEB3B", Light},
	{"amber", "#FFC107", Light},
}

// Swatches returns the palette entries for mode. An unknown mode returns the
// full palette.
func Swatches(mode Mode) []Swatch {
	if mode != Dark && mode != Light {
		return append([]Swatch(nil), palette...)
	}
	var out []Swatch
	for _, s := range palette {
		if s.Mode == mode {
			out = append(out, s)
		}
	}
	return out
}

// Hex returns only the color tokens for mode.
func Hex(mode Mode) []string {
	list := Swatches(mode)
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Hex
	}
	return out
}

// For picks a stable swatch for key, so a sound keeps its color across runs.
func For(key string) Swatch {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return palette[int(h.Sum32()%uint32(len(palette)))]
}

// Supported reports whether the terminal attached to stdout can show the
// palette in true color or ANSI256.
func Supported() bool {
	p := termenv.EnvColorProfile()
	return p == termenv.TrueColor || p == termenv.ANSI256
}
