package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/kakapo/config"
	"github.com/grovetools/kakapo/pkg/swatches"
)

const defaultThemeName = "kakapo"

// --- Kakapo palette: moss greens on a night-forest background ---
const (
	kakapoDarkGreen              = "#98BB6C"
	kakapoDarkYellow             = "#E6C384"
	kakapoDarkRed                = "#FF5D62"
	kakapoDarkOrange             = "#FFA066"
	kakapoDarkCyan               = "#7FB4CA"
	kakapoDarkViolet             = "#957FB8"
	kakapoDarkLightText          = "#DCD7BA"
	kakapoDarkMutedText          = "#727169"
	kakapoDarkBorder             = "#363646"
	kakapoDarkSelectedBackground = "#223249"

	kakapoLightGreen              = "#4E7C5A"
	kakapoLightYellow             = "#A68A64"
	kakapoLightRed                = "#C34043"
	kakapoLightOrange             = "#CC6B4E"
	kakapoLightCyan               = "#5B8BBE"
	kakapoLightViolet             = "#674D7A"
	kakapoLightLightText          = "#2B2F42"
	kakapoLightMutedText          = "#6C7086"
	kakapoLightBorder             = "#B5BDC5"
	kakapoLightSelectedBackground = "#E2E6F3"
)

// --- Terminal (ANSI-friendly) palette ---
const (
	terminalGreen              = "2"
	terminalYellow             = "3"
	terminalRed                = "1"
	terminalOrange             = "208"
	terminalCyan               = "6"
	terminalViolet             = "5"
	terminalLightText          = "7"
	terminalMutedText          = "8"
	terminalBorder             = "8"
	terminalSelectedBackground = "8"
)

// Colors encapsulates the palette used by a theme. lipgloss.TerminalColor
// allows a mix of adaptive and static colors.
type Colors struct {
	Green              lipgloss.TerminalColor
	Yellow             lipgloss.TerminalColor
	Red                lipgloss.TerminalColor
	Orange             lipgloss.TerminalColor
	Cyan               lipgloss.TerminalColor
	Violet             lipgloss.TerminalColor
	LightText          lipgloss.TerminalColor
	MutedText          lipgloss.TerminalColor
	Border             lipgloss.TerminalColor
	SelectedBackground lipgloss.TerminalColor
}

// Theme holds the pre-configured styles shared by the CLI, the mixer and the
// log formatter.
type Theme struct {
	Colors Colors

	Header lipgloss.Style
	Title  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style

	Box    lipgloss.Style
	Accent lipgloss.Style

	// Playing marks a sound that is currently audible.
	Playing lipgloss.Style
	// Progress renders download bars.
	Progress lipgloss.Style
}

var themeRegistry = map[string]func() Colors{
	"kakapo":   newKakapoColors,
	"terminal": newTerminalColors,
}

// DefaultTheme is the theme selected from KAKAPO_THEME or the tui config section.
var DefaultTheme = newThemeFromName(getThemeName())

// NewThemeWithName constructs a theme from a specific palette name.
func NewThemeWithName(name string) *Theme {
	return newThemeFromName(name)
}

// RenderHeader renders a header with the default styling.
func RenderHeader(title string) string {
	return DefaultTheme.Header.Render(title)
}

// RenderStatus renders text with the appropriate status style.
func RenderStatus(status, text string) string {
	switch status {
	case "success":
		return DefaultTheme.Success.Render(text)
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	case "info":
		return DefaultTheme.Info.Render(text)
	default:
		return text
	}
}

// Tile renders text on the stable swatch of a sound id.
func Tile(id, text string) string {
	return swatches.For(id).Style().Render(text)
}

func newThemeFromName(name string) *Theme {
	key := normalizeThemeName(name)
	builder, ok := themeRegistry[key]
	if !ok {
		builder = themeRegistry[defaultThemeName]
	}
	return newThemeFromColors(builder())
}

func newThemeFromColors(colors Colors) *Theme {
	return &Theme{
		Colors: colors,

		Header: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Underline(true),

		Success: lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(colors.Cyan),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(colors.MutedText),

		Selected: lipgloss.NewStyle().
			Background(colors.SelectedBackground).
			Foreground(colors.LightText).
			Bold(true),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),

		Accent: lipgloss.NewStyle().
			Foreground(colors.Violet).
			Bold(true),

		Playing: lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true),

		Progress: lipgloss.NewStyle().
			Foreground(colors.Orange),
	}
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")
	return normalized
}

func getThemeName() string {
	if theme := normalizeThemeName(os.Getenv("KAKAPO_THEME")); theme != "" {
		return theme
	}

	cfg, err := config.LoadDefault()
	if err != nil || cfg == nil {
		return defaultThemeName
	}

	var tuiCfg struct {
		Theme string `yaml:"theme"`
	}
	if err := cfg.UnmarshalExtension("tui", &tuiCfg); err == nil {
		if theme := normalizeThemeName(tuiCfg.Theme); theme != "" {
			return theme
		}
	}

	return defaultThemeName
}

func newKakapoColors() Colors {
	return Colors{
		Green:              lipgloss.AdaptiveColor{Light: kakapoLightGreen, Dark: kakapoDarkGreen},
		Yellow:             lipgloss.AdaptiveColor{Light: kakapoLightYellow, Dark: kakapoDarkYellow},
		Red:                lipgloss.AdaptiveColor{Light: kakapoLightRed, Dark: kakapoDarkRed},
		Orange:             lipgloss.AdaptiveColor{Light: kakapoLightOrange, Dark: kakapoDarkOrange},
		Cyan:               lipgloss.AdaptiveColor{Light: kakapoLightCyan, Dark: kakapoDarkCyan},
		Violet:             lipgloss.AdaptiveColor{Light: kakapoLightViolet, Dark: kakapoDarkViolet},
		LightText:          lipgloss.AdaptiveColor{Light: kakapoLightLightText, Dark: kakapoDarkLightText},
		MutedText:          lipgloss.AdaptiveColor{Light: kakapoLightMutedText, Dark: kakapoDarkMutedText},
		Border:             lipgloss.AdaptiveColor{Light: kakapoLightBorder, Dark: kakapoDarkBorder},
		SelectedBackground: lipgloss.AdaptiveColor{Light: kakapoLightSelectedBackground, Dark: kakapoDarkSelectedBackground},
	}
}

func newTerminalColors() Colors {
	return Colors{
		Green:              lipgloss.Color(terminalGreen),
		Yellow:             lipgloss.Color(terminalYellow),
		Red:                lipgloss.Color(terminalRed),
		Orange:             lipgloss.Color(terminalOrange),
		Cyan:               lipgloss.Color(terminalCyan),
		Violet:             lipgloss.Color(terminalViolet),
		LightText:          lipgloss.Color(terminalLightText),
		MutedText:          lipgloss.Color(terminalMutedText),
		Border:             lipgloss.Color(terminalBorder),
		SelectedBackground: lipgloss.Color(terminalSelectedBackground),
	}
}
