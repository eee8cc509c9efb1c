package mixer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/kakapo/pkg/models"
	"github.com/grovetools/kakapo/tui/theme"
)

const volumeCells = 10

// View renders the mixer.
func (m *Model) View() string {
	t := theme.DefaultTheme
	var b strings.Builder

	b.WriteString(theme.RenderHeader("kakapo"))
	b.WriteString("\n\n")

	if m.snap.Len() == 0 {
		b.WriteString(t.Muted.Render("No sounds. Press i to fetch the catalog."))
		b.WriteString("\n")
	}
	for i, snd := range m.snap.Sounds {
		b.WriteString(m.row(i, snd))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(theme.RenderStatus("error", theme.IconError+" "+m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(t.Muted.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) row(i int, snd models.Sound) string {
	t := theme.DefaultTheme

	cursor := "  "
	if i == m.cursor {
		cursor = t.Accent.Render(theme.IconSelect) + " "
	}

	state := theme.IconPause
	if snd.Playing {
		state = t.Playing.Render(theme.IconPlay)
	}
	if !snd.Downloaded() {
		state = t.Progress.Render(fmt.Sprintf("%s %3.0f%%", theme.IconDownload, snd.Progress*100))
	}

	name := theme.Tile(snd.ID, fmt.Sprintf(" %-14s ", truncate(snd.Name, 14)))
	line := lipgloss.JoinHorizontal(lipgloss.Top,
		cursor, name, " ", volumeBar(snd.Volume), " ", state,
	)
	if i == m.cursor {
		return t.Selected.Render(line)
	}
	return line
}

func volumeBar(v float64) string {
	t := theme.DefaultTheme
	filled := int(models.Clamp(v)*volumeCells + 0.5)
	return theme.IconVolume + " " +
		t.Accent.Render(strings.Repeat("█", filled)) +
		t.Muted.Render(strings.Repeat("░", volumeCells-filled))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
