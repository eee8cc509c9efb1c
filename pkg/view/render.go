package view

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/kakapo/pkg/swatches"
	"github.com/grovetools/kakapo/tui/theme"
	"golang.org/x/term"
)

const defaultWidth = 80

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// Render draws the tree as styled terminal text no wider than width.
func Render(n *Node, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	switch n.Component {
	case "DownloadList":
		return renderDownloads(n, width)
	case "Kakapo":
		return renderTiles(n, width)
	case "Mixer":
		return renderTiles(n, width)
	}
	return n.Text
}

func renderDownloads(n *Node, width int) string {
	t := theme.DefaultTheme
	if len(n.Children) == 0 {
		return t.Muted.Render("No downloads in progress")
	}
	barWidth := width / 3
	if barWidth < 10 {
		barWidth = 10
	}
	var lines []string
	for _, item := range n.Children {
		name, pct := item.Children[0].Text, item.Children[1].Text
		filled := progressCells(item.Attrs["data-progress"], barWidth)
		bar := t.Progress.Render(strings.Repeat("█", filled)) + t.Muted.Render(strings.Repeat("░", barWidth-filled))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(20).Render(theme.IconDownload+" "+name), bar, " "+pct))
	}
	return strings.Join(lines, "\n")
}

func renderTiles(n *Node, width int) string {
	var rows []string
	var row []string
	used := 0
	for _, item := range n.Children {
		tile := tileStyle(item).Render(tileLabel(item))
		w := lipgloss.Width(tile) + 1
		if used+w > width && len(row) > 0 {
			rows = append(rows, strings.Join(row, " "))
			row, used = nil, 0
		}
		row = append(row, tile)
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, " "))
	}
	return strings.Join(rows, "\n")
}

func tileStyle(item *Node) lipgloss.Style {
	key := item.Attrs["data-id"]
	if key == "" {
		key = item.Text
	}
	return swatches.For(key).Style()
}

func tileLabel(item *Node) string {
	if strings.Contains(item.Class, "playing") {
		return theme.IconPlay + " " + item.Text
	}
	return item.Text
}

func progressCells(raw string, width int) int {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	if v > 1 {
		v = 1
	}
	return int(v * float64(width))
}
