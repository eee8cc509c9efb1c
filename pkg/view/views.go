package view

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/grovetools/kakapo/pkg/models"
	"github.com/grovetools/kakapo/pkg/sounds"
	"github.com/grovetools/kakapo/pkg/swatches"
)

// DownloadList lists the sounds still downloading. An empty snapshot renders
// a bare div.
func DownloadList(snap sounds.Snapshot) *Node {
	if snap.Len() == 0 {
		return &Node{Tag: "div", Component: "DownloadList"}
	}
	list := &Node{Tag: "div", Component: "DownloadList", Class: "download-list"}
	for _, snd := range snap.Filter(func(s models.Sound) bool { return !s.Downloaded() }) {
		list.Children = append(list.Children, downloadItem(snd))
	}
	return list
}

func downloadItem(snd models.Sound) *Node {
	pct := int(snd.Progress * 100)
	return &Node{
		Tag:       "div",
		Component: "DownloadItem",
		Class:     "download-item",
		Attrs: map[string]string{
			"data-id":       snd.ID,
			"data-progress": strconv.FormatFloat(snd.Progress, 'f', 2, 64),
		},
		Children: []*Node{
			{Tag: "span", Class: "name", Text: snd.Name},
			{Tag: "span", Class: "progress", Text: fmt.Sprintf("%d%%", pct)},
		},
	}
}

// Kakapo renders the favourites panel, one KakapoItem per record.
func Kakapo(favs []models.Record) *Node {
	panel := &Node{Tag: "div", Component: "Kakapo", Class: "kakapo"}
	for _, r := range favs {
		panel.Children = append(panel.Children, kakapoItem(r))
	}
	return panel
}

func kakapoItem(r models.Record) *Node {
	key := r.ID
	if key == "" {
		key = r.Name
	}
	attrs := map[string]string{
		"data-source": string(r.Source),
		"style":       "background-color: " + swatches.For(key).Hex,
	}
	if r.Link != "" {
		attrs["data-link"] = r.Link
	}
	return &Node{
		Tag:       "div",
		Component: "KakapoItem",
		Class:     "kakapo-item",
		Attrs:     attrs,
		Text:      r.Name,
	}
}

// Mixer renders the whole collection as tiles.
func Mixer(snap sounds.Snapshot) *Node {
	grid := &Node{Tag: "div", Component: "Mixer", Class: "mixer"}
	for _, snd := range snap.Sounds {
		class := "sound"
		if snd.Playing {
			class += " playing"
		}
		if !snd.Downloaded() {
			class += " downloading"
		}
		grid.Children = append(grid.Children, &Node{
			Tag:       "div",
			Component: "SoundItem",
			Class:     class,
			Attrs: map[string]string{
				"data-id":     snd.ID,
				"data-volume": strconv.FormatFloat(snd.Volume, 'f', 2, 64),
				"style":       "background-color: " + swatches.For(snd.ID).Hex,
			},
			Text: snd.Name,
		})
	}
	return grid
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
