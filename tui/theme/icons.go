package theme

import "os"

// Nerd Font icons
const (
	nerdIconPlay     = "\uf04b"     // fa-play (U+F04B)
	nerdIconPause    = "\uf04c"     // fa-pause (U+F04C)
	nerdIconDownload = "\U000f01da" // md-download (U+F01DA)
	nerdIconVolume   = "\U000f057e" // md-volume_high (U+F057E)
	nerdIconSuccess  = "\U000f012c" // md-check (U+F012C)
	nerdIconError    = "\uea87"     // cod-error (U+EA87)
	nerdIconSelect   = "\U000f0054" // md-arrow_right (U+F0054)
)

// ASCII fallback icons
const (
	asciiIconPlay     = "▶"
	asciiIconPause    = "‖"
	asciiIconDownload = "↓"
	asciiIconVolume   = "♪"
	asciiIconSuccess  = "✓"
	asciiIconError    = "✗"
	asciiIconSelect   = ">"
)

var (
	IconPlay     string
	IconPause    string
	IconDownload string
	IconVolume   string
	IconSuccess  string
	IconError    string
	IconSelect   string
)

func init() {
	if os.Getenv("KAKAPO_ICONS") == "ascii" {
		IconPlay = asciiIconPlay
		IconPause = asciiIconPause
		IconDownload = asciiIconDownload
		IconVolume = asciiIconVolume
		IconSuccess = asciiIconSuccess
		IconError = asciiIconError
		IconSelect = asciiIconSelect
		return
	}
	IconPlay = nerdIconPlay
	IconPause = nerdIconPause
	IconDownload = nerdIconDownload
	IconVolume = nerdIconVolume
	IconSuccess = nerdIconSuccess
	IconError = nerdIconError
	IconSelect = nerdIconSelect
}
