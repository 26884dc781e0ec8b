package render

import (
	"fmt"
	"strings"

	"github.com/amebalabs/KefirCLI/internal/core"
)

// SourceIcon returns an emoji for the source, or an empty string when
// emojis are disabled.
func SourceIcon(s core.Source, cfg Config) string {
	if !cfg.Emojis {
		return ""
	}
	switch s {
	case core.SourceWifi:
		return "📶 "
	case core.SourceBluetooth:
		return "🔵 "
	case core.SourceTV:
		return "📺 "
	case core.SourceOptic:
		return "💿 "
	case core.SourceCoaxial:
		return "🔌 "
	case core.SourceAnalog:
		return "🎚 "
	case core.SourceUSB:
		return "💾 "
	default:
		return ""
	}
}

// PlayIcon returns the playback state marker.
func PlayIcon(playing bool, cfg Config) string {
	if playing {
		return cfg.styled(stylePlaying, cfg.icon("▶", ">"))
	}
	return cfg.styled(stylePaused, cfg.icon("⏸", "||"))
}

// Screen composes the full interactive frame for one snapshot. It is a pure
// function: same snapshot, config, and width always produce the same bytes.
func Screen(name string, snap core.Snapshot, cfg Config, width int) string {
	if width < 40 {
		width = 40
	}
	if width > 100 {
		width = 100
	}

	var b strings.Builder

	// Speaker box: source and volume.
	barWidth := width - 24
	if barWidth < 10 {
		barWidth = 10
	}
	volume := ProgressBar(snap.Volume, 100, barWidth, cfg)
	if snap.Muted {
		volume += " " + cfg.styled(styleError, cfg.icon("🔇", "[muted]"))
	}
	statusLines := []string{
		fmt.Sprintf("Source: %s%s", SourceIcon(snap.Source, cfg), cfg.styled(styleAccent, snap.Source.DisplayName())),
		fmt.Sprintf("Volume: %s", volume),
	}
	b.WriteString(Box(name, statusLines, width, cfg))

	// Now-playing box.
	var playLines []string
	switch {
	case snap.HasTrack():
		title := snap.Track.Title
		if title == "" {
			title = "(unknown title)"
		}
		playLines = append(playLines, fmt.Sprintf("%s %s", PlayIcon(snap.Playing, cfg), cfg.styled(styleTitle, title)))
		if snap.Track.Artist != "" || snap.Track.Album != "" {
			detail := snap.Track.Artist
			if snap.Track.Album != "" {
				if detail != "" {
					detail += " - "
				}
				detail += snap.Track.Album
			}
			playLines = append(playLines, "  "+cfg.styled(styleMuted, detail))
		}
		if snap.PositionMs != nil && snap.DurationMs != nil && *snap.DurationMs > 0 {
			progress := ProgressBar(int(*snap.PositionMs), *snap.DurationMs, barWidth, cfg)
			playLines = append(playLines, fmt.Sprintf("%s  %s / %s",
				progress,
				FormatDuration(*snap.PositionMs),
				FormatDuration(int64(*snap.DurationMs))))
		}
	case snap.Playing:
		playLines = append(playLines, fmt.Sprintf("%s %s", PlayIcon(true, cfg), cfg.styled(styleMuted, "(no track info)")))
	default:
		playLines = append(playLines, cfg.styled(styleMuted, "Nothing playing"))
	}
	b.WriteString(Box("Now Playing", playLines, width, cfg))

	return b.String()
}

// KeyHints renders the one-line key legend shown under the interactive frame.
func KeyHints(cfg Config, width int) string {
	hints := "[space] play/pause  [+/-] volume  [m]ute  [s]ource  [p]ower  [h]elp  [q]uit"
	return " " + cfg.styled(styleDim, TruncateVisible(hints, width-2)) + "\r\n"
}

// HelpScreen renders the help modal.
func HelpScreen(cfg Config, width int) string {
	if width < 40 {
		width = 40
	}
	if width > 72 {
		width = 72
	}

	keys := []struct{ key, action string }{
		{"space", "play / pause"},
		{"+ / = / up arrow", "volume up (5 steps)"},
		{"- / _ / down arrow", "volume down (5 steps)"},
		{"shift+up / shift+down", "fine volume (1 step)"},
		{"right / left arrow", "next / previous track"},
		{"m", "toggle mute"},
		{"s", "change source"},
		{"p", "power on / off"},
		{"r", "refresh now"},
		{"h or ?", "this help"},
		{"q or ctrl-c", "quit"},
	}

	lines := make([]string, 0, len(keys)+2)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%-22s %s", k.key, k.action))
	}
	lines = append(lines, "")
	lines = append(lines, cfg.styled(styleMuted, "press any key to close"))

	return Box("Help", lines, width, cfg)
}

// SourceMenu renders the source-selection modal. The current source is
// marked; entries are numbered to match the digit keys that select them.
func SourceMenu(current core.Source, cfg Config, width int) string {
	if width < 40 {
		width = 40
	}
	if width > 60 {
		width = 60
	}

	lines := make([]string, 0, len(core.Sources)+2)
	for i, s := range core.Sources {
		marker := " "
		label := fmt.Sprintf("%d. %s%s", i+1, SourceIcon(s, cfg), s.DisplayName())
		if s == current {
			marker = cfg.styled(stylePlaying, "●")
			label = cfg.styled(styleAccent, label)
		}
		lines = append(lines, fmt.Sprintf("%s %s", marker, label))
	}
	lines = append(lines, "")
	lines = append(lines, cfg.styled(styleMuted, fmt.Sprintf("press 1-%d, any other key cancels", len(core.Sources))))

	return Box("Select Source", lines, width, cfg)
}

// StatusLine renders the transient message line shown under the frame.
func StatusLine(msg string, isError bool, cfg Config, width int) string {
	if msg == "" {
		return ""
	}
	style := styleMuted
	prefix := ""
	if isError {
		style = styleError
		prefix = cfg.icon("⚠️  ", "! ")
	}
	return " " + prefix + cfg.styled(style, TruncateVisible(msg, width-4)) + "\r\n"
}
