// Package render turns speaker state into terminal text. Every function is
// pure: output depends only on its arguments, and styling is controlled by
// an explicit Config value rather than process-wide flags.
package render

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Config selects the render mode for one call. The interactive session and
// the CLI build it from the persisted theme once and pass it everywhere.
type Config struct {
	Colors bool
	Emojis bool
}

// Colors come from the catppuccin Mocha flavor.
var flavor = catppuccin.Mocha

var (
	colorAccent  = lipgloss.Color(flavor.Mauve().Hex)
	colorPlaying = lipgloss.Color(flavor.Green().Hex)
	colorPaused  = lipgloss.Color(flavor.Yellow().Hex)
	colorError   = lipgloss.Color(flavor.Red().Hex)
	colorText    = lipgloss.Color(flavor.Text().Hex)
	colorMuted   = lipgloss.Color(flavor.Subtext0().Hex)
	colorDim     = lipgloss.Color(flavor.Overlay0().Hex)
	colorSurface = lipgloss.Color(flavor.Surface0().Hex)
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	styleAccent  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	stylePlaying = lipgloss.NewStyle().Foreground(colorPlaying)
	stylePaused  = lipgloss.NewStyle().Foreground(colorPaused)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleBar     = lipgloss.NewStyle().Foreground(colorAccent)
	styleBarOff  = lipgloss.NewStyle().Foreground(colorSurface)
)

// styled applies a lipgloss style only when colors are enabled.
func (c Config) styled(style lipgloss.Style, s string) string {
	if !c.Colors {
		return s
	}
	return style.Render(s)
}

// icon returns the emoji when emojis are enabled, otherwise the fallback.
func (c Config) icon(emoji, fallback string) string {
	if c.Emojis {
		return emoji
	}
	return fallback
}
