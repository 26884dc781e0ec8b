package render

import (
	"fmt"
	"strings"
)

const (
	barFilled = "━"
	barEmpty  = "─"
)

// ProgressBar renders value/max as width cells of filled and empty glyphs
// followed by a right-aligned percentage. The filled cell count is
// floor(width * value / max); the percentage floors the same way.
func ProgressBar(value, max, width int, cfg Config) string {
	if width <= 0 {
		return ""
	}
	if max <= 0 {
		max = 1
	}
	if value < 0 {
		value = 0
	}
	if value > max {
		value = max
	}

	filled := width * value / max
	percent := 100 * value / max

	bar := cfg.styled(styleBar, strings.Repeat(barFilled, filled)) +
		cfg.styled(styleBarOff, strings.Repeat(barEmpty, width-filled))

	return fmt.Sprintf("%s %3d%%", bar, percent)
}
