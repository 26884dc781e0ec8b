package render

import (
	"strings"
)

// Box draws a fixed-width bordered box around content lines. Content is
// right-padded to the interior width computed on visible length, so styled
// lines keep the right border aligned. Overlong lines are truncated.
func Box(title string, lines []string, width int, cfg Config) string {
	if width < 6 {
		width = 6
	}
	inner := width - 4 // two border characters and two padding spaces

	var b strings.Builder
	b.WriteString(cfg.styled(styleDim, "┌─"))
	if title != "" {
		label := " " + title + " "
		if VisibleWidth(label) > inner {
			label = TruncateVisible(label, inner)
		}
		b.WriteString(cfg.styled(styleAccent, label))
		b.WriteString(cfg.styled(styleDim, strings.Repeat("─", width-4-VisibleWidth(label))+"─┐"))
	} else {
		b.WriteString(cfg.styled(styleDim, strings.Repeat("─", width-4)+"─┐"))
	}
	b.WriteString("\r\n")

	for _, line := range lines {
		if VisibleWidth(line) > inner {
			line = TruncateVisible(line, inner)
		}
		b.WriteString(cfg.styled(styleDim, "│"))
		b.WriteString(" " + PadVisible(line, inner) + " ")
		b.WriteString(cfg.styled(styleDim, "│"))
		b.WriteString("\r\n")
	}

	b.WriteString(cfg.styled(styleDim, "└"+strings.Repeat("─", width-2)+"┘"))
	b.WriteString("\r\n")
	return b.String()
}
