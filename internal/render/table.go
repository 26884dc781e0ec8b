package render

import "strings"

// Table lays out rows under headers. Each column is as wide as its longest
// cell or header; a dash separator row joined by cross characters sits
// between the header and the data.
func Table(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = VisibleWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := VisibleWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = PadVisible(cell, widths[i])
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, " | "), " "))
		b.WriteString("\n")
	}

	writeRow(headers)

	dashes := make([]string, len(widths))
	for i, w := range widths {
		dashes[i] = strings.Repeat("-", w)
	}
	b.WriteString(strings.Join(dashes, "-+-"))
	b.WriteString("\n")

	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}
