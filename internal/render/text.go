package render

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// StripANSI removes SGR and other CSI escape sequences from a string.
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// VisibleWidth returns the number of display characters in a string, net of
// any embedded escape sequences. Padding math must use this, never len().
func VisibleWidth(s string) int {
	return utf8.RuneCountInString(StripANSI(s))
}

// PadVisible right-pads a string with spaces to the given visible width.
// Strings already at or past the width are returned unchanged.
func PadVisible(s string, width int) string {
	gap := width - VisibleWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// TruncateVisible shortens a string to at most width visible characters,
// ending in "..." when anything was cut. Escape sequences are dropped from
// the result; truncation of styled text is only used for overflow handling.
func TruncateVisible(s string, width int) string {
	plain := StripANSI(s)
	if utf8.RuneCountInString(plain) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(plain)[:width])
	}
	return string([]rune(plain)[:width-3]) + "..."
}

// FormatDuration renders milliseconds as m:ss, or h:mm:ss past an hour.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalSec := ms / 1000
	h := totalSec / 3600
	m := (totalSec % 3600) / 60
	s := totalSec % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// WrapText greedily word-wraps text to the given width. Continuation lines
// are prefixed with indent spaces, which count against the width. Words are
// never split: a word longer than the width gets a line to itself. Empty
// input yields a single empty line.
func WrapText(text string, width, indent int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	if width <= 0 {
		return []string{text}
	}

	prefix := strings.Repeat(" ", indent)
	lines := make([]string, 0, 1)
	cur := words[0]
	for _, word := range words[1:] {
		if utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(word) <= width {
			cur += " " + word
			continue
		}
		lines = append(lines, cur)
		cur = prefix + word
	}
	lines = append(lines, cur)
	return lines
}
