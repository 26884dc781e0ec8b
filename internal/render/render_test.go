package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/amebalabs/KefirCLI/internal/core"
)

var plain = Config{} // no colors, no emojis

func TestProgressBar(t *testing.T) {
	got := ProgressBar(65, 100, 40, plain)

	filled := strings.Count(got, barFilled)
	empty := strings.Count(got, barEmpty)
	if filled != 26 {
		t.Errorf("filled cells = %d, want 26", filled)
	}
	if empty != 14 {
		t.Errorf("empty cells = %d, want 14", empty)
	}
	if !strings.HasSuffix(got, " 65%") {
		t.Errorf("ProgressBar() = %q, want right-aligned 65%% suffix", got)
	}
}

func TestProgressBarBounds(t *testing.T) {
	tests := []struct {
		name       string
		value, max int
		filled     int
		percent    string
	}{
		{"zero", 0, 100, 0, "  0%"},
		{"full", 100, 100, 10, "100%"},
		{"over", 150, 100, 10, "100%"},
		{"negative", -5, 100, 0, "  0%"},
		{"floor", 99, 100, 9, " 99%"},
		{"zero max", 50, 0, 10, "100%"}, // clamped to max=1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressBar(tt.value, tt.max, 10, plain)
			if n := strings.Count(got, barFilled); n != tt.filled {
				t.Errorf("filled = %d, want %d", n, tt.filled)
			}
			if !strings.HasSuffix(got, tt.percent) {
				t.Errorf("ProgressBar() = %q, want %q suffix", got, tt.percent)
			}
		})
	}
}

func TestWrapText(t *testing.T) {
	lines := WrapText("a very long line of words", 10, 0)

	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > 10 {
			t.Errorf("line %q is %d chars, want <= 10", line, n)
		}
	}

	// No word may be split across lines.
	rejoined := strings.Fields(strings.Join(lines, " "))
	original := strings.Fields("a very long line of words")
	if len(rejoined) != len(original) {
		t.Fatalf("wrap split or merged words: %v", lines)
	}
	for i := range original {
		if rejoined[i] != original[i] {
			t.Errorf("word %d = %q, want %q", i, rejoined[i], original[i])
		}
	}
}

func TestWrapTextCases(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		width  int
		indent int
		want   []string
	}{
		{"empty", "", 10, 0, []string{""}},
		{"blank", "   ", 10, 0, []string{""}},
		{"fits", "short", 10, 0, []string{"short"}},
		{"exact", "ab cd", 5, 0, []string{"ab cd"}},
		{"overlong word alone", "hi extraordinarily no", 10, 0, []string{"hi", "extraordinarily", "no"}},
		{"indented continuation", "one two three", 7, 2, []string{"one two", "  three"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.width, tt.indent)
			if len(got) != len(tt.want) {
				t.Fatalf("WrapText() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStripANSI(t *testing.T) {
	styled := "\x1b[1m\x1b[38;5;200mloud\x1b[0m quiet"
	if got := StripANSI(styled); got != "loud quiet" {
		t.Errorf("StripANSI() = %q, want %q", got, "loud quiet")
	}
	if got := VisibleWidth(styled); got != 10 {
		t.Errorf("VisibleWidth() = %d, want 10", got)
	}
}

func TestBoxPadsOnVisibleWidth(t *testing.T) {
	styled := "\x1b[32mgreen\x1b[0m" // 5 visible chars wrapped in SGR codes
	box := Box("T", []string{styled, "plain"}, 20, plain)

	for _, line := range strings.Split(strings.TrimRight(box, "\r\n"), "\r\n") {
		if w := VisibleWidth(line); w != 20 {
			t.Errorf("box line %q has visible width %d, want 20", line, w)
		}
	}

	// The styled content must survive the padding.
	if !strings.Contains(box, styled) {
		t.Error("styled content was altered by padding")
	}
}

func TestBoxTruncatesOverflow(t *testing.T) {
	box := Box("", []string{"a line far too long for such a narrow box"}, 16, plain)
	for _, line := range strings.Split(strings.TrimRight(box, "\r\n"), "\r\n") {
		if w := VisibleWidth(line); w != 16 {
			t.Errorf("box line %q has visible width %d, want 16", line, w)
		}
	}
}

func TestTable(t *testing.T) {
	got := Table(
		[]string{"NAME", "HOST"},
		[][]string{
			{"Living Room", "10.0.0.93"},
			{"Desk", "10.0.0.94"},
		},
	)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Table() produced %d lines, want 4", len(lines))
	}

	// Column width equals the widest cell: "Living Room" (11 chars).
	if !strings.HasPrefix(lines[0], "NAME        | HOST") {
		t.Errorf("header = %q, want NAME padded to 11", lines[0])
	}
	if lines[1] != "------------+----------" {
		t.Errorf("separator = %q, want dashes joined by -+-", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Living Room | 10.0.0.93") {
		t.Errorf("row = %q", lines[2])
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0:00"},
		{-100, "0:00"},
		{61000, "1:01"},
		{215000, "3:35"},
		{3600000, "1:00:00"},
		{3725000, "1:02:05"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestScreenIsPure(t *testing.T) {
	pos := int64(61000)
	dur := 215000
	snap := core.Snapshot{
		Volume:     65,
		Source:     core.SourceWifi,
		Playing:    true,
		Track:      &core.Track{Title: "Hey Now", Artist: "London Grammar", Album: "If You Wait"},
		PositionMs: &pos,
		DurationMs: &dur,
	}

	first := Screen("Living Room", snap, plain, 60)
	second := Screen("Living Room", snap, plain, 60)
	if first != second {
		t.Error("Screen() is not deterministic for identical inputs")
	}

	if !strings.Contains(first, "Hey Now") {
		t.Error("Screen() missing track title")
	}
	if !strings.Contains(first, "Wi-Fi") {
		t.Error("Screen() missing source name")
	}
	if !strings.Contains(first, "1:01 / 3:35") {
		t.Error("Screen() missing position/duration")
	}
	if !strings.Contains(first, " 65%") {
		t.Error("Screen() missing volume percentage")
	}
}

func TestScreenNothingPlaying(t *testing.T) {
	got := Screen("Desk", core.Snapshot{Volume: 20, Source: core.SourceOptic}, plain, 50)
	if !strings.Contains(got, "Nothing playing") {
		t.Error("Screen() missing idle message")
	}
}

func TestSourceMenuMarksCurrent(t *testing.T) {
	got := SourceMenu(core.SourceTV, plain, 50)

	if !strings.Contains(got, "● 3. TV") {
		t.Errorf("SourceMenu() does not mark the current source:\n%s", got)
	}
	for i, s := range core.Sources {
		want := s.DisplayName()
		if !strings.Contains(got, want) {
			t.Errorf("SourceMenu() missing %q", want)
		}
		_ = i
	}
}

func TestStatusLine(t *testing.T) {
	if got := StatusLine("", false, plain, 60); got != "" {
		t.Errorf("StatusLine(\"\") = %q, want empty", got)
	}

	got := StatusLine("volume set", false, plain, 60)
	if !strings.Contains(got, "volume set") {
		t.Errorf("StatusLine() = %q", got)
	}

	errLine := StatusLine("speaker unreachable", true, plain, 60)
	if !strings.Contains(errLine, "! speaker unreachable") {
		t.Errorf("StatusLine(error) = %q, want plain-text error marker", errLine)
	}
}
