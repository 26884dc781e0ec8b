package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/amebalabs/KefirCLI/internal/render"
)

// printJSON writes v to stdout as a single JSON document.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes a plain table to stdout.
func printTable(headers []string, rows [][]string) {
	fmt.Print(render.Table(headers, rows))
}

// icon returns the emoji when the theme allows it, the fallback otherwise.
func icon(emoji, fallback string) string {
	if renderConfig().Emojis {
		return emoji
	}
	return fallback
}

// TruncateString truncates a string to maxLen, adding "..." if truncated.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// FormatDuration formats milliseconds as m:ss for human output.
func FormatDuration(ms int64) string {
	return render.FormatDuration(ms)
}
