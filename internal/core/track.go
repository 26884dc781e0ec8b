package core

import "strings"

// Track describes the media currently loaded on the speaker.
type Track struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

// String renders the track as "Artist - Title", omitting missing parts.
func (t *Track) String() string {
	if t == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if t.Artist != "" {
		parts = append(parts, t.Artist)
	}
	if t.Title != "" {
		parts = append(parts, t.Title)
	}
	return strings.Join(parts, " - ")
}
