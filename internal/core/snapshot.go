package core

import (
	"github.com/mitchellh/hashstructure/v2"
)

// Snapshot is a complete, self-consistent view of speaker state at one
// instant. It is a value type: the interactive loop replaces it wholesale on
// every merge and never mutates one in place.
type Snapshot struct {
	Volume     int     `json:"volume"`
	Muted      bool    `json:"muted"`
	Source     Source  `json:"source"`
	Playing    bool    `json:"playing"`
	Track      *Track  `json:"track,omitempty"`
	PositionMs *int64  `json:"position_ms,omitempty"`
	DurationMs *int    `json:"duration_ms,omitempty"`
}

// HasTrack returns true if there is an active track.
func (s Snapshot) HasTrack() bool {
	return s.Track != nil
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s Snapshot) ProgressPercent() float64 {
	if s.PositionMs == nil || s.DurationMs == nil || *s.DurationMs == 0 {
		return 0
	}
	return float64(*s.PositionMs) / float64(*s.DurationMs) * 100
}

// Hash returns a structural hash of the snapshot, following pointer fields
// into their values. Two snapshots that differ in any field, including
// nested track info, hash differently.
func (s Snapshot) Hash() uint64 {
	h, err := hashstructure.Hash(s, hashstructure.FormatV2, nil)
	if err != nil {
		return 0
	}
	return h
}

// Equal reports whether two snapshots are structurally identical.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.Hash() == other.Hash()
}

// ClampVolume bounds a volume value to the speaker's 0-100 range.
func ClampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
