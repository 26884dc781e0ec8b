package core

import "testing"

func intp(v int) *int          { return &v }
func int64p(v int64) *int64    { return &v }
func boolp(v bool) *bool       { return &v }
func sourcep(s Source) *Source { return &s }

func TestApplyLastWriteWins(t *testing.T) {
	start := Snapshot{Volume: 30, Source: SourceWifi}

	events := []UpdateEvent{
		{Volume: intp(40)},
		{Volume: intp(55), Playing: boolp(true)},
		{Source: sourcep(SourceBluetooth)},
		{Volume: intp(55)}, // repeat of current value
	}

	cur := start
	for i, ev := range events {
		cur, _ = Apply(cur, ev)
		_ = i
	}

	if cur.Volume != 55 {
		t.Errorf("Volume = %d, want 55 (last write)", cur.Volume)
	}
	if cur.Source != SourceBluetooth {
		t.Errorf("Source = %q, want %q", cur.Source, SourceBluetooth)
	}
	if !cur.Playing {
		t.Error("Playing = false, want true (earlier write preserved)")
	}
	if cur.Muted {
		t.Error("Muted = true, want false (never written)")
	}
}

func TestApplyChanged(t *testing.T) {
	track := &Track{Title: "Hey Now", Artist: "London Grammar", Album: "If You Wait"}

	tests := []struct {
		name    string
		cur     Snapshot
		ev      UpdateEvent
		changed bool
	}{
		{
			name:    "empty event",
			cur:     Snapshot{Volume: 40},
			ev:      UpdateEvent{},
			changed: false,
		},
		{
			name:    "same volume",
			cur:     Snapshot{Volume: 40},
			ev:      UpdateEvent{Volume: intp(40)},
			changed: false,
		},
		{
			name:    "new volume",
			cur:     Snapshot{Volume: 40},
			ev:      UpdateEvent{Volume: intp(45)},
			changed: true,
		},
		{
			name:    "identical track is not a change",
			cur:     Snapshot{Track: track},
			ev:      UpdateEvent{Track: &TrackChange{Track: &Track{Title: "Hey Now", Artist: "London Grammar", Album: "If You Wait"}}},
			changed: false,
		},
		{
			name:    "different track title",
			cur:     Snapshot{Track: track},
			ev:      UpdateEvent{Track: &TrackChange{Track: &Track{Title: "Strong", Artist: "London Grammar", Album: "If You Wait"}}},
			changed: true,
		},
		{
			name:    "mute toggle",
			cur:     Snapshot{Volume: 40},
			ev:      UpdateEvent{Muted: boolp(true)},
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed := Apply(tt.cur, tt.ev)
			if changed != tt.changed {
				t.Errorf("Apply() changed = %v, want %v", changed, tt.changed)
			}
			// Applying the same event again must be a no-op.
			again, changedAgain := Apply(next, tt.ev)
			if changedAgain {
				t.Errorf("Apply() second application reported a change")
			}
			if !again.Equal(next) {
				t.Errorf("Apply() second application altered the snapshot")
			}
		})
	}
}

func TestApplyTrackClear(t *testing.T) {
	cur := Snapshot{
		Playing:    true,
		Track:      &Track{Title: "Hey Now"},
		PositionMs: int64p(61000),
		DurationMs: intp(215000),
	}

	next, changed := Apply(cur, UpdateEvent{Track: &TrackChange{}})
	if !changed {
		t.Fatal("Apply() changed = false, want true")
	}
	if next.Track != nil {
		t.Errorf("Track = %+v, want nil", next.Track)
	}
	if next.PositionMs != nil || next.DurationMs != nil {
		t.Error("clearing the track must also clear position and duration")
	}
}

func TestApplyPositionAfterTrackClear(t *testing.T) {
	cur := Snapshot{Track: &Track{Title: "Hey Now"}, PositionMs: int64p(5000)}

	// An event that clears the track but carries an explicit position keeps
	// the explicit field: last-write-wins applies per field.
	next, _ := Apply(cur, UpdateEvent{
		Track:      &TrackChange{},
		PositionMs: int64p(0),
	})
	if next.PositionMs == nil || *next.PositionMs != 0 {
		t.Errorf("PositionMs = %v, want explicit 0", next.PositionMs)
	}
}

func TestApplyClampsVolume(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-10, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{130, 100},
	}

	for _, tt := range tests {
		next, _ := Apply(Snapshot{}, UpdateEvent{Volume: intp(tt.in)})
		if next.Volume != tt.want {
			t.Errorf("Apply volume %d = %d, want %d", tt.in, next.Volume, tt.want)
		}
	}
}

func TestApplyVolumeDoesNotTouchMute(t *testing.T) {
	cur := Snapshot{Volume: 20, Muted: true}
	next, _ := Apply(cur, UpdateEvent{Volume: intp(0)})
	if !next.Muted {
		t.Error("volume write flipped Muted; mute is independent state")
	}
	next, _ = Apply(next, UpdateEvent{Volume: intp(35)})
	if !next.Muted {
		t.Error("raising volume unmuted the snapshot; mute is independent state")
	}
}

func TestUpdateEventIsZero(t *testing.T) {
	if !(UpdateEvent{}).IsZero() {
		t.Error("IsZero() = false for empty event")
	}
	if (UpdateEvent{Volume: intp(1)}).IsZero() {
		t.Error("IsZero() = true for event with a field")
	}
}
