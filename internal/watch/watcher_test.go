package watch

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/amebalabs/KefirCLI/internal/core"
)

type fakeSnapshotter struct {
	mu    sync.Mutex
	snaps []core.Snapshot
	idx   int
}

func (f *fakeSnapshotter) Snapshot(ctx context.Context) (core.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := f.snaps[f.idx]
	if f.idx < len(f.snaps)-1 {
		f.idx++
	}
	return snap, nil
}

func intp(v int) *int       { return &v }
func int64p(v int64) *int64 { return &v }

func snapshotWithTrack(title string, playing bool) core.Snapshot {
	return core.Snapshot{
		Volume:  40,
		Source:  core.SourceWifi,
		Playing: playing,
		Track:   &core.Track{Title: title, Artist: "Boards of Canada", Album: "Geogaddi"},
	}
}

func TestDiffSnapshots(t *testing.T) {
	base := snapshotWithTrack("Music Is Math", true)

	tests := []struct {
		name string
		prev core.Snapshot
		curr core.Snapshot
		want []EventType
	}{
		{
			name: "no change",
			prev: base,
			curr: base,
			want: nil,
		},
		{
			name: "volume",
			prev: base,
			curr: func() core.Snapshot { s := base; s.Volume = 55; return s }(),
			want: []EventType{EventVolumeChange},
		},
		{
			name: "mute",
			prev: base,
			curr: func() core.Snapshot { s := base; s.Muted = true; return s }(),
			want: []EventType{EventMute},
		},
		{
			name: "unmute",
			prev: func() core.Snapshot { s := base; s.Muted = true; return s }(),
			curr: base,
			want: []EventType{EventUnmute},
		},
		{
			name: "pause",
			prev: base,
			curr: snapshotWithTrack("Music Is Math", false),
			want: []EventType{EventPause},
		},
		{
			name: "resume",
			prev: snapshotWithTrack("Music Is Math", false),
			curr: base,
			want: []EventType{EventResume},
		},
		{
			name: "source",
			prev: base,
			curr: func() core.Snapshot { s := base; s.Source = core.SourceTV; return s }(),
			want: []EventType{EventSourceChange},
		},
		{
			name: "track appears",
			prev: core.Snapshot{Volume: 40, Source: core.SourceWifi},
			curr: func() core.Snapshot { s := base; s.Playing = false; return s }(),
			want: []EventType{EventTrackChange},
		},
		{
			name: "volume and source together",
			prev: base,
			curr: func() core.Snapshot {
				s := base
				s.Volume = 10
				s.Source = core.SourceOptic
				return s
			}(),
			want: []EventType{EventVolumeChange, EventSourceChange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := diffSnapshots(&tt.prev, &tt.curr)
			if len(events) != len(tt.want) {
				t.Fatalf("got %d events, want %d", len(events), len(tt.want))
			}
			for i, e := range events {
				if e.Type != tt.want[i] {
					t.Errorf("event %d: got type %v, want %v", i, e.Type, tt.want[i])
				}
			}
		})
	}
}

func TestDiffSnapshotsCompleteVsSkip(t *testing.T) {
	next := snapshotWithTrack("The Beach at Redpoint", true)

	nearEnd := snapshotWithTrack("Music Is Math", true)
	nearEnd.PositionMs = int64p(317000)
	nearEnd.DurationMs = intp(320000)

	early := snapshotWithTrack("Music Is Math", true)
	early.PositionMs = int64p(30000)
	early.DurationMs = intp(320000)

	events := diffSnapshots(&nearEnd, &next)
	if len(events) != 1 || events[0].Type != EventTrackComplete {
		t.Errorf("near end of track: got %+v, want single EventTrackComplete", events)
	}

	events = diffSnapshots(&early, &next)
	if len(events) != 1 || events[0].Type != EventTrackSkip {
		t.Errorf("early in track: got %+v, want single EventTrackSkip", events)
	}
}

func TestWatcherEmitsChanges(t *testing.T) {
	fake := &fakeSnapshotter{snaps: []core.Snapshot{
		snapshotWithTrack("Music Is Math", true),
		snapshotWithTrack("Music Is Math", true),
		func() core.Snapshot { s := snapshotWithTrack("Music Is Math", true); s.Volume = 60; return s }(),
	}}

	w := NewWatcher(fake, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Start(ctx)

	select {
	case e := <-w.Events():
		if e.Type != EventVolumeChange {
			t.Errorf("got event type %v, want EventVolumeChange", e.Type)
		}
		if e.Current == nil || e.Current.Volume != 60 {
			t.Errorf("event current = %+v, want volume 60", e.Current)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWatcherStops(t *testing.T) {
	fake := &fakeSnapshotter{snaps: []core.Snapshot{snapshotWithTrack("Music Is Math", true)}}
	w := NewWatcher(fake, 10*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	w.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v after Stop, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestFormatterLine(t *testing.T) {
	curr := snapshotWithTrack("Music Is Math", true)
	e := Event{
		Type:      EventTrackChange,
		Timestamp: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		Current:   &curr,
	}

	f := NewFormatter()
	got := f.Format(e)
	if !strings.Contains(got, "Now playing: Boards of Canada - Music Is Math") {
		t.Errorf("Format() = %q, want track description", got)
	}
	if !strings.Contains(got, "🎵") {
		t.Errorf("Format() = %q, want emoji by default", got)
	}

	f = NewFormatter(WithEmoji(false), WithTimestamp(true))
	got = f.Format(e)
	if strings.Contains(got, "🎵") {
		t.Errorf("Format() = %q, want no emoji", got)
	}
	if !strings.HasPrefix(got, "09:30:00") {
		t.Errorf("Format() = %q, want timestamp prefix", got)
	}
}

func TestFormatterTemplate(t *testing.T) {
	curr := snapshotWithTrack("Music Is Math", true)
	curr.Volume = 42
	e := Event{Type: EventVolumeChange, Timestamp: time.Now(), Current: &curr}

	f := NewFormatter(WithTemplate("{{.Type}} vol={{.Volume}} src={{.Source}}"))
	got := f.Format(e)
	want := "volume_change vol=42 src=wifi"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatterBadTemplateFallsBack(t *testing.T) {
	e := Event{Type: EventPause, Timestamp: time.Now()}

	f := NewFormatter(WithTemplate("{{.Nope"))
	got := f.Format(e)
	if !strings.Contains(got, "Paused") {
		t.Errorf("Format() = %q, want fallback line output", got)
	}
}
