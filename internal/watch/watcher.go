// Package watch follows a speaker's state and turns changes into a typed
// event feed suitable for line-oriented output.
package watch

import (
	"context"
	"time"

	"github.com/amebalabs/KefirCLI/internal/core"
)

// EventType classifies a state change.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventVolumeChange
	EventMute
	EventUnmute
	EventSourceChange
)

// Event is one observed state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.Snapshot
	Current   *core.Snapshot
}

// Snapshotter is the slice of the speaker surface the watcher needs.
// core.Controller satisfies it.
type Snapshotter interface {
	Snapshot(ctx context.Context) (core.Snapshot, error)
}

// Watcher polls a speaker for state changes and emits events.
type Watcher struct {
	controller Snapshotter
	interval   time.Duration
	events     chan Event
	done       chan struct{}
}

// NewWatcher creates a watcher polling at the given interval.
func NewWatcher(controller Snapshotter, interval time.Duration) *Watcher {
	if interval == 0 {
		interval = time.Second
	}
	return &Watcher{
		controller: controller,
		interval:   interval,
		events:     make(chan Event, 16),
		done:       make(chan struct{}),
	}
}

// Events returns the channel of state-change events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling. It blocks until the context is cancelled or Stop is
// called; fetch failures are skipped so a flaky network produces gaps, not
// termination.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	var prev *core.Snapshot
	if snap, err := w.controller.Snapshot(ctx); err == nil {
		prev = &snap
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			snap, err := w.controller.Snapshot(ctx)
			if err != nil {
				continue
			}
			curr := &snap

			for _, e := range diffSnapshots(prev, curr) {
				select {
				case w.events <- e:
				default:
					// Drop when the consumer lags.
				}
			}
			prev = curr
		}
	}
}

// Stop ends the watch loop.
func (w *Watcher) Stop() {
	close(w.done)
}

// diffSnapshots compares two snapshots and returns the events between them.
func diffSnapshots(prev, curr *core.Snapshot) []Event {
	if curr == nil {
		return nil
	}

	now := time.Now()
	var events []Event

	if prev == nil {
		if curr.HasTrack() {
			events = append(events, Event{Type: EventTrackChange, Timestamp: now, Current: curr})
		}
		return events
	}

	if trackChanged(prev, curr) {
		eventType := EventTrackChange
		if prev.HasTrack() && curr.HasTrack() {
			if wasCompleted(prev) {
				eventType = EventTrackComplete
			} else {
				eventType = EventTrackSkip
			}
		}
		events = append(events, Event{Type: eventType, Timestamp: now, Previous: prev, Current: curr})
	}

	if prev.Playing && !curr.Playing {
		events = append(events, Event{Type: EventPause, Timestamp: now, Previous: prev, Current: curr})
	} else if !prev.Playing && curr.Playing {
		events = append(events, Event{Type: EventResume, Timestamp: now, Previous: prev, Current: curr})
	}

	if prev.Volume != curr.Volume {
		events = append(events, Event{Type: EventVolumeChange, Timestamp: now, Previous: prev, Current: curr})
	}

	if !prev.Muted && curr.Muted {
		events = append(events, Event{Type: EventMute, Timestamp: now, Previous: prev, Current: curr})
	} else if prev.Muted && !curr.Muted {
		events = append(events, Event{Type: EventUnmute, Timestamp: now, Previous: prev, Current: curr})
	}

	if prev.Source != curr.Source {
		events = append(events, Event{Type: EventSourceChange, Timestamp: now, Previous: prev, Current: curr})
	}

	return events
}

// trackChanged reports whether the loaded track differs.
func trackChanged(prev, curr *core.Snapshot) bool {
	if prev.Track == nil && curr.Track == nil {
		return false
	}
	if prev.Track == nil || curr.Track == nil {
		return true
	}
	return *prev.Track != *curr.Track
}

// wasCompleted estimates whether the previous track ran to its end: within
// the last 5% counts as completed, anything earlier as skipped.
func wasCompleted(state *core.Snapshot) bool {
	if state.Track == nil || state.PositionMs == nil || state.DurationMs == nil || *state.DurationMs == 0 {
		return false
	}
	threshold := float64(*state.DurationMs) * 0.95
	return float64(*state.PositionMs) >= threshold
}
