package kef

import (
	"context"
	"time"

	"github.com/amebalabs/KefirCLI/internal/core"
)

// maxPollErrors is how many consecutive fetch failures the poller tolerates
// before declaring the stream dead and closing its channels. Subscribers
// treat a closed event channel as stream failure and fall back to their own
// slower polling.
const maxPollErrors = 5

// poller turns the speaker's pull API into a push stream: it fetches a full
// snapshot every interval, diffs it against the previous one, and emits a
// sparse UpdateEvent carrying only the fields that changed.
type poller struct {
	fetch    func(context.Context) (core.Snapshot, error)
	interval time.Duration
	events   chan core.UpdateEvent
	errs     chan error
}

func newPoller(s *Speaker, interval time.Duration, includeSong bool) *poller {
	if interval <= 0 {
		interval = time.Second
	}
	return &poller{
		fetch: func(ctx context.Context) (core.Snapshot, error) {
			return s.snapshot(ctx, includeSong)
		},
		interval: interval,
		events:   make(chan core.UpdateEvent, 16),
		errs:     make(chan error, 4),
	}
}

// run polls until ctx is cancelled or too many fetches fail in a row. The
// first successful fetch emits the full state as one event so a fresh
// subscriber starts from a complete picture.
func (p *poller) run(ctx context.Context) {
	defer close(p.events)
	defer close(p.errs)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var (
		prev     core.Snapshot
		havePrev bool
		failures int
	)

	for {
		snap, err := p.fetch(ctx)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			failures++
			select {
			case p.errs <- err:
			default:
			}
			if failures >= maxPollErrors {
				return
			}

		case !havePrev:
			failures = 0
			havePrev = true
			prev = snap
			p.send(fullEvent(snap))

		default:
			failures = 0
			ev := diffEvent(prev, snap)
			prev = snap
			if !ev.IsZero() {
				p.send(ev)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// send never blocks. A subscriber that stops draining loses intermediate
// events, which the merge model tolerates: every field is last-write-wins
// and the next change re-emits it.
func (p *poller) send(ev core.UpdateEvent) {
	select {
	case p.events <- ev:
	default:
	}
}

// fullEvent expresses a complete snapshot as one update event.
func fullEvent(s core.Snapshot) core.UpdateEvent {
	v := s.Volume
	m := s.Muted
	src := s.Source
	pl := s.Playing
	ev := core.UpdateEvent{
		Volume:  &v,
		Muted:   &m,
		Source:  &src,
		Playing: &pl,
		Track:   &core.TrackChange{Track: s.Track},
	}
	if s.PositionMs != nil {
		p := *s.PositionMs
		ev.PositionMs = &p
	}
	if s.DurationMs != nil {
		d := *s.DurationMs
		ev.DurationMs = &d
	}
	return ev
}

// diffEvent returns an event carrying only the fields that differ between
// two snapshots. Identical snapshots yield the zero event.
func diffEvent(prev, cur core.Snapshot) core.UpdateEvent {
	var ev core.UpdateEvent
	if cur.Volume != prev.Volume {
		v := cur.Volume
		ev.Volume = &v
	}
	if cur.Muted != prev.Muted {
		m := cur.Muted
		ev.Muted = &m
	}
	if cur.Source != prev.Source {
		s := cur.Source
		ev.Source = &s
	}
	if cur.Playing != prev.Playing {
		p := cur.Playing
		ev.Playing = &p
	}
	if !trackEqual(prev.Track, cur.Track) {
		ev.Track = &core.TrackChange{Track: cur.Track}
	}
	if cur.PositionMs != nil && (prev.PositionMs == nil || *prev.PositionMs != *cur.PositionMs) {
		p := *cur.PositionMs
		ev.PositionMs = &p
	}
	if cur.DurationMs != nil && (prev.DurationMs == nil || *prev.DurationMs != *cur.DurationMs) {
		d := *cur.DurationMs
		ev.DurationMs = &d
	}
	return ev
}

func trackEqual(a, b *core.Track) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
