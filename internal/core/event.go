package core

// UpdateEvent is a sparse, partial state delta from the polling subscription.
// Nil fields mean "unchanged"; applying a sequence of events is
// order-preserving with last-write-wins per field.
type UpdateEvent struct {
	Volume     *int
	Muted      *bool
	Source     *Source
	Playing    *bool
	Track      *TrackChange
	PositionMs *int64
	DurationMs *int
}

// TrackChange replaces the snapshot's track. A nil inner Track clears it,
// which also clears position and duration: with no track there is nothing
// the position could refer to.
type TrackChange struct {
	Track *Track
}

// IsZero reports whether the event carries no field at all.
func (e UpdateEvent) IsZero() bool {
	return e.Volume == nil && e.Muted == nil && e.Source == nil &&
		e.Playing == nil && e.Track == nil && e.PositionMs == nil &&
		e.DurationMs == nil
}

// Apply merges an update event into a snapshot, returning the merged result
// and whether the result differs structurally from the input. Fields absent
// from the event are left untouched, so applying the same event twice leaves
// the snapshot unchanged the second time.
func Apply(cur Snapshot, ev UpdateEvent) (Snapshot, bool) {
	next := cur
	if ev.Volume != nil {
		next.Volume = ClampVolume(*ev.Volume)
	}
	if ev.Muted != nil {
		next.Muted = *ev.Muted
	}
	if ev.Source != nil {
		next.Source = *ev.Source
	}
	if ev.Playing != nil {
		next.Playing = *ev.Playing
	}
	if ev.Track != nil {
		next.Track = ev.Track.Track
		if next.Track == nil {
			next.PositionMs = nil
			next.DurationMs = nil
		}
	}
	if ev.PositionMs != nil {
		p := *ev.PositionMs
		next.PositionMs = &p
	}
	if ev.DurationMs != nil {
		d := *ev.DurationMs
		next.DurationMs = &d
	}
	return next, !next.Equal(cur)
}
