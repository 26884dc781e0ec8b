package core

import (
	"context"
	"time"
)

// PowerState reports whether the speaker is awake.
type PowerState string

const (
	PowerOn      PowerState = "powerOn"
	PowerStandby PowerState = "standby"
)

// Controller defines the speaker-control surface the interactive session and
// the CLI commands are written against. kef.Speaker is the production
// implementation; tests substitute fakes.
type Controller interface {
	// Volume control
	GetVolume(ctx context.Context) (int, error)
	SetVolume(ctx context.Context, volume int) error
	Mute(ctx context.Context) error
	Unmute(ctx context.Context) error
	IsMuted(ctx context.Context) (bool, error)

	// Input selection
	GetSource(ctx context.Context) (Source, error)
	SetSource(ctx context.Context, source Source) error

	// Playback
	IsPlaying(ctx context.Context) (bool, error)
	GetTrack(ctx context.Context) (*Track, error)
	GetPosition(ctx context.Context) (int64, error)
	GetDuration(ctx context.Context) (int, error)
	TogglePlayPause(ctx context.Context) error
	NextTrack(ctx context.Context) error
	PreviousTrack(ctx context.Context) error

	// Power
	PowerOn(ctx context.Context) error
	Shutdown(ctx context.Context) error
	GetPowerState(ctx context.Context) (PowerState, error)

	// Snapshot fetches the full state in one call, fanning out the
	// individual queries.
	Snapshot(ctx context.Context) (Snapshot, error)

	// StartPolling emits sparse update events until ctx is cancelled.
	// includeSong controls whether track metadata and position are polled.
	// Errors mid-stream arrive on the second channel; the stream keeps
	// going, degrading to stale data rather than terminating.
	StartPolling(ctx context.Context, interval time.Duration, includeSong bool) (<-chan UpdateEvent, <-chan error)
}
