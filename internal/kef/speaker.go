package kef

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/amebalabs/KefirCLI/internal/core"
)

// Well-known data paths on the speaker.
const (
	pathVolume     = "player:volume"
	pathMute       = "settings:/mediaPlayer/mute"
	pathSource     = "settings:/kef/play/physicalSource"
	pathStatus     = "settings:/kef/host/speakerStatus"
	pathPlayerData = "player:player/data"
	pathPlayTime   = "player:player/data/playTime"
	pathControl    = "player:player/control"
)

// Speaker is a high-level controller for one KEF speaker.
type Speaker struct {
	client *Client
	host   string
}

var _ core.Controller = (*Speaker)(nil)

// NewSpeaker creates a Speaker for a host.
func NewSpeaker(host string) *Speaker {
	return &Speaker{
		client: NewClient(host),
		host:   host,
	}
}

// Client exposes the underlying HTTP client, mainly for configuration.
func (s *Speaker) Client() *Client {
	return s.client
}

// Host returns the host this speaker was created with.
func (s *Speaker) Host() string {
	return s.host
}

// GetVolume returns the current volume (0-100).
func (s *Speaker) GetVolume(ctx context.Context) (int, error) {
	values, err := s.client.GetData(ctx, pathVolume)
	if err != nil {
		return 0, fmt.Errorf("get volume: %w", err)
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("get volume: empty response")
	}
	v, ok := values[0].Int()
	if !ok {
		return 0, fmt.Errorf("get volume: unexpected value type %q", values[0].Type)
	}
	return v, nil
}

// SetVolume sets the volume, clamping to 0-100.
func (s *Speaker) SetVolume(ctx context.Context, volume int) error {
	if err := s.client.SetData(ctx, pathVolume, IntValue(core.ClampVolume(volume))); err != nil {
		return fmt.Errorf("set volume: %w", err)
	}
	return nil
}

// Mute silences the speaker without changing the volume setting.
func (s *Speaker) Mute(ctx context.Context) error {
	if err := s.client.SetData(ctx, pathMute, BoolValue(true)); err != nil {
		return fmt.Errorf("mute: %w", err)
	}
	return nil
}

// Unmute restores audio.
func (s *Speaker) Unmute(ctx context.Context) error {
	if err := s.client.SetData(ctx, pathMute, BoolValue(false)); err != nil {
		return fmt.Errorf("unmute: %w", err)
	}
	return nil
}

// IsMuted reports the mute switch state.
func (s *Speaker) IsMuted(ctx context.Context) (bool, error) {
	values, err := s.client.GetData(ctx, pathMute)
	if err != nil {
		return false, fmt.Errorf("get mute: %w", err)
	}
	if len(values) == 0 {
		return false, fmt.Errorf("get mute: empty response")
	}
	muted, ok := values[0].Boolean()
	if !ok {
		return false, fmt.Errorf("get mute: unexpected value type %q", values[0].Type)
	}
	return muted, nil
}

// GetSource returns the active input. A speaker in standby reports
// core.SourceStandby.
func (s *Speaker) GetSource(ctx context.Context) (core.Source, error) {
	values, err := s.client.GetData(ctx, pathSource)
	if err != nil {
		return "", fmt.Errorf("get source: %w", err)
	}
	if len(values) == 0 {
		return "", fmt.Errorf("get source: empty response")
	}
	src, ok := values[0].Source()
	if !ok {
		return "", fmt.Errorf("get source: unexpected value type %q", values[0].Type)
	}
	return src, nil
}

// SetSource switches the active input. Writing a source to a speaker in
// standby also wakes it.
func (s *Speaker) SetSource(ctx context.Context, source core.Source) error {
	if err := s.client.SetData(ctx, pathSource, SourceValue(source)); err != nil {
		return fmt.Errorf("set source %s: %w", source, err)
	}
	return nil
}

// PowerOn wakes the speaker by selecting the Wi-Fi source.
func (s *Speaker) PowerOn(ctx context.Context) error {
	if err := s.SetSource(ctx, core.SourceWifi); err != nil {
		return fmt.Errorf("power on: %w", err)
	}
	return nil
}

// Shutdown puts the speaker into standby.
func (s *Speaker) Shutdown(ctx context.Context) error {
	if err := s.client.SetData(ctx, pathSource, SourceValue(core.SourceStandby)); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// GetPowerState reports whether the speaker is awake or in standby.
func (s *Speaker) GetPowerState(ctx context.Context) (core.PowerState, error) {
	values, err := s.client.GetData(ctx, pathStatus)
	if err != nil {
		return "", fmt.Errorf("get power state: %w", err)
	}
	if len(values) == 0 {
		return "", fmt.Errorf("get power state: empty response")
	}
	status, ok := values[0].Status()
	if !ok {
		return "", fmt.Errorf("get power state: unexpected value type %q", values[0].Type)
	}
	if status == string(core.PowerOn) {
		return core.PowerOn, nil
	}
	return core.PowerStandby, nil
}

// playerData is the rich playback blob at player:player/data.
type playerData struct {
	State  string `json:"state"`
	Status struct {
		Duration int `json:"duration"`
	} `json:"status"`
	TrackRoles struct {
		Title     string `json:"title"`
		MediaData struct {
			MetaData struct {
				Artist string `json:"artist"`
				Album  string `json:"album"`
			} `json:"metaData"`
		} `json:"mediaData"`
	} `json:"trackRoles"`
}

func (s *Speaker) getPlayerData(ctx context.Context) (*playerData, error) {
	raw, err := s.client.GetRaw(ctx, pathPlayerData)
	if err != nil {
		return nil, fmt.Errorf("get player data: %w", err)
	}
	var data playerData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse player data: %w", err)
	}
	return &data, nil
}

// IsPlaying reports whether the speaker is actively playing.
func (s *Speaker) IsPlaying(ctx context.Context) (bool, error) {
	data, err := s.getPlayerData(ctx)
	if err != nil {
		return false, err
	}
	return data.State == "playing", nil
}

// GetTrack returns the current track metadata, or nil when nothing is
// loaded.
func (s *Speaker) GetTrack(ctx context.Context) (*core.Track, error) {
	data, err := s.getPlayerData(ctx)
	if err != nil {
		return nil, err
	}
	return data.track(), nil
}

func (d *playerData) track() *core.Track {
	t := core.Track{
		Title:  d.TrackRoles.Title,
		Artist: d.TrackRoles.MediaData.MetaData.Artist,
		Album:  d.TrackRoles.MediaData.MetaData.Album,
	}
	if t.Title == "" && t.Artist == "" && t.Album == "" {
		return nil
	}
	return &t
}

// GetPosition returns the playback position in milliseconds.
func (s *Speaker) GetPosition(ctx context.Context) (int64, error) {
	values, err := s.client.GetData(ctx, pathPlayTime)
	if err != nil {
		return 0, fmt.Errorf("get position: %w", err)
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("get position: empty response")
	}
	pos, ok := values[0].Int64()
	if !ok {
		return 0, fmt.Errorf("get position: unexpected value type %q", values[0].Type)
	}
	return pos, nil
}

// GetDuration returns the current track length in milliseconds.
func (s *Speaker) GetDuration(ctx context.Context) (int, error) {
	data, err := s.getPlayerData(ctx)
	if err != nil {
		return 0, err
	}
	return data.Status.Duration, nil
}

// TogglePlayPause flips between playing and paused.
func (s *Speaker) TogglePlayPause(ctx context.Context) error {
	if err := s.client.SetControl(ctx, pathControl, "pause"); err != nil {
		return fmt.Errorf("toggle play/pause: %w", err)
	}
	return nil
}

// NextTrack skips forward.
func (s *Speaker) NextTrack(ctx context.Context) error {
	if err := s.client.SetControl(ctx, pathControl, "next"); err != nil {
		return fmt.Errorf("next track: %w", err)
	}
	return nil
}

// PreviousTrack skips backward.
func (s *Speaker) PreviousTrack(ctx context.Context) error {
	if err := s.client.SetControl(ctx, pathControl, "previous"); err != nil {
		return fmt.Errorf("previous track: %w", err)
	}
	return nil
}

// Snapshot fetches the full state, fanning out the independent queries.
// Volume, mute, and source failures fail the snapshot; song metadata is
// best-effort.
func (s *Speaker) Snapshot(ctx context.Context) (core.Snapshot, error) {
	return s.snapshot(ctx, true)
}

func (s *Speaker) snapshot(ctx context.Context, includeSong bool) (core.Snapshot, error) {
	var (
		mu   sync.Mutex
		snap core.Snapshot
		errs []error
	)

	var wg sync.WaitGroup
	fetch := func(required bool, f func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(); err != nil && required {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	fetch(true, func() error {
		v, err := s.GetVolume(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Volume = v
		mu.Unlock()
		return nil
	})
	fetch(true, func() error {
		muted, err := s.IsMuted(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Muted = muted
		mu.Unlock()
		return nil
	})
	fetch(true, func() error {
		src, err := s.GetSource(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Source = src
		mu.Unlock()
		return nil
	})
	if includeSong {
		fetch(false, func() error {
			data, err := s.getPlayerData(ctx)
			if err != nil {
				return err
			}
			track := data.track()
			mu.Lock()
			snap.Playing = data.State == "playing"
			snap.Track = track
			if track != nil && data.Status.Duration > 0 {
				d := data.Status.Duration
				snap.DurationMs = &d
			}
			mu.Unlock()
			return nil
		})
		fetch(false, func() error {
			pos, err := s.GetPosition(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			p := pos
			snap.PositionMs = &p
			mu.Unlock()
			return nil
		})
	}

	wg.Wait()

	if len(errs) > 0 {
		return core.Snapshot{}, fmt.Errorf("snapshot: %w", errs[0])
	}
	// Position without a track is meaningless; drop it.
	if snap.Track == nil {
		snap.PositionMs = nil
		snap.DurationMs = nil
	}
	return snap, nil
}

// StartPolling emits sparse update events at the given interval until ctx
// is cancelled. Fetch failures arrive on the error channel and the stream
// keeps polling.
func (s *Speaker) StartPolling(ctx context.Context, interval time.Duration, includeSong bool) (<-chan core.UpdateEvent, <-chan error) {
	p := newPoller(s, interval, includeSong)
	go p.run(ctx)
	return p.events, p.errs
}
