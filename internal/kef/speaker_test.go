package kef

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/amebalabs/KefirCLI/internal/core"
)

// fakeSpeaker serves the subset of the KEF HTTP API the Speaker uses. State
// mutates through setData just like real firmware.
type fakeSpeaker struct {
	mu       sync.Mutex
	volume   int
	muted    bool
	source   string
	status   string
	playing  bool
	title    string
	artist   string
	album    string
	position int64
	duration int
	controls []string
}

func newFakeSpeaker() *fakeSpeaker {
	return &fakeSpeaker{
		volume: 40,
		source: "wifi",
		status: "powerOn",
	}
}

func (f *fakeSpeaker) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/getData", f.getData)
	mux.HandleFunc("/api/setData", f.setData)
	return mux
}

func (f *fakeSpeaker) getData(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Query().Get("path") {
	case pathVolume:
		fmt.Fprintf(w, `[{"type":"i32_","i32_":%d}]`, f.volume)
	case pathMute:
		fmt.Fprintf(w, `[{"type":"bool_","bool_":%t}]`, f.muted)
	case pathSource:
		fmt.Fprintf(w, `[{"type":"kefPhysicalSource","kefPhysicalSource":%q}]`, f.source)
	case pathStatus:
		fmt.Fprintf(w, `[{"type":"kefSpeakerStatus","kefSpeakerStatus":%q}]`, f.status)
	case pathPlayTime:
		fmt.Fprintf(w, `[{"type":"i64_","i64_":%d}]`, f.position)
	case pathPlayerData:
		state := "paused"
		if f.playing {
			state = "playing"
		}
		data := map[string]any{
			"state":  state,
			"status": map[string]any{"duration": f.duration},
			"trackRoles": map[string]any{
				"title": f.title,
				"mediaData": map[string]any{
					"metaData": map[string]any{"artist": f.artist, "album": f.album},
				},
			},
		}
		_ = json.NewEncoder(w).Encode([]any{data})
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"unknown path"}`)
	}
}

func (f *fakeSpeaker) setData(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw := r.URL.Query().Get("value")
	switch r.URL.Query().Get("path") {
	case pathVolume:
		var v Value
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			if n, ok := v.Int(); ok {
				f.volume = n
			}
		}
	case pathMute:
		var v Value
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			if b, ok := v.Boolean(); ok {
				f.muted = b
			}
		}
	case pathSource:
		var v Value
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			if s, ok := v.Source(); ok {
				f.source = string(s)
				if s == core.SourceStandby {
					f.status = "standby"
				} else {
					f.status = "powerOn"
				}
			}
		}
	case pathControl:
		var payload struct {
			Control string `json:"control"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err == nil {
			f.controls = append(f.controls, payload.Control)
			if payload.Control == "pause" {
				f.playing = !f.playing
			}
		}
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	fmt.Fprint(w, `[]`)
}

func (f *fakeSpeaker) setTrack(title, artist, album string, position int64, duration int, playing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title, f.artist, f.album = title, artist, album
	f.position, f.duration = position, duration
	f.playing = playing
}

func newTestSpeaker(t *testing.T) (*Speaker, *fakeSpeaker) {
	t.Helper()
	fake := newFakeSpeaker()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return NewSpeaker(srv.URL), fake
}

func TestSpeakerVolume(t *testing.T) {
	spk, fake := newTestSpeaker(t)
	ctx := context.Background()

	v, err := spk.GetVolume(ctx)
	if err != nil {
		t.Fatalf("GetVolume() error = %v", err)
	}
	if v != 40 {
		t.Errorf("GetVolume() = %d, want 40", v)
	}

	if err := spk.SetVolume(ctx, 65); err != nil {
		t.Fatalf("SetVolume() error = %v", err)
	}
	if fake.volume != 65 {
		t.Errorf("speaker volume = %d, want 65", fake.volume)
	}

	// Values past the range clamp instead of erroring.
	if err := spk.SetVolume(ctx, 150); err != nil {
		t.Fatalf("SetVolume(150) error = %v", err)
	}
	if fake.volume != 100 {
		t.Errorf("speaker volume = %d, want clamped 100", fake.volume)
	}
	if err := spk.SetVolume(ctx, -5); err != nil {
		t.Fatalf("SetVolume(-5) error = %v", err)
	}
	if fake.volume != 0 {
		t.Errorf("speaker volume = %d, want clamped 0", fake.volume)
	}
}

func TestSpeakerMute(t *testing.T) {
	spk, fake := newTestSpeaker(t)
	ctx := context.Background()

	if err := spk.Mute(ctx); err != nil {
		t.Fatalf("Mute() error = %v", err)
	}
	if !fake.muted {
		t.Error("speaker not muted after Mute()")
	}

	muted, err := spk.IsMuted(ctx)
	if err != nil {
		t.Fatalf("IsMuted() error = %v", err)
	}
	if !muted {
		t.Error("IsMuted() = false, want true")
	}

	if err := spk.Unmute(ctx); err != nil {
		t.Fatalf("Unmute() error = %v", err)
	}
	if fake.muted {
		t.Error("speaker still muted after Unmute()")
	}
}

func TestSpeakerSource(t *testing.T) {
	spk, fake := newTestSpeaker(t)
	ctx := context.Background()

	src, err := spk.GetSource(ctx)
	if err != nil {
		t.Fatalf("GetSource() error = %v", err)
	}
	if src != core.SourceWifi {
		t.Errorf("GetSource() = %q, want wifi", src)
	}

	if err := spk.SetSource(ctx, core.SourceOptic); err != nil {
		t.Fatalf("SetSource() error = %v", err)
	}
	if fake.source != "optic" {
		t.Errorf("speaker source = %q, want optic", fake.source)
	}
}

func TestSpeakerPower(t *testing.T) {
	spk, fake := newTestSpeaker(t)
	ctx := context.Background()

	state, err := spk.GetPowerState(ctx)
	if err != nil {
		t.Fatalf("GetPowerState() error = %v", err)
	}
	if state != core.PowerOn {
		t.Errorf("GetPowerState() = %q, want powerOn", state)
	}

	if err := spk.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if fake.source != "standby" {
		t.Errorf("speaker source = %q, want standby after shutdown", fake.source)
	}

	state, err = spk.GetPowerState(ctx)
	if err != nil {
		t.Fatalf("GetPowerState() error = %v", err)
	}
	if state != core.PowerStandby {
		t.Errorf("GetPowerState() = %q, want standby", state)
	}

	// PowerOn selects the Wi-Fi source, which wakes the speaker.
	if err := spk.PowerOn(ctx); err != nil {
		t.Fatalf("PowerOn() error = %v", err)
	}
	if fake.source != "wifi" {
		t.Errorf("speaker source = %q, want wifi after power on", fake.source)
	}
}

func TestSpeakerTrack(t *testing.T) {
	spk, fake := newTestSpeaker(t)
	ctx := context.Background()

	fake.setTrack("Nightcall", "Kavinsky", "OutRun", 61500, 258000, true)

	playing, err := spk.IsPlaying(ctx)
	if err != nil {
		t.Fatalf("IsPlaying() error = %v", err)
	}
	if !playing {
		t.Error("IsPlaying() = false, want true")
	}

	track, err := spk.GetTrack(ctx)
	if err != nil {
		t.Fatalf("GetTrack() error = %v", err)
	}
	if track == nil {
		t.Fatal("GetTrack() = nil, want track")
	}
	if track.Title != "Nightcall" || track.Artist != "Kavinsky" || track.Album != "OutRun" {
		t.Errorf("GetTrack() = %+v, want Nightcall/Kavinsky/OutRun", track)
	}

	pos, err := spk.GetPosition(ctx)
	if err != nil {
		t.Fatalf("GetPosition() error = %v", err)
	}
	if pos != 61500 {
		t.Errorf("GetPosition() = %d, want 61500", pos)
	}

	dur, err := spk.GetDuration(ctx)
	if err != nil {
		t.Fatalf("GetDuration() error = %v", err)
	}
	if dur != 258000 {
		t.Errorf("GetDuration() = %d, want 258000", dur)
	}
}

func TestSpeakerTrackEmpty(t *testing.T) {
	spk, _ := newTestSpeaker(t)

	track, err := spk.GetTrack(context.Background())
	if err != nil {
		t.Fatalf("GetTrack() error = %v", err)
	}
	if track != nil {
		t.Errorf("GetTrack() = %+v, want nil when no metadata is loaded", track)
	}
}

func TestSpeakerPlaybackControls(t *testing.T) {
	spk, fake := newTestSpeaker(t)
	ctx := context.Background()

	if err := spk.TogglePlayPause(ctx); err != nil {
		t.Fatalf("TogglePlayPause() error = %v", err)
	}
	if err := spk.NextTrack(ctx); err != nil {
		t.Fatalf("NextTrack() error = %v", err)
	}
	if err := spk.PreviousTrack(ctx); err != nil {
		t.Fatalf("PreviousTrack() error = %v", err)
	}

	want := []string{"pause", "next", "previous"}
	if len(fake.controls) != len(want) {
		t.Fatalf("controls = %v, want %v", fake.controls, want)
	}
	for i := range want {
		if fake.controls[i] != want[i] {
			t.Errorf("controls[%d] = %q, want %q", i, fake.controls[i], want[i])
		}
	}
}

func TestSpeakerSnapshot(t *testing.T) {
	spk, fake := newTestSpeaker(t)
	fake.setTrack("Hey Now", "London Grammar", "If You Wait", 30000, 215000, true)
	fake.volume = 55

	snap, err := spk.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if snap.Volume != 55 {
		t.Errorf("Volume = %d, want 55", snap.Volume)
	}
	if snap.Source != core.SourceWifi {
		t.Errorf("Source = %q, want wifi", snap.Source)
	}
	if !snap.Playing {
		t.Error("Playing = false, want true")
	}
	if snap.Track == nil || snap.Track.Title != "Hey Now" {
		t.Errorf("Track = %+v, want Hey Now", snap.Track)
	}
	if snap.PositionMs == nil || *snap.PositionMs != 30000 {
		t.Errorf("PositionMs = %v, want 30000", snap.PositionMs)
	}
	if snap.DurationMs == nil || *snap.DurationMs != 215000 {
		t.Errorf("DurationMs = %v, want 215000", snap.DurationMs)
	}
}

func TestSpeakerSnapshotNoTrack(t *testing.T) {
	spk, _ := newTestSpeaker(t)

	snap, err := spk.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.Track != nil {
		t.Errorf("Track = %+v, want nil", snap.Track)
	}
	// No track means position and duration are meaningless.
	if snap.PositionMs != nil || snap.DurationMs != nil {
		t.Errorf("PositionMs/DurationMs = %v/%v, want nil/nil", snap.PositionMs, snap.DurationMs)
	}
}
