// Package tui runs the interactive control session: a raw-mode terminal
// loop that folds keyboard input and background speaker updates into one
// snapshot and redraws only when something meaningful changed.
package tui

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amebalabs/KefirCLI/internal/core"
	"github.com/amebalabs/KefirCLI/internal/input"
	"github.com/amebalabs/KefirCLI/internal/render"
	"github.com/amebalabs/KefirCLI/internal/term"
)

type phase int

const (
	phaseInitializing phase = iota
	phaseRunning
	phaseModalHelp
	phaseModalSource
	phaseTerminating
)

const (
	// idleSleep bounds the busy-wait between input polls.
	idleSleep = 30 * time.Millisecond
	// statusTTL is how long a transient status line stays visible.
	statusTTL = 2 * time.Second
	// fallbackInterval is the synchronous poll cadence after the background
	// stream dies.
	fallbackInterval = 5 * time.Second
	// volumeStep and volumeStepFine are the coarse and fine volume deltas.
	volumeStep     = 5
	volumeStepFine = 1
)

// Options configures a Session.
type Options struct {
	// Name is the speaker label shown in the frame title.
	Name string
	// Refresh is the staleness ticker interval. Defaults to 1s.
	Refresh time.Duration
	// Poll is the background polling interval. Defaults to 1s.
	Poll time.Duration
	// Render controls colors and emojis.
	Render render.Config
	// Logger receives session diagnostics. Defaults to the standard logger.
	Logger logrus.FieldLogger
}

// Session is one interactive run against a speaker. The Run loop is the sole
// mutator of the snapshot; background producers only feed channels.
type Session struct {
	controller core.Controller
	terminal   *term.Terminal
	mapper     *input.Mapper
	opts       Options
	log        logrus.FieldLogger

	// Loop-owned state. Nothing below is touched off the Run goroutine.
	snap     core.Snapshot
	phase    phase
	handling bool
	dirty    bool

	events <-chan core.UpdateEvent
	errs   <-chan error

	statusMsg    string
	statusErr    bool
	statusExpiry time.Time

	lastFallback time.Time

	cleanupOnce sync.Once
}

// NewSession wires a session over a controller and a terminal.
func NewSession(controller core.Controller, terminal *term.Terminal, opts Options) *Session {
	if opts.Refresh <= 0 {
		opts.Refresh = time.Second
	}
	if opts.Poll <= 0 {
		opts.Poll = time.Second
	}
	if opts.Name == "" {
		opts.Name = "KEF Speaker"
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{
		controller: controller,
		terminal:   terminal,
		mapper:     input.NewMapper(),
		opts:       opts,
		log:        log,
		phase:      phaseInitializing,
	}
}

// Run drives the session until quit, power-off, or context cancellation.
// The terminal is restored on every exit path.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.terminal.EnableRaw(); err != nil {
		return err
	}
	defer s.cleanup()

	s.terminal.HideCursor()

	snap, err := s.controller.Snapshot(ctx)
	if err != nil {
		return err
	}
	s.snap = snap
	s.phase = phaseRunning
	s.draw()

	s.events, s.errs = s.controller.StartPolling(ctx, s.opts.Poll, true)

	stale := time.NewTicker(s.opts.Refresh)
	defer stale.Stop()

	for s.phase != phaseTerminating {
		select {
		case <-ctx.Done():
			s.phase = phaseTerminating
			continue
		default:
		}

		sawInput := false
		if b, ok := s.terminal.ReadByte(); ok {
			sawInput = true
			s.handleByte(ctx, b)
		}

		s.drainUpdates()
		s.fallbackPoll(ctx)
		s.expireStatus()

		select {
		case <-stale.C:
			if s.phase == phaseRunning && !s.handling && !s.snap.Playing {
				s.dirty = true
			}
		default:
		}

		if s.dirty {
			s.draw()
		}

		if !sawInput {
			time.Sleep(idleSleep)
		}
	}

	return nil
}

// cleanup restores the terminal. Run defers it, and terminate paths may call
// it early; the Once plus idempotent DisableRaw make the restore single-shot.
func (s *Session) cleanup() {
	s.cleanupOnce.Do(func() {
		s.terminal.ClearScreen()
		s.terminal.ShowCursor()
		s.terminal.DisableRaw()
	})
}

// handleByte routes one input byte according to the current phase. Modals
// consume bytes directly; the running phase feeds the escape-sequence mapper.
func (s *Session) handleByte(ctx context.Context, b byte) {
	switch s.phase {
	case phaseModalHelp:
		s.closeModal()
	case phaseModalSource:
		s.pickSource(ctx, b)
	case phaseRunning:
		cmd, ok := s.mapper.Feed(b)
		if !ok {
			return
		}
		s.dispatch(ctx, cmd)
	}
}

// dispatch executes one decoded command. The handling guard keeps command
// processing non-reentrant and suppresses staleness redraws mid-command.
func (s *Session) dispatch(ctx context.Context, cmd input.Command) {
	if s.handling {
		return
	}
	s.handling = true
	defer func() { s.handling = false }()

	switch cmd {
	case input.CmdVolumeUp:
		s.adjustVolume(ctx, volumeStep)
	case input.CmdVolumeDown:
		s.adjustVolume(ctx, -volumeStep)
	case input.CmdVolumeUpFine:
		s.adjustVolume(ctx, volumeStepFine)
	case input.CmdVolumeDownFine:
		s.adjustVolume(ctx, -volumeStepFine)
	case input.CmdToggleMute:
		s.toggleMute(ctx)
	case input.CmdPlayPause:
		s.playPause(ctx)
	case input.CmdNext:
		if err := s.controller.NextTrack(ctx); err != nil {
			s.setStatus(err.Error(), true)
		}
	case input.CmdPrevious:
		if err := s.controller.PreviousTrack(ctx); err != nil {
			s.setStatus(err.Error(), true)
		}
	case input.CmdChangeSource:
		s.openSourceMenu()
	case input.CmdPowerToggle:
		s.powerToggle(ctx)
	case input.CmdRefresh:
		s.refreshStatus(ctx)
		s.dirty = true
	case input.CmdHelp:
		s.openHelp()
	case input.CmdQuit:
		s.phase = phaseTerminating
	}
}

// adjustVolume applies the delta locally first so the bar moves on the
// keypress, then confirms with the speaker.
func (s *Session) adjustVolume(ctx context.Context, delta int) {
	target := core.ClampVolume(s.snap.Volume + delta)
	if target != s.snap.Volume {
		s.snap.Volume = target
		s.dirty = true
	}
	if err := s.controller.SetVolume(ctx, target); err != nil {
		s.setStatus(err.Error(), true)
	}
}

func (s *Session) toggleMute(ctx context.Context) {
	var err error
	if s.snap.Muted {
		err = s.controller.Unmute(ctx)
	} else {
		err = s.controller.Mute(ctx)
	}
	if err != nil {
		s.setStatus(err.Error(), true)
		return
	}
	s.snap.Muted = !s.snap.Muted
	s.dirty = true
}

func (s *Session) playPause(ctx context.Context) {
	if err := s.controller.TogglePlayPause(ctx); err != nil {
		s.setStatus(err.Error(), true)
		return
	}
	s.snap.Playing = !s.snap.Playing
	s.dirty = true
}

// powerToggle wakes a standby speaker, or shuts the speaker down and ends
// the session.
func (s *Session) powerToggle(ctx context.Context) {
	if s.snap.Source == core.SourceStandby {
		if err := s.controller.PowerOn(ctx); err != nil {
			s.setStatus(err.Error(), true)
			return
		}
		s.refreshStatus(ctx)
		s.dirty = true
		return
	}
	if err := s.controller.Shutdown(ctx); err != nil {
		s.setStatus(err.Error(), true)
		return
	}
	s.phase = phaseTerminating
}

// openHelp and openSourceMenu switch into a modal phase: the modal is drawn
// once and ordinary redraws stay suppressed until a key closes it.
func (s *Session) openHelp() {
	s.phase = phaseModalHelp
	s.mapper.Reset()
	w, _ := s.terminal.Size()
	s.terminal.ClearScreen()
	s.terminal.Write([]byte(render.HelpScreen(s.opts.Render, w)))
}

func (s *Session) openSourceMenu() {
	s.phase = phaseModalSource
	s.mapper.Reset()
	w, _ := s.terminal.Size()
	s.terminal.ClearScreen()
	s.terminal.Write([]byte(render.SourceMenu(s.snap.Source, s.opts.Render, w)))
}

// pickSource maps a digit key to the source list; any other key cancels.
func (s *Session) pickSource(ctx context.Context, b byte) {
	defer s.closeModal()

	idx := int(b - '1')
	if idx < 0 || idx >= len(core.Sources) {
		return
	}
	src := core.Sources[idx]
	if err := s.controller.SetSource(ctx, src); err != nil {
		s.setStatus(err.Error(), true)
		return
	}
	s.snap.Source = src
}

// closeModal returns to the running phase and forces one redraw so the
// frame replaces the modal immediately.
func (s *Session) closeModal() {
	s.phase = phaseRunning
	s.mapper.Reset()
	s.dirty = true
}

// drainUpdates merges every pending background event into the snapshot.
// Channel closure marks the stream dead, which arms the fallback poll.
func (s *Session) drainUpdates() {
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				s.events = nil
				s.errs = nil
				s.log.Warn("update stream ended, falling back to slow polling")
				continue
			}
			next, changed := core.Apply(s.snap, ev)
			s.snap = next
			if changed {
				s.dirty = true
			}
		case err, ok := <-s.errs:
			if !ok {
				s.errs = nil
				continue
			}
			s.log.WithError(err).Debug("poll error")
			s.setStatus(err.Error(), true)
		default:
			return
		}
	}
}

// fallbackPoll re-fetches state synchronously once the stream is gone.
func (s *Session) fallbackPoll(ctx context.Context) {
	if s.events != nil {
		return
	}
	if time.Since(s.lastFallback) < fallbackInterval {
		return
	}
	s.lastFallback = time.Now()
	if s.refreshStatus(ctx) {
		s.dirty = true
	}
}

// refreshStatus re-reads volume, mute, source, and playback state, plus
// track info when something is playing. Errors are swallowed: a failed
// refresh leaves the previous value.
func (s *Session) refreshStatus(ctx context.Context) bool {
	before := s.snap

	if v, err := s.controller.GetVolume(ctx); err == nil {
		s.snap.Volume = core.ClampVolume(v)
	}
	if m, err := s.controller.IsMuted(ctx); err == nil {
		s.snap.Muted = m
	}
	if src, err := s.controller.GetSource(ctx); err == nil {
		s.snap.Source = src
	}
	if playing, err := s.controller.IsPlaying(ctx); err == nil {
		s.snap.Playing = playing
	}
	if s.snap.Playing {
		if tr, err := s.controller.GetTrack(ctx); err == nil {
			s.snap.Track = tr
		}
		if pos, err := s.controller.GetPosition(ctx); err == nil {
			s.snap.PositionMs = &pos
		}
		if dur, err := s.controller.GetDuration(ctx); err == nil {
			s.snap.DurationMs = &dur
		}
	}

	return !s.snap.Equal(before)
}

// setStatus shows a transient status line under the frame.
func (s *Session) setStatus(msg string, isErr bool) {
	s.statusMsg = msg
	s.statusErr = isErr
	s.statusExpiry = time.Now().Add(statusTTL)
	s.dirty = true
}

// expireStatus clears a stale status line.
func (s *Session) expireStatus() {
	if s.statusMsg == "" || time.Now().Before(s.statusExpiry) {
		return
	}
	s.statusMsg = ""
	s.statusErr = false
	s.dirty = true
}

// draw renders the current snapshot. Modal and terminating phases suppress
// it entirely: the pending dirty flag survives until the modal closes.
func (s *Session) draw() {
	if s.phase != phaseRunning {
		return
	}
	w, _ := s.terminal.Size()
	frame := render.Screen(s.opts.Name, s.snap, s.opts.Render, w)
	frame += render.KeyHints(s.opts.Render, w)
	if s.statusMsg != "" {
		frame += render.StatusLine(s.statusMsg, s.statusErr, s.opts.Render, w)
	}
	s.terminal.ClearScreen()
	s.terminal.Write([]byte(frame))
	s.dirty = false
}
