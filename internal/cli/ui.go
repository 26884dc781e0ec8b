package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	kefirerr "github.com/amebalabs/KefirCLI/internal/errors"
	"github.com/amebalabs/KefirCLI/internal/term"
	"github.com/amebalabs/KefirCLI/internal/tui"
)

var uiRefresh time.Duration

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive control session",
	Long: `Opens a full-screen live view of the speaker with single-key
controls.

  space        play/pause
  + / - / ↑/↓  volume up/down by 5
  shift+↑/↓    volume up/down by 1
  m            mute/unmute
  → / ←        next/previous track
  s            source menu
  p            power toggle
  r            refresh
  h or ?       help
  q            quit`,
	RunE: runUI,
}

func init() {
	uiCmd.Flags().DurationVar(&uiRefresh, "refresh", 0, "Screen refresh interval (default from config)")
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sp, profile, err := resolveSpeaker()
	if err != nil {
		return err
	}

	terminal := term.New()
	if !terminal.IsTerminal() {
		return kefirerr.WithSuggestion(
			fmt.Errorf("the interactive session needs a terminal"),
			"Use 'kefirctl status' or 'kefirctl watch' for non-interactive output")
	}

	refresh := uiRefresh
	if refresh == 0 {
		refresh = cfg.RefreshInterval()
	}

	session := tui.NewSession(sp, terminal, tui.Options{
		Name:    speakerLabel(profile, sp),
		Refresh: refresh,
		Poll:    cfg.PollInterval(),
		Render:  renderConfig(),
		Logger:  logrus.StandardLogger(),
	})

	if err := session.Run(ctx); err != nil {
		return fmt.Errorf("session ended: %w", err)
	}
	touchLastSeen(profile)
	return nil
}
