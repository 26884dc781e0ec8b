package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start or toggle playback",
	Long:  `Start playback. The speaker exposes a single play/pause toggle, so this resumes a paused stream.`,
	RunE:  runPlayPause("▶ ", "Playback toggled"),
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback",
	Long:  `Pause the current playback.`,
	RunE:  runPlayPause("⏸ ", "Playback toggled"),
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next track",
	Long:  `Skip to the next track in the current stream.`,
	RunE:  runNext,
}

var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go to previous track",
	Long:  `Go back to the previous track.`,
	RunE:  runPrev,
}

var muteCmd = &cobra.Command{
	Use:   "mute",
	Short: "Mute the speaker",
	RunE:  runMute,
}

var unmuteCmd = &cobra.Command{
	Use:   "unmute",
	Short: "Unmute the speaker",
	RunE:  runUnmute,
}

func init() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(muteCmd)
	rootCmd.AddCommand(unmuteCmd)
}

func runPlayPause(emoji, message string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		sp, profile, err := resolveSpeaker()
		if err != nil {
			return err
		}

		if err := sp.TogglePlayPause(ctx); err != nil {
			return fmt.Errorf("failed to toggle playback: %w", err)
		}
		touchLastSeen(profile)

		if JSONOutput() {
			return printJSON(map[string]string{"status": "toggled"})
		}
		fmt.Println(icon(emoji, "") + message)
		return nil
	}
}

func runNext(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sp, profile, err := resolveSpeaker()
	if err != nil {
		return err
	}

	if err := sp.NextTrack(ctx); err != nil {
		return fmt.Errorf("failed to skip: %w", err)
	}
	touchLastSeen(profile)

	if JSONOutput() {
		return printJSON(map[string]string{"status": "skipped"})
	}
	fmt.Println(icon("⏭ ", "") + "Skipped to next track")
	return nil
}

func runPrev(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sp, profile, err := resolveSpeaker()
	if err != nil {
		return err
	}

	if err := sp.PreviousTrack(ctx); err != nil {
		return fmt.Errorf("failed to go back: %w", err)
	}
	touchLastSeen(profile)

	if JSONOutput() {
		return printJSON(map[string]string{"status": "previous"})
	}
	fmt.Println(icon("⏮ ", "") + "Previous track")
	return nil
}

func runMute(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sp, profile, err := resolveSpeaker()
	if err != nil {
		return err
	}

	if err := sp.Mute(ctx); err != nil {
		return fmt.Errorf("failed to mute: %w", err)
	}
	touchLastSeen(profile)

	if JSONOutput() {
		return printJSON(map[string]string{"status": "muted"})
	}
	fmt.Println(icon("🔇 ", "") + "Muted")
	return nil
}

func runUnmute(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sp, profile, err := resolveSpeaker()
	if err != nil {
		return err
	}

	if err := sp.Unmute(ctx); err != nil {
		return fmt.Errorf("failed to unmute: %w", err)
	}
	touchLastSeen(profile)

	if JSONOutput() {
		return printJSON(map[string]string{"status": "unmuted"})
	}
	fmt.Println(icon("🔊 ", "") + "Unmuted")
	return nil
}
