package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amebalabs/KefirCLI/internal/kef"
	"github.com/amebalabs/KefirCLI/internal/watch"
)

var (
	watchNoEmoji   bool
	watchTimestamp bool
	watchFormat    string
	watchInterval  time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow speaker state changes in real-time",
	Long: `Watches the speaker and prints a line for every state change.

Events tracked:
  - Track changes (new song started)
  - Track completions (song finished)
  - Track skips (song skipped before completion)
  - Pause/Resume
  - Volume changes and mute toggles
  - Source changes`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoEmoji, "no-emoji", false, "Disable emoji output")
	watchCmd.Flags().BoolVarP(&watchTimestamp, "timestamp", "t", false, "Show timestamps")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "", "Custom format template")
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", time.Second, "Poll interval")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	sp, profile, err := resolveSpeaker()
	if err != nil {
		return err
	}

	formatter := watch.NewFormatter(
		watch.WithEmoji(!watchNoEmoji),
		watch.WithTimestamp(watchTimestamp),
		watch.WithTemplate(watchFormat),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	showCurrentTrack(ctx, sp, formatter)
	touchLastSeen(profile)

	watcher := watch.NewWatcher(sp, watchInterval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			fmt.Println(formatter.Format(event))

		case err := <-errCh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

// showCurrentTrack prints whatever is playing when the watch starts.
func showCurrentTrack(ctx context.Context, sp *kef.Speaker, formatter *watch.Formatter) {
	snap, err := sp.Snapshot(ctx)
	if err != nil || !snap.HasTrack() {
		return
	}
	fmt.Println(formatter.Format(watch.Event{
		Type:      watch.EventTrackChange,
		Timestamp: time.Now(),
		Current:   &snap,
	}))
}
