package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amebalabs/KefirCLI/internal/core"
	"github.com/amebalabs/KefirCLI/internal/render"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the speaker's current state",
	Long:  `Shows volume, input source, power state, and whatever is playing right now.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sp, profile, err := resolveSpeaker()
	if err != nil {
		return err
	}

	snap, err := sp.Snapshot(ctx)
	if err != nil {
		return err
	}
	touchLastSeen(profile)

	if JSONOutput() {
		return printJSON(statusJSON(speakerLabel(profile, sp), sp.Host(), snap))
	}

	fmt.Print(render.Screen(speakerLabel(profile, sp), snap, renderConfig(), 60))
	return nil
}

func statusJSON(name, host string, snap core.Snapshot) map[string]interface{} {
	out := map[string]interface{}{
		"speaker": name,
		"host":    host,
		"volume":  snap.Volume,
		"muted":   snap.Muted,
		"source":  snap.Source,
		"playing": snap.Playing,
	}

	if snap.Track != nil {
		track := map[string]interface{}{
			"title":  snap.Track.Title,
			"artist": snap.Track.Artist,
			"album":  snap.Track.Album,
		}
		if snap.PositionMs != nil {
			track["position_ms"] = *snap.PositionMs
		}
		if snap.DurationMs != nil {
			track["duration_ms"] = *snap.DurationMs
			track["progress_percent"] = int(snap.ProgressPercent())
		}
		out["track"] = track
	}

	return out
}
