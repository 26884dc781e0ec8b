package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/amebalabs/KefirCLI/internal/core"
)

// volumeStep is the delta used by `volume up` and `volume down`.
const volumeStep = 5

var volumeCmd = &cobra.Command{
	Use:   "volume [get|set <level>|up|down]",
	Short: "Show or change the volume",
	Long: `Show or change the speaker volume (0-100).

Examples:
  kefirctl volume          # show current volume
  kefirctl volume set 40   # set volume to 40%
  kefirctl volume up       # increase by 5%
  kefirctl volume down     # decrease by 5%`,
	Args: cobra.MaximumNArgs(2),
	RunE: runVolume,
}

func init() {
	rootCmd.AddCommand(volumeCmd)
}

func runVolume(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sp, profile, err := resolveSpeaker()
	if err != nil {
		return err
	}

	action := "get"
	if len(args) > 0 {
		action = args[0]
	}

	current, err := sp.GetVolume(ctx)
	if err != nil {
		return err
	}
	touchLastSeen(profile)

	var target int
	switch action {
	case "get":
		if JSONOutput() {
			return printJSON(map[string]interface{}{"volume": current})
		}
		fmt.Printf("%sVolume: %d%%\n", icon("🔊 ", ""), current)
		return nil

	case "set":
		if len(args) < 2 {
			return fmt.Errorf("usage: kefirctl volume set <level>")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid volume level: %s", args[1])
		}
		if v < 0 || v > 100 {
			return fmt.Errorf("volume must be between 0 and 100")
		}
		target = v

	case "up":
		target = core.ClampVolume(current + volumeStep)

	case "down":
		target = core.ClampVolume(current - volumeStep)

	default:
		// Bare number works too: `kefirctl volume 40`.
		v, err := strconv.Atoi(action)
		if err != nil {
			return fmt.Errorf("unknown volume action %q", action)
		}
		if v < 0 || v > 100 {
			return fmt.Errorf("volume must be between 0 and 100")
		}
		target = v
	}

	if err := sp.SetVolume(ctx, target); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{"volume": target, "previous": current})
	}
	fmt.Printf("%sVolume: %d%% (was %d%%)\n", icon("🔊 ", ""), target, current)
	return nil
}
