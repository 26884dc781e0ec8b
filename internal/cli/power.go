package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amebalabs/KefirCLI/internal/core"
)

var powerCmd = &cobra.Command{
	Use:   "power [on|off|status]",
	Short: "Power the speaker on or off",
	Long: `Power control. KEF speakers wake to the Wi-Fi source and power off
into network standby, so they stay reachable for "power on".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPower,
}

func init() {
	rootCmd.AddCommand(powerCmd)
}

func runPower(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sp, profile, err := resolveSpeaker()
	if err != nil {
		return err
	}

	action := "status"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "status":
		state, err := sp.GetPowerState(ctx)
		if err != nil {
			return err
		}
		touchLastSeen(profile)

		if JSONOutput() {
			return printJSON(map[string]interface{}{"power": state})
		}
		if state == core.PowerStandby {
			fmt.Println("○ Standby")
		} else {
			fmt.Println("● On")
		}
		return nil

	case "on":
		if err := sp.PowerOn(ctx); err != nil {
			return fmt.Errorf("failed to power on: %w", err)
		}
		touchLastSeen(profile)

		if JSONOutput() {
			return printJSON(map[string]string{"power": "on"})
		}
		fmt.Println("● Powered on")
		return nil

	case "off":
		if err := sp.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to power off: %w", err)
		}
		touchLastSeen(profile)

		if JSONOutput() {
			return printJSON(map[string]string{"power": "standby"})
		}
		fmt.Println("○ Powered off (network standby)")
		return nil

	default:
		return fmt.Errorf("unknown power action %q (use on, off, or status)", action)
	}
}
