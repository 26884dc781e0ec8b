package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amebalabs/KefirCLI/internal/kef"
)

var discoverTimeout time.Duration

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan the local network for KEF speakers",
	Long: `Scans the local network for KEF speakers using SSDP and mDNS.

Speakers answer the scan when they are powered on or in network standby
and reachable on the same subnet.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", 0, "Scan window (default from config)")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	timeout := discoverTimeout
	if timeout == 0 {
		timeout = cfg.DiscoveryTimeout()
	}

	if Verbose() {
		fmt.Fprintf(os.Stderr, "Scanning for %s...\n", timeout)
	}

	devices, err := kef.NewDiscovery(timeout).Discover(ctx)
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		if JSONOutput() {
			return printJSON([]*kef.Device{})
		}
		fmt.Println("No speakers found. Make sure the speaker is powered on and on the same network.")
		return nil
	}

	if JSONOutput() {
		return printJSON(devices)
	}

	headers := []string{"NAME", "MODEL", "IP", "UUID"}
	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		name := d.Name
		if name == "" {
			name = "(unnamed)"
		}
		model := d.Model
		if model == "" {
			model = "-"
		}
		rows = append(rows, []string{name, model, d.IP, d.UUID})
	}
	printTable(headers, rows)

	fmt.Printf("\n%d speaker(s) found. Run 'kefirctl setup' to save one.\n", len(devices))
	return nil
}
