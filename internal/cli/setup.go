package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	kefirerr "github.com/amebalabs/KefirCLI/internal/errors"
	"github.com/amebalabs/KefirCLI/internal/kef"
	"github.com/amebalabs/KefirCLI/internal/wizard"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively add a speaker",
	Long: `Walks through finding a speaker on the network and saving it as a
profile. Pick a discovered speaker or enter a host manually, then give
it a name.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if !wizard.CanInteract() {
		return kefirerr.WithSuggestion(
			fmt.Errorf("setup needs an interactive terminal"),
			"Run 'kefirctl speakers add <name> <host>' instead")
	}

	scan := func(ctx context.Context) ([]*kef.Device, error) {
		return kef.NewDiscovery(cfg.DiscoveryTimeout()).Discover(ctx)
	}

	choice, err := wizard.RunSpeakerPicker(ctx, scan)
	if err != nil {
		return fmt.Errorf("speaker selection failed: %w", err)
	}
	if choice == nil {
		fmt.Println("Setup cancelled.")
		return nil
	}

	existing, err := store.Speakers()
	if err != nil {
		return err
	}

	suggested := choice.Name
	if suggested == "" {
		suggested = choice.Host
	}

	profile, err := wizard.RunProfileForm(suggested, len(existing) == 0)
	if err != nil {
		return err
	}

	saved, err := store.AddSpeaker(profile.Name, choice.Host, profile.Default)
	if err != nil {
		return err
	}

	// Probe the speaker so the profile starts with an honest last-seen
	// stamp. An unreachable speaker still gets saved.
	if _, err := newSpeaker(saved.Host).GetPowerState(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s did not respond: %v\n", saved.Host, err)
	} else {
		touchLastSeen(&saved)
	}

	suffix := ""
	if saved.IsDefault {
		suffix = " as the default speaker"
	}
	fmt.Printf("%sAdded %s (%s)%s\n", icon("✅ ", ""), saved.Name, saved.Host, suffix)
	fmt.Println("Try 'kefirctl status' or 'kefirctl ui' to start controlling it.")
	return nil
}
