package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amebalabs/KefirCLI/internal/core"
	"github.com/amebalabs/KefirCLI/internal/render"
)

var sourceCmd = &cobra.Command{
	Use:   "source [get|set <source>|list]",
	Short: "Show or change the input source",
	Long: `Show or change the speaker's input source.

Examples:
  kefirctl source           # show current source
  kefirctl source set tv    # switch to the TV input
  kefirctl source list      # list selectable sources`,
	Args: cobra.MaximumNArgs(2),
	RunE: runSource,
}

func init() {
	rootCmd.AddCommand(sourceCmd)
}

func runSource(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	action := "get"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "list":
		return runSourceList()

	case "get":
		sp, profile, err := resolveSpeaker()
		if err != nil {
			return err
		}
		src, err := sp.GetSource(ctx)
		if err != nil {
			return err
		}
		touchLastSeen(profile)

		if JSONOutput() {
			return printJSON(map[string]interface{}{"source": src})
		}
		fmt.Printf("%s%s\n", render.SourceIcon(src, renderConfig()), src.DisplayName())
		return nil

	case "set":
		if len(args) < 2 {
			return fmt.Errorf("usage: kefirctl source set <source>")
		}
		return runSourceSet(ctx, args[1])

	default:
		// Bare source name works too: `kefirctl source tv`.
		return runSourceSet(ctx, action)
	}
}

func runSourceSet(ctx context.Context, name string) error {
	src, err := core.ParseSource(name)
	if err != nil {
		return err
	}

	sp, profile, err := resolveSpeaker()
	if err != nil {
		return err
	}

	if err := sp.SetSource(ctx, src); err != nil {
		return fmt.Errorf("failed to switch source: %w", err)
	}
	touchLastSeen(profile)

	if JSONOutput() {
		return printJSON(map[string]interface{}{"source": src})
	}
	fmt.Printf("%sSource: %s\n", render.SourceIcon(src, renderConfig()), src.DisplayName())
	return nil
}

func runSourceList() error {
	if JSONOutput() {
		return printJSON(map[string]interface{}{"sources": core.Sources})
	}

	rc := renderConfig()
	for _, s := range core.Sources {
		fmt.Printf("  %s%-10s %s\n", render.SourceIcon(s, rc), s, s.DisplayName())
	}
	return nil
}
