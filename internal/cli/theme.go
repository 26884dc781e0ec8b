package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or set the display theme",
	Long: `Shows the effective display theme, or persists a new one.

The theme controls colored output and emoji across all commands. Until
one is saved, the ui.colors and ui.emojis values from config.toml apply.`,
	RunE: runThemeShow,
}

var themeSetCmd = &cobra.Command{
	Use:   "set <key>=<value> [<key>=<value>...]",
	Short: "Persist theme settings",
	Long: `Persist theme settings. Keys not mentioned keep their current value.

Examples:
  kefirctl theme set colors=false
  kefirctl theme set colors=true emojis=false`,
	Args: cobra.MinimumNArgs(1),
	RunE: runThemeSet,
}

func init() {
	themeCmd.AddCommand(themeSetCmd)
	rootCmd.AddCommand(themeCmd)
}

func runThemeShow(cmd *cobra.Command, args []string) error {
	rc := renderConfig()
	_, persisted, err := store.Theme()
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{
			"colors":    rc.Colors,
			"emojis":    rc.Emojis,
			"persisted": persisted,
		})
	}

	fmt.Printf("Colors: %s\n", onOff(rc.Colors))
	fmt.Printf("Emojis: %s\n", onOff(rc.Emojis))
	if !persisted {
		fmt.Println("\nUsing config.toml defaults. Run 'kefirctl theme set' to save a theme.")
	}
	return nil
}

func runThemeSet(cmd *cobra.Command, args []string) error {
	var colors, emojis *bool

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("invalid argument %q. Use key=value (e.g. colors=false)", arg)
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("value for %s must be true or false", key)
		}
		switch key {
		case "colors":
			colors = &b
		case "emojis":
			emojis = &b
		default:
			return fmt.Errorf("unknown theme key %q. Supported: colors, emojis", key)
		}
	}

	theme, err := store.UpdateTheme(colors, emojis)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(theme)
	}
	fmt.Printf("Theme saved. Colors: %s, Emojis: %s\n", onOff(theme.Colors), onOff(theme.Emojis))
	return nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
