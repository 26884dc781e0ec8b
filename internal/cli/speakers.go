package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var speakersDefault bool

var speakersCmd = &cobra.Command{
	Use:   "speakers",
	Short: "Manage saved speaker profiles",
	Long:  `List, add, remove, and pick the default among saved speaker profiles.`,
	RunE:  runSpeakersList,
}

var speakersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved speakers",
	RunE:  runSpeakersList,
}

var speakersAddCmd = &cobra.Command{
	Use:   "add <name> <host>",
	Short: "Save a speaker profile",
	Long: `Save a speaker under a name so commands can target it without an IP.

Examples:
  kefirctl speakers add Office 192.168.1.42
  kefirctl speakers add Den lsx2.local --default`,
	Args: cobra.ExactArgs(2),
	RunE: runSpeakersAdd,
}

var speakersRemoveCmd = &cobra.Command{
	Use:   "remove <id|name>",
	Short: "Remove a saved speaker",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpeakersRemove,
}

var speakersDefaultCmd = &cobra.Command{
	Use:   "default <id|name>",
	Short: "Set the default speaker",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpeakersDefault,
}

func init() {
	speakersAddCmd.Flags().BoolVar(&speakersDefault, "default", false, "make this the default speaker")

	speakersCmd.AddCommand(speakersListCmd)
	speakersCmd.AddCommand(speakersAddCmd)
	speakersCmd.AddCommand(speakersRemoveCmd)
	speakersCmd.AddCommand(speakersDefaultCmd)
	rootCmd.AddCommand(speakersCmd)
}

func runSpeakersList(cmd *cobra.Command, args []string) error {
	profiles, err := store.Speakers()
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(profiles)
	}

	if len(profiles) == 0 {
		fmt.Println("No speakers configured. Run 'kefirctl setup' to add one.")
		return nil
	}

	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		marker := " "
		if p.IsDefault {
			marker = "*"
		}
		lastSeen := "never"
		if !p.LastSeen.IsZero() {
			lastSeen = humanize.Time(p.LastSeen)
		}
		rows = append(rows, []string{marker, p.Name, p.Host, lastSeen})
	}
	printTable([]string{" ", "NAME", "HOST", "LAST SEEN"}, rows)
	return nil
}

func runSpeakersAdd(cmd *cobra.Command, args []string) error {
	profile, err := store.AddSpeaker(args[0], args[1], speakersDefault)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(profile)
	}

	suffix := ""
	if profile.IsDefault {
		suffix = " (default)"
	}
	fmt.Printf("Added %s at %s%s\n", profile.Name, profile.Host, suffix)
	return nil
}

func runSpeakersRemove(cmd *cobra.Command, args []string) error {
	// Look the profile up first so the confirmation can name it.
	profile, err := store.Speaker(args[0])
	if err != nil {
		return err
	}

	if err := store.RemoveSpeaker(args[0]); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "removed", "name": profile.Name})
	}
	fmt.Printf("Removed %s\n", profile.Name)
	return nil
}

func runSpeakersDefault(cmd *cobra.Command, args []string) error {
	profile, err := store.SetDefaultSpeaker(args[0])
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(profile)
	}
	fmt.Printf("Default speaker: %s (%s)\n", profile.Name, profile.Host)
	return nil
}
