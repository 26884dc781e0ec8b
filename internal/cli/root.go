package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amebalabs/KefirCLI/internal/config"
	kefirerr "github.com/amebalabs/KefirCLI/internal/errors"
	"github.com/amebalabs/KefirCLI/internal/logging"
)

var (
	cfgFile    string
	jsonOut    bool
	verbose    bool
	speakerArg string

	cfg      *config.Config
	store    *config.Store
	closeLog func()
)

var rootCmd = &cobra.Command{
	Use:   "kefirctl",
	Short: "Control KEF wireless speakers from the command line",
	Long: `KefirCLI discovers, configures, and controls KEF wireless speakers
(LSX II, LS50 Wireless II, LS60) over the local network.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			closeLog()
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: <config dir>/KefirCLI/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&speakerArg, "speaker", "s", "", "speaker to control (name, id, or host)")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Logging failures must not block the command; stdout stays clean and
	// diagnostics simply go nowhere.
	if closer, logErr := logging.Setup(cfg.Log, verbose); logErr == nil {
		closeLog = closer
	} else if verbose {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", logErr)
	}

	store, err = config.NewStore("")
	if err != nil {
		return fmt.Errorf("failed to open speaker store: %w", err)
	}

	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, kefirerr.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// Store returns the speaker profile store.
func Store() *config.Store {
	return store
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
