package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-align/config"
	"github.com/RyanBlaney/sonido-align/logging"
)

var (
	// Global flags
	cfgFile    string
	outputFile string
	outputJSON bool
	verbose    bool

	// Global configuration, loaded in initConfig
	globalConfig config.Config
	configErr    error
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sonido-align",
	Short: "Forced alignment of speech recordings",
	Long: `sonido-align aligns a speech recording with a synthesized rendition of its
transcript. Both signals are turned into MFCC features and matched frame by
frame with banded Dynamic Time Warping.

Configuration is read from a YAML or JSON file given with --config; any
field left out takes its default.

Examples:
  # Align a recording with its transcript
  sonido-align align recording.wav --text "the quick brown fox"

  # Align two recordings directly
  sonido-align align recording.wav --reference reference.wav --band-seconds 2

  # Print the default configuration
  sonido-align config`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configErr
	},
}

// Command returns the root cobra command
func Command() *cobra.Command {
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON instead of YAML")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(alignCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(enginesCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	globalConfig = config.Default()
	configErr = nil

	if cfgFile != "" {
		globalConfig, configErr = config.Load(cfgFile)
		if configErr != nil {
			return
		}
	}

	logger := logging.NewDefaultLogger()
	logger.SetLevel(logging.ParseLevel(globalConfig.LogLevel))
	if verbose {
		logger.SetLevel(logging.DebugLevel)
	}
	logging.SetGlobalLogger(logger)
}

// getConfig returns the loaded configuration
func getConfig() config.Config {
	return globalConfig
}

// printVerbose prints to stderr in verbose mode
func printVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
