package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-align/tts"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List the available TTS engines",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range tts.DefaultRegistry().Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults and the --config file are applied.
The output is a valid configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return outputResult(cmd.OutOrStdout(), getConfig())
	},
}
