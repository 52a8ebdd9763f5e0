package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"adaptive-reader/cmd/reader/cmd/export"
	"adaptive-reader/cmd/reader/cmd/flags"
	"adaptive-reader/cmd/reader/cmd/serve"
	"adaptive-reader/cmd/reader/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reader",
	Short: "Backend of the Adaptive Reading Assistant",
	Long: `Backend of the Adaptive Reading Assistant.

Serves the dashboard content and relays OCR, speech and NLP requests to
external scripts or to the ML service. Every relayed invocation is recorded
and can be exported to Excel.`,
	TraverseChildren: true,
	SilenceUsage:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "config file (YAML); defaults and environment apply when empty")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "V", false, "verbose output")
}
