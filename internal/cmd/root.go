// Package cmd implements the CLI commands for tablechat.
package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tablechat",
	Short: "chat with your tabular data",
	Long: `tablechat - chat with your tabular data
  - /load a CSV file and its column description
  - ask questions in plain language, get SQL-backed answers`,
	SilenceUsage: true,
	RunE:         runChat,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.AddCommand(versionCmd)
}
