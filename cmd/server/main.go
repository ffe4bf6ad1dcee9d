// Command qualitydesk serves the edit reconciliation API for the data quality
// dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "qualitydesk",
	Short: "Edit reconciliation service for the data quality dashboard",
	Long: `qualitydesk keeps the per-project history of value corrections and
indicator renames made in the data quality dashboard.

Configuration comes from an optional YAML file and QUALITYDESK_* environment
variables.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "qualitydesk.yaml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
}
