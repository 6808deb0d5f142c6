package main

import (
	"github.com/spf13/cobra"

	"github.com/batchlens/batchlens/internal/api"
	"github.com/batchlens/batchlens/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "batchlens",
	Short: "Batch-record analysis engine for pharmaceutical manufacturing",
	Long: `batchlens analyzes scanned pharmaceutical batch records: it recovers the
spatial layout of OCR-extracted pages, classifies each page into a fixed
taxonomy, detects page-sequence quality problems, and evaluates a
twelve-checkpoint QA checklist with reviewer-approval overrides.

The engine runs as an HTTP service (batchlens serve) with a CLI mirror of
every endpoint (batchlens api), plus offline layout analysis of saved
extraction payloads (batchlens analyze).`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.batchlens/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "batchlens home directory (default: ~/.batchlens)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
