package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/batchlens/batchlens/internal/api"
	"github.com/batchlens/batchlens/internal/config"
	"github.com/batchlens/batchlens/internal/extraction"
	"github.com/batchlens/batchlens/internal/layout"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <extraction.json>",
	Short: "Analyze the layout of a saved extraction payload offline",
	Long: `Analyze runs the layout analyzer locally over a saved OCR extraction
payload, without a running server. Pattern overrides from the config file
are applied.

Example:
  batchlens analyze page-3.json -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read extraction file: %w", err)
		}
		var data extraction.ExtractedData
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("failed to parse extraction file: %w", err)
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		analyzer, err := layout.NewWithOverrides(layout.Overrides{
			SectionPatterns: cfg.Layout.SectionPatterns,
			FieldPatterns:   cfg.Layout.FieldPatterns,
		})
		if err != nil {
			return fmt.Errorf("invalid layout pattern overrides: %w", err)
		}

		return api.Output(analyzer.Analyze(&data))
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
