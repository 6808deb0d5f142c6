package main

import (
	"github.com/spf13/cobra"

	"github.com/batchlens/batchlens/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running batchlens server via HTTP.

These commands require a running server (batchlens serve).
Use --server to specify a custom server URL.

Examples:
  batchlens api health                      # Check server health
  batchlens api classify --text "..."       # Classify a page
  batchlens api documents                   # List ingested documents`,
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	for _, ep := range endpoints.All() {
		apiCmd.AddCommand(ep.Command(getServerURL))
	}

	rootCmd.AddCommand(apiCmd)
}
