package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/batchlens/batchlens/internal/api"
	"github.com/batchlens/batchlens/internal/extraction"
	"github.com/batchlens/batchlens/internal/svcctx"
)

// AnalyzeLayoutEndpoint handles POST /layout/analyze. The request body is a
// raw extraction payload; the response is the full layout analysis.
type AnalyzeLayoutEndpoint struct{}

func (e *AnalyzeLayoutEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/layout/analyze", e.handler
}

func (e *AnalyzeLayoutEndpoint) RequiresInit() bool { return true }

func (e *AnalyzeLayoutEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var data extraction.ExtractedData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	analyzer := svcctx.AnalyzerFrom(r.Context())
	if analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "layout analyzer not initialized")
		return
	}

	writeJSON(w, http.StatusOK, analyzer.Analyze(&data))
}

func (e *AnalyzeLayoutEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the layout of an extraction payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read extraction file: %w", err)
			}
			var data extraction.ExtractedData
			if err := json.Unmarshal(raw, &data); err != nil {
				return fmt.Errorf("failed to parse extraction file: %w", err)
			}

			client := api.NewClient(getServerURL())
			var resp json.RawMessage
			if err := client.Post(cmd.Context(), "/layout/analyze", data, &resp); err != nil {
				return err
			}
			var decoded any
			if err := json.Unmarshal(resp, &decoded); err != nil {
				return err
			}
			return api.Output(decoded)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Extraction payload JSON file (required)")
	return cmd
}
