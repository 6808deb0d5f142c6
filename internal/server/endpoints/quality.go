package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/batchlens/batchlens/internal/api"
	"github.com/batchlens/batchlens/internal/classify"
	"github.com/batchlens/batchlens/internal/svcctx"
)

// DocumentQualityRequest is the request body for page-sequence quality checks.
type DocumentQualityRequest struct {
	Pages []classify.PageInfo `json:"pages"`
}

// DocumentQualityResponse lists the detected quality issues.
type DocumentQualityResponse struct {
	Issues []classify.QualityIssue `json:"issues"`
}

// DocumentQualityEndpoint handles POST /documents/quality.
type DocumentQualityEndpoint struct{}

func (e *DocumentQualityEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/documents/quality", e.handler
}

func (e *DocumentQualityEndpoint) RequiresInit() bool { return true }

func (e *DocumentQualityEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req DocumentQualityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Quality detection is stateless; the logger is the only service used.
	if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
		logger.Debug("quality check requested", "pages", len(req.Pages))
	}

	issues := classify.DetectQualityIssues(req.Pages)
	writeJSON(w, http.StatusOK, DocumentQualityResponse{Issues: issues})
}

func (e *DocumentQualityEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Detect page-sequence quality issues for a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read pages file: %w", err)
			}
			var req DocumentQualityRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("failed to parse pages file: %w", err)
			}

			client := api.NewClient(getServerURL())
			var resp DocumentQualityResponse
			if err := client.Post(cmd.Context(), "/documents/quality", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Pages JSON file (required)")
	return cmd
}
