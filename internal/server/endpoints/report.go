package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/batchlens/batchlens/internal/alerts"
	"github.com/batchlens/batchlens/internal/api"
	"github.com/batchlens/batchlens/internal/qa"
	"github.com/batchlens/batchlens/internal/svcctx"
)

// ReportRequest carries the QA input plus the reviewer decisions applied at
// report time.
type ReportRequest struct {
	Input   qa.Input        `json:"input"`
	Reviews []alerts.Review `json:"reviews,omitempty"`
}

// ReportEndpoint handles POST /documents/{id}/report: evaluates the checklist
// and derives the compliance report with reviewer-approval overrides.
type ReportEndpoint struct{}

func (e *ReportEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/documents/{id}/report", e.handler
}

func (e *ReportEndpoint) RequiresInit() bool { return true }

func (e *ReportEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Input.DocumentID = r.PathValue("id")

	checklist := qa.Evaluate(&req.Input)
	report := qa.BuildReport(checklist, req.Reviews)

	if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
		logger.Info("compliance report generated",
			"document_id", report.DocumentID,
			"compliance", report.Compliance,
			"pass_rate", report.PassRate)
	}

	writeJSON(w, http.StatusOK, report)
}

func (e *ReportEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "report <document-id>",
		Short: "Generate the compliance report for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			var req ReportRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("failed to parse input file: %w", err)
			}

			client := api.NewClient(getServerURL())
			var resp qa.Report
			path := fmt.Sprintf("/documents/%s/report", args[0])
			if err := client.Post(cmd.Context(), path, req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Report request JSON file (required)")
	return cmd
}
