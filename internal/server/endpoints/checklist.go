package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/batchlens/batchlens/internal/api"
	"github.com/batchlens/batchlens/internal/qa"
	"github.com/batchlens/batchlens/internal/svcctx"
)

// ChecklistEndpoint handles POST /documents/{id}/checklist: evaluates the
// twelve QA checkpoints over the submitted document summary and alert pool.
type ChecklistEndpoint struct{}

func (e *ChecklistEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/documents/{id}/checklist", e.handler
}

func (e *ChecklistEndpoint) RequiresInit() bool { return true }

func (e *ChecklistEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var input qa.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input.DocumentID = r.PathValue("id")

	checklist := qa.Evaluate(&input)

	if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
		logger.Info("checklist evaluated",
			"document_id", input.DocumentID,
			"passed", checklist.PassedChecks,
			"failed", checklist.FailedChecks)
	}

	writeJSON(w, http.StatusOK, checklist)
}

func (e *ChecklistEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "checklist <document-id>",
		Short: "Evaluate the QA checklist for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			var input qa.Input
			if err := json.Unmarshal(raw, &input); err != nil {
				return fmt.Errorf("failed to parse input file: %w", err)
			}

			client := api.NewClient(getServerURL())
			var resp qa.Checklist
			path := fmt.Sprintf("/documents/%s/checklist", args[0])
			if err := client.Post(cmd.Context(), path, input, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "QA input JSON file (required)")
	return cmd
}
