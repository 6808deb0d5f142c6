package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/batchlens/batchlens/internal/api"
	"github.com/batchlens/batchlens/internal/pipeline"
	"github.com/batchlens/batchlens/internal/svcctx"
)

// ProcessDocumentRequest is the full extraction payload for a document run.
// DocumentID is optional; when it names an ingested document the result is
// attached to it.
type ProcessDocumentRequest struct {
	DocumentID string               `json:"document_id,omitempty"`
	Pages      []pipeline.PageInput `json:"pages"`
}

// ProcessDocumentEndpoint handles POST /documents/process: parallel per-page
// layout analysis and classification plus document-level quality issues.
type ProcessDocumentEndpoint struct{}

func (e *ProcessDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/documents/process", e.handler
}

func (e *ProcessDocumentEndpoint) RequiresInit() bool { return true }

func (e *ProcessDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ProcessDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Pages) == 0 {
		writeError(w, http.StatusBadRequest, "pages are required")
		return
	}

	runner := svcctx.PipelineFrom(r.Context())
	if runner == nil {
		writeError(w, http.StatusServiceUnavailable, "pipeline not initialized")
		return
	}

	result := runner.Run(r.Context(), req.DocumentID, req.Pages)

	if req.DocumentID != "" {
		if store := svcctx.DocumentsFrom(r.Context()); store != nil {
			store.SetResult(req.DocumentID, result)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (e *ProcessDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	var documentID string
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run layout analysis and classification over a whole document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read pages file: %w", err)
			}
			var req ProcessDocumentRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("failed to parse pages file: %w", err)
			}
			if documentID != "" {
				req.DocumentID = documentID
			}

			client := api.NewClient(getServerURL())
			var resp pipeline.Result
			if err := client.Post(cmd.Context(), "/documents/process", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Document pages JSON file (required)")
	cmd.Flags().StringVar(&documentID, "document", "", "Attach the result to an ingested document id")
	return cmd
}
