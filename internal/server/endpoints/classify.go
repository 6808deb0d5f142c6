package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/batchlens/batchlens/internal/api"
	"github.com/batchlens/batchlens/internal/classify"
	"github.com/batchlens/batchlens/internal/svcctx"
)

// ClassifyPageRequest is the request body for classifying a single page.
type ClassifyPageRequest struct {
	Text       string `json:"text"`
	PageNumber int    `json:"page_number"`
}

// ClassifyPageEndpoint handles POST /pages/classify.
type ClassifyPageEndpoint struct{}

func (e *ClassifyPageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/pages/classify", e.handler
}

func (e *ClassifyPageEndpoint) RequiresInit() bool { return true }

func (e *ClassifyPageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ClassifyPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	classifier := svcctx.ClassifierFrom(r.Context())
	if classifier == nil {
		writeError(w, http.StatusServiceUnavailable, "classifier not initialized")
		return
	}

	result := classifier.ClassifyPage(r.Context(), req.Text, req.PageNumber)
	writeJSON(w, http.StatusOK, result)
}

func (e *ClassifyPageEndpoint) Command(getServerURL func() string) *cobra.Command {
	var text string
	var pageNumber int
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a page by its text content",
		RunE: func(cmd *cobra.Command, args []string) error {
			if text == "" {
				return fmt.Errorf("--text is required")
			}
			client := api.NewClient(getServerURL())
			var resp classify.Result
			req := ClassifyPageRequest{Text: text, PageNumber: pageNumber}
			if err := client.Post(cmd.Context(), "/pages/classify", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Page text content (required)")
	cmd.Flags().IntVar(&pageNumber, "page", 1, "Page number")
	return cmd
}
