package endpoints

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/batchlens/batchlens/internal/api"
	"github.com/batchlens/batchlens/internal/ingest"
	"github.com/batchlens/batchlens/internal/svcctx"
)

// IngestDocumentEndpoint handles POST /documents/ingest with a multipart PDF
// upload.
type IngestDocumentEndpoint struct{}

var _ api.Endpoint = (*IngestDocumentEndpoint)(nil)

func (e *IngestDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/documents/ingest", e.handler
}

func (e *IngestDocumentEndpoint) RequiresInit() bool { return true }

func (e *IngestDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form with 100MB max memory
	const maxMemory = 100 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not a PDF", header.Filename))
		return
	}

	store := svcctx.DocumentsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "document store not initialized")
		return
	}

	doc, err := ingest.Intake(r.Context(), store, ingest.Request{
		Filename: header.Filename,
		Reader:   file,
		Home:     svcctx.HomeFrom(r.Context()),
		Logger:   svcctx.LoggerFrom(r.Context()),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusCreated
	if doc.Status == ingest.StatusInvalid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, doc)
}

func (e *IngestDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file.pdf>",
		Short: "Upload a batch-record PDF for analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer f.Close()

			client := api.NewClient(getServerURL())
			var resp ingest.Document
			if err := client.PostFile(cmd.Context(), "/documents/ingest", "file", args[0], f, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ListDocumentsEndpoint handles GET /documents.
type ListDocumentsEndpoint struct{}

func (e *ListDocumentsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/documents", e.handler
}

func (e *ListDocumentsEndpoint) RequiresInit() bool { return true }

func (e *ListDocumentsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.DocumentsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "document store not initialized")
		return
	}
	writeJSON(w, http.StatusOK, store.List())
}

func (e *ListDocumentsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "documents",
		Short: "List ingested documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp []ingest.Document
			if err := client.Get(cmd.Context(), "/documents", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetDocumentEndpoint handles GET /documents/{id}.
type GetDocumentEndpoint struct{}

func (e *GetDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/documents/{id}", e.handler
}

func (e *GetDocumentEndpoint) RequiresInit() bool { return true }

func (e *GetDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.DocumentsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "document store not initialized")
		return
	}

	doc := store.Get(r.PathValue("id"))
	if doc == nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (e *GetDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "document <id>",
		Short: "Get an ingested document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ingest.Document
			if err := client.Get(cmd.Context(), "/documents/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
