// Package ingest handles batch-record PDF intake: upload validation, page
// counting, and the document store the processing endpoints operate on.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/batchlens/batchlens/internal/home"
)

// IntakeStatus reports whether an uploaded file passed PDF validation.
type IntakeStatus string

const (
	StatusValid   IntakeStatus = "valid"
	StatusInvalid IntakeStatus = "invalid"
)

// Request contains the parameters for document intake.
type Request struct {
	Filename string
	Reader   io.ReadSeeker
	Home     *home.Dir    // Optional; valid uploads are persisted here
	Logger   *slog.Logger // Optional logger for progress updates
}

// Intake validates an uploaded PDF and registers it in the store. Validation
// failure is recorded on the document rather than returned: the caller gets a
// document with StatusInvalid and a populated Error field. The page count of
// a valid document seeds the expected page sequence for quality checks.
func Intake(ctx context.Context, store *Store, req Request) (*Document, error) {
	log := req.Logger
	if log == nil {
		log = slog.Default()
	}
	if req.Reader == nil {
		return nil, fmt.Errorf("no upload data provided")
	}

	doc := &Document{
		ID:         uuid.New().String(),
		Filename:   req.Filename,
		Status:     StatusValid,
		IngestedAt: time.Now().UTC(),
	}

	if err := api.Validate(req.Reader, nil); err != nil {
		doc.Status = StatusInvalid
		doc.Error = fmt.Sprintf("PDF validation failed: %v", err)
		store.Add(doc)
		log.Warn("rejected upload", "document_id", doc.ID, "filename", req.Filename, "error", err)
		return doc, nil
	}

	if _, err := req.Reader.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}
	pageCount, err := api.PageCount(req.Reader, nil)
	if err != nil {
		doc.Status = StatusInvalid
		doc.Error = fmt.Sprintf("failed to get page count: %v", err)
		store.Add(doc)
		return doc, nil
	}
	doc.PageCount = pageCount

	if req.Home != nil {
		if err := persistPDF(req.Home, doc.ID, req.Reader); err != nil {
			return nil, err
		}
		doc.Path = req.Home.DocumentPDFPath(doc.ID)
	}

	store.Add(doc)
	log.Info("document ingested", "document_id", doc.ID, "filename", req.Filename, "pages", pageCount)
	return doc, nil
}

// persistPDF copies the validated upload into the home directory.
func persistPDF(h *home.Dir, documentID string, r io.ReadSeeker) error {
	if err := h.EnsureExists(); err != nil {
		return err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind upload: %w", err)
	}
	f, err := os.Create(h.DocumentPDFPath(documentID))
	if err != nil {
		return fmt.Errorf("failed to create document file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to persist document: %w", err)
	}
	return nil
}
