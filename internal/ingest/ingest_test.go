package ingest

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/batchlens/batchlens/internal/pipeline"
)

func TestIntake(t *testing.T) {
	t.Run("rejects non-PDF data", func(t *testing.T) {
		store := NewStore()
		doc, err := Intake(context.Background(), store, Request{
			Filename: "notes.txt",
			Reader:   bytes.NewReader([]byte("this is not a pdf")),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.Status != StatusInvalid {
			t.Errorf("expected invalid status, got %s", doc.Status)
		}
		if doc.Error == "" {
			t.Error("expected validation error recorded on document")
		}
		if doc.ID == "" {
			t.Error("expected document id")
		}
		if store.Get(doc.ID) == nil {
			t.Error("expected invalid document registered in store")
		}
	})

	t.Run("nil reader is an error", func(t *testing.T) {
		if _, err := Intake(context.Background(), NewStore(), Request{Filename: "x.pdf"}); err == nil {
			t.Error("expected error for missing upload data")
		}
	})
}

func TestStore(t *testing.T) {
	t.Run("add and get", func(t *testing.T) {
		store := NewStore()
		doc := &Document{ID: "d1", Filename: "a.pdf", Status: StatusValid}
		store.Add(doc)

		if got := store.Get("d1"); got != doc {
			t.Errorf("expected stored document, got %+v", got)
		}
		if store.Get("missing") != nil {
			t.Error("expected nil for unknown id")
		}
		if store.Count() != 1 {
			t.Errorf("expected count 1, got %d", store.Count())
		}
	})

	t.Run("list orders by ingest time", func(t *testing.T) {
		store := NewStore()
		base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		store.Add(&Document{ID: "newer", IngestedAt: base.Add(time.Hour)})
		store.Add(&Document{ID: "older", IngestedAt: base})

		list := store.List()
		if len(list) != 2 {
			t.Fatalf("expected 2 documents, got %d", len(list))
		}
		if list[0].ID != "older" || list[1].ID != "newer" {
			t.Errorf("expected oldest first, got %s, %s", list[0].ID, list[1].ID)
		}
	})

	t.Run("set result", func(t *testing.T) {
		store := NewStore()
		store.Add(&Document{ID: "d1"})

		result := &pipeline.Result{DocumentID: "d1"}
		if !store.SetResult("d1", result) {
			t.Fatal("expected SetResult to succeed")
		}
		if store.Get("d1").Result != result {
			t.Error("expected result attached to document")
		}
		if store.SetResult("missing", result) {
			t.Error("expected SetResult to fail for unknown id")
		}
	})
}
