package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOutputTo(t *testing.T) {
	data := map[string]any{"status": "ok"}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatJSON, data); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"status": "ok"`) {
			t.Errorf("unexpected json output: %s", buf.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatYAML, data); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "status: ok") {
			t.Errorf("unexpected yaml output: %s", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if err := OutputTo(&bytes.Buffer{}, OutputFormat("xml"), data); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestClient(t *testing.T) {
	t.Run("get decodes response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		}))
		defer srv.Close()

		var result struct {
			Status string `json:"status"`
		}
		if err := NewClient(srv.URL).Get(context.Background(), "/health", &result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Status != "ok" {
			t.Errorf("expected ok, got %s", result.Status)
		}
	})

	t.Run("error response surfaces message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"bad input"}`))
		}))
		defer srv.Close()

		err := NewClient(srv.URL).Get(context.Background(), "/x", nil)
		if err == nil || !strings.Contains(err.Error(), "bad input") {
			t.Errorf("expected server error message, got %v", err)
		}
	})

	t.Run("wait healthy succeeds once server responds", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"status":"ok"}`))
		}))
		defer srv.Close()

		if err := NewClient(srv.URL).WaitHealthy(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts < 3 {
			t.Errorf("expected at least 3 attempts, got %d", attempts)
		}
	})
}
