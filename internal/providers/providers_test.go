package providers

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"surrounding prose", `Here you go: {"a":1} done`, `{"a":1}`},
		{"markdown fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"nested braces", `{"a":{"b":2}}`, `{"a":{"b":2}}`},
		{"brace in string", `{"a":"}"}`, `{"a":"}"}`},
		{"unbalanced", `{"a":1`, ""},
		{"no object", `nothing here`, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ExtractJSONObject(c.content); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestValidateStructuredResponse(t *testing.T) {
	schema := json.RawMessage(`{
		"type": "object",
		"properties": {
			"classification": {"type": "string"},
			"confidence": {"type": "number"}
		}
	}`)

	t.Run("valid response passes", func(t *testing.T) {
		doc, err := ValidateStructuredResponse(schema, `{"classification":"materials_log","confidence":85}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc) == 0 {
			t.Fatal("expected extracted document")
		}
	})

	t.Run("wrong type fails validation", func(t *testing.T) {
		_, err := ValidateStructuredResponse(schema, `{"classification":42}`)
		if err == nil {
			t.Fatal("expected schema validation error")
		}
	})

	t.Run("non json fails", func(t *testing.T) {
		_, err := ValidateStructuredResponse(schema, `not json at all`)
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows burst up to capacity", func(t *testing.T) {
		rl := NewRateLimiter(10)
		ctx := context.Background()
		start := time.Now()
		for i := 0; i < 5; i++ {
			if err := rl.Wait(ctx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
			t.Errorf("burst should not block, took %v", elapsed)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		// Fractional capacity: no full token is available at start.
		rl := NewRateLimiter(0.001)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		if err := rl.Wait(ctx); err == nil {
			t.Fatal("expected context error")
		}
	})

	t.Run("status tracks consumption", func(t *testing.T) {
		rl := NewRateLimiter(10)
		_ = rl.Wait(context.Background())
		st := rl.Status()
		if st.TotalConsumed != 1 {
			t.Errorf("expected 1 consumed, got %d", st.TotalConsumed)
		}
	})
}

func TestMockClient(t *testing.T) {
	t.Run("returns configured JSON", func(t *testing.T) {
		mock := NewMockClient()
		mock.ResponseJSON = json.RawMessage(`{"classification":"filling_log"}`)

		result, err := mock.Chat(context.Background(), &ChatRequest{RequestID: "r1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Success {
			t.Error("expected success")
		}
		if string(result.ParsedJSON) != `{"classification":"filling_log"}` {
			t.Errorf("unexpected parsed JSON: %s", result.ParsedJSON)
		}
	})

	t.Run("fails when configured", func(t *testing.T) {
		mock := NewMockClient()
		mock.ShouldFail = true
		if _, err := mock.Chat(context.Background(), &ChatRequest{}); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	mock := NewMockClient()
	r.RegisterLLM("primary", mock)

	got, err := r.GetLLM("primary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != mock {
		t.Error("expected registered client back")
	}

	if _, err := r.GetLLM("absent"); err == nil {
		t.Error("expected error for unknown client")
	}

	r.UnregisterLLM("primary")
	if _, err := r.GetLLM("primary"); err == nil {
		t.Error("expected error after unregister")
	}
}
