package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/batchlens/batchlens/internal/classify"
	"github.com/batchlens/batchlens/internal/extraction"
	"github.com/batchlens/batchlens/internal/layout"
)

func testRunner(workers int) *Runner {
	return New(layout.New(), classify.NewRuleClassifier(nil), workers, nil)
}

func longText(prefix string) string {
	return prefix + " " + strings.Repeat("batch record content ", 5)
}

func TestRunner_Run(t *testing.T) {
	t.Run("preserves page order", func(t *testing.T) {
		pages := []PageInput{
			{PageNumber: 1, Text: longText("raw material lot number 123")},
			{PageNumber: 2, Text: longText("equipment cleaning record")},
			{PageNumber: 3, Text: longText("batch record summary")},
		}

		result := testRunner(2).Run(context.Background(), "doc-1", pages)

		if result.DocumentID != "doc-1" {
			t.Errorf("expected doc-1, got %s", result.DocumentID)
		}
		if len(result.Pages) != 3 {
			t.Fatalf("expected 3 pages, got %d", len(result.Pages))
		}
		for i, pr := range result.Pages {
			if pr.PageNumber != i+1 {
				t.Errorf("page %d: expected number %d, got %d", i, i+1, pr.PageNumber)
			}
			if pr.Layout == nil {
				t.Errorf("page %d: expected layout analysis", i)
			}
		}
		if result.Pages[0].Classification.Classification != classify.PageMaterialsLog {
			t.Errorf("expected materials_log, got %s", result.Pages[0].Classification.Classification)
		}
	})

	t.Run("detects quality issues across pages", func(t *testing.T) {
		pages := []PageInput{
			{PageNumber: 1, Text: longText("materials")},
			{PageNumber: 3, Text: longText("summary")},
		}

		result := testRunner(1).Run(context.Background(), "doc-2", pages)

		if len(result.QualityIssues) != 1 {
			t.Fatalf("expected 1 quality issue, got %d", len(result.QualityIssues))
		}
		if result.QualityIssues[0].Type != classify.IssueMissing {
			t.Errorf("expected missing issue, got %s", result.QualityIssues[0].Type)
		}
		if len(result.Alerts) != 1 {
			t.Fatalf("expected 1 alert, got %d", len(result.Alerts))
		}
		if result.Alerts[0].Category != "page_quality" {
			t.Errorf("expected page_quality alert, got %s", result.Alerts[0].Category)
		}
		if result.Alerts[0].Source == nil || result.Alerts[0].Source.PageNumber != 2 {
			t.Errorf("expected alert source page 2, got %+v", result.Alerts[0].Source)
		}
	})

	t.Run("uses extraction text blocks when page text empty", func(t *testing.T) {
		data := &extraction.ExtractedData{
			TextBlocks: []extraction.TextBlock{
				{Text: longText("raw material lot number 77")},
			},
		}
		pages := []PageInput{{PageNumber: 1, Extraction: data}}

		result := testRunner(1).Run(context.Background(), "doc-3", pages)

		if got := result.Pages[0].Classification.Classification; got != classify.PageMaterialsLog {
			t.Errorf("expected materials_log from extraction text, got %s", got)
		}
		if len(result.QualityIssues) != 0 {
			t.Errorf("expected no quality issues, got %v", result.QualityIssues)
		}
	})

	t.Run("empty input yields empty result", func(t *testing.T) {
		result := testRunner(4).Run(context.Background(), "doc-4", nil)
		if len(result.Pages) != 0 || len(result.QualityIssues) != 0 || len(result.Alerts) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("worker bound below one is clamped", func(t *testing.T) {
		r := New(layout.New(), classify.NewRuleClassifier(nil), 0, nil)
		result := r.Run(context.Background(), "doc-5", []PageInput{
			{PageNumber: 1, Text: longText("cleaning record")},
		})
		if len(result.Pages) != 1 {
			t.Fatalf("expected 1 page, got %d", len(result.Pages))
		}
	})
}
