// Package pipeline runs per-page layout analysis and classification for a
// whole document, then derives document-level quality issues from the
// materialized page results.
package pipeline

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/batchlens/batchlens/internal/alerts"
	"github.com/batchlens/batchlens/internal/classify"
	"github.com/batchlens/batchlens/internal/extraction"
	"github.com/batchlens/batchlens/internal/layout"
)

// PageInput is one page of a document submitted for processing.
type PageInput struct {
	PageNumber int                       `json:"page_number"`
	Text       string                    `json:"text"`
	Extraction *extraction.ExtractedData `json:"extraction,omitempty"`
}

// PageResult holds the per-page analysis output.
type PageResult struct {
	PageNumber     int                    `json:"page_number"`
	Layout         *layout.LayoutAnalysis `json:"layout"`
	Classification classify.Result        `json:"classification"`
}

// Result is the outcome of a full document run.
type Result struct {
	DocumentID    string                  `json:"document_id"`
	Pages         []PageResult            `json:"pages"`
	QualityIssues []classify.QualityIssue `json:"quality_issues"`
	Alerts        []alerts.Alert          `json:"alerts"`
}

// Runner executes document processing with a bounded worker count.
type Runner struct {
	analyzer   *layout.Analyzer
	classifier classify.Classifier
	maxWorkers int
	logger     *slog.Logger
}

// New creates a Runner. maxWorkers values below 1 are treated as 1.
func New(analyzer *layout.Analyzer, classifier classify.Classifier, maxWorkers int, logger *slog.Logger) *Runner {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		analyzer:   analyzer,
		classifier: classifier,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// SetMaxWorkers adjusts the worker bound for subsequent runs.
func (r *Runner) SetMaxWorkers(n int) {
	if n >= 1 {
		r.maxWorkers = n
	}
}

// Run processes every page concurrently, then detects quality issues over the
// collected page set. Pages come back in input order regardless of completion
// order. Run never fails: layout analysis, classification, and quality
// detection are all total operations.
func (r *Runner) Run(ctx context.Context, documentID string, pages []PageInput) *Result {
	result := &Result{
		DocumentID: documentID,
		Pages:      make([]PageResult, len(pages)),
	}

	sem := make(chan struct{}, r.maxWorkers)
	done := make(chan int, len(pages))

	for i, page := range pages {
		sem <- struct{}{} // acquire
		go func(idx int, in PageInput) {
			defer func() { <-sem }() // release

			result.Pages[idx] = r.processPage(ctx, in)
			done <- idx
		}(i, page)
	}
	for range pages {
		<-done
	}

	infos := make([]classify.PageInfo, len(result.Pages))
	for i, pr := range result.Pages {
		infos[i] = classify.PageInfo{
			PageNumber:     pr.PageNumber,
			Text:           pageText(pages[i]),
			Classification: pr.Classification.Classification,
		}
	}
	result.QualityIssues = classify.DetectQualityIssues(infos)
	result.Alerts = qualityAlerts(result.QualityIssues)

	r.logger.Info("document processed",
		"document_id", documentID,
		"pages", len(pages),
		"quality_issues", len(result.QualityIssues))

	return result
}

// processPage runs layout analysis and classification for one page.
func (r *Runner) processPage(ctx context.Context, in PageInput) PageResult {
	pr := PageResult{PageNumber: in.PageNumber}
	pr.Layout = r.analyzer.Analyze(in.Extraction)
	pr.Classification = r.classifier.ClassifyPage(ctx, pageText(in), in.PageNumber)
	return pr
}

// pageText returns the text used for classification and quality detection:
// the supplied page text, else the concatenated extraction text blocks.
func pageText(in PageInput) string {
	if in.Text != "" || in.Extraction == nil {
		return in.Text
	}
	var b strings.Builder
	for _, block := range in.Extraction.TextBlocks {
		if block.Text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.Text)
	}
	return b.String()
}

// qualityAlerts converts detected quality issues into page_quality alerts so
// they participate in the QA checklist's alert pool.
func qualityAlerts(issues []classify.QualityIssue) []alerts.Alert {
	out := make([]alerts.Alert, 0, len(issues))
	for _, issue := range issues {
		a := alerts.Alert{
			ID:       "quality-" + string(issue.Type) + "-" + issueKey(issue),
			Category: "page_quality",
			Title:    issueTitle(issue.Type),
			Message:  issue.Description,
			Severity: alertSeverity(issue.Severity),
			RuleID:   "page-sequence",
		}
		if len(issue.PageNumbers) > 0 {
			a.Source = &alerts.Source{PageNumber: issue.PageNumbers[0]}
		}
		out = append(out, a)
	}
	return out
}

func issueTitle(t classify.IssueType) string {
	switch t {
	case classify.IssueMissing:
		return "Missing pages"
	case classify.IssueDuplicate:
		return "Duplicate pages"
	case classify.IssueOutOfOrder:
		return "Pages out of order"
	case classify.IssueCorrupted:
		return "Corrupted page text"
	}
	return "Page quality issue"
}

func issueKey(issue classify.QualityIssue) string {
	if len(issue.PageNumbers) == 0 {
		return "0"
	}
	parts := make([]string, len(issue.PageNumbers))
	for i, n := range issue.PageNumbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}

func alertSeverity(s classify.IssueSeverity) alerts.Severity {
	switch s {
	case classify.SeverityHigh:
		return alerts.SeverityHigh
	case classify.SeverityMedium:
		return alerts.SeverityMedium
	}
	return alerts.SeverityLow
}
