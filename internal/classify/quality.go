package classify

import (
	"fmt"
	"sort"
	"strings"
)

// minHealthyTextLength is the trimmed length below which a page is treated
// as corrupted extraction output.
const minHealthyTextLength = 50

// IssueType identifies a page-sequence integrity problem.
type IssueType string

const (
	IssueMissing    IssueType = "missing"
	IssueDuplicate  IssueType = "duplicate"
	IssueOutOfOrder IssueType = "out_of_order"
	IssueCorrupted  IssueType = "corrupted"
)

// IssueSeverity grades an integrity issue.
type IssueSeverity string

const (
	SeverityHigh   IssueSeverity = "high"
	SeverityMedium IssueSeverity = "medium"
	SeverityLow    IssueSeverity = "low"
)

// QualityIssue is one detected sequence-integrity problem for a document.
type QualityIssue struct {
	Type        IssueType     `json:"type"`
	Severity    IssueSeverity `json:"severity"`
	Description string        `json:"description"`
	PageNumbers []int         `json:"page_numbers"`
}

// PageInfo is one classified page of a document, input to quality detection.
type PageInfo struct {
	PageNumber     int      `json:"page_number"`
	Text           string   `json:"text"`
	Classification PageType `json:"classification,omitempty"`
}

// DetectQualityIssues scans a document's full page set for sequence-integrity
// problems. Checks are independent; multiple issue types may co-occur. Total
// over any input, including an empty page list.
func DetectQualityIssues(pages []PageInfo) []QualityIssue {
	issues := make([]QualityIssue, 0, 4)

	numbers := make([]int, 0, len(pages))
	for _, p := range pages {
		numbers = append(numbers, p.PageNumber)
	}
	sort.Ints(numbers)

	if issue, ok := detectMissing(numbers); ok {
		issues = append(issues, issue)
	}
	if issue, ok := detectDuplicates(numbers); ok {
		issues = append(issues, issue)
	}
	if issue, ok := detectOutOfOrder(numbers); ok {
		issues = append(issues, issue)
	}
	if issue, ok := detectCorrupted(pages); ok {
		issues = append(issues, issue)
	}
	return issues
}

// detectMissing enumerates every page number absent from the gaps between
// adjacent entries of the sorted sequence.
func detectMissing(sorted []int) (QualityIssue, bool) {
	var missing []int
	for i := 1; i < len(sorted); i++ {
		for n := sorted[i-1] + 1; n < sorted[i]; n++ {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return QualityIssue{}, false
	}
	return QualityIssue{
		Type:        IssueMissing,
		Severity:    SeverityHigh,
		Description: fmt.Sprintf("%d missing page(s) detected", len(missing)),
		PageNumbers: missing,
	}, true
}

// detectDuplicates reports each distinct page number occurring more than once.
func detectDuplicates(sorted []int) (QualityIssue, bool) {
	var duplicates []int
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			if len(duplicates) == 0 || duplicates[len(duplicates)-1] != sorted[i] {
				duplicates = append(duplicates, sorted[i])
			}
		}
	}
	if len(duplicates) == 0 {
		return QualityIssue{}, false
	}
	return QualityIssue{
		Type:        IssueDuplicate,
		Severity:    SeverityMedium,
		Description: fmt.Sprintf("%d duplicated page number(s) detected", len(duplicates)),
		PageNumbers: duplicates,
	}, true
}

// detectOutOfOrder compares each element of the sorted sequence to its
// predecessor. Kept aligned with current observable behavior; see DESIGN.md
// before changing what this compares against.
func detectOutOfOrder(sorted []int) (QualityIssue, bool) {
	var disordered []int
	for i := 1; i < len(sorted); i++ {
		if sorted[i] < sorted[i-1] {
			disordered = append(disordered, sorted[i])
		}
	}
	if len(disordered) == 0 {
		return QualityIssue{}, false
	}
	return QualityIssue{
		Type:        IssueOutOfOrder,
		Severity:    SeverityLow,
		Description: fmt.Sprintf("%d page(s) out of order", len(disordered)),
		PageNumbers: disordered,
	}, true
}

// detectCorrupted flags pages whose extracted text is empty or implausibly
// short.
func detectCorrupted(pages []PageInfo) (QualityIssue, bool) {
	var corrupted []int
	for _, p := range pages {
		if len(strings.TrimSpace(p.Text)) < minHealthyTextLength {
			corrupted = append(corrupted, p.PageNumber)
		}
	}
	if len(corrupted) == 0 {
		return QualityIssue{}, false
	}
	return QualityIssue{
		Type:        IssueCorrupted,
		Severity:    SeverityHigh,
		Description: fmt.Sprintf("%d page(s) with empty or truncated text", len(corrupted)),
		PageNumbers: corrupted,
	}, true
}
