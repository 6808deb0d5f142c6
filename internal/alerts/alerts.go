// Package alerts defines the validation-alert and reviewer-decision
// contracts consumed by the QA checklist engine. Alerts are produced by the
// external validation engine; reviews are produced by human reviewers.
package alerts

import (
	"sort"
	"time"
)

// Severity grades an alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Source locates where in the document an alert originated.
type Source struct {
	PageNumber int `json:"page_number,omitempty"`
}

// Alert is a single validation finding.
type Alert struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	RuleID   string   `json:"rule_id,omitempty"`
	Source   *Source  `json:"source,omitempty"`
}

// Decision is a reviewer's verdict on an alert.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// Review is one reviewer decision on one alert. A reviewer may revise a
// decision; the most recent review per alert wins.
type Review struct {
	AlertID    string    `json:"alert_id"`
	ReviewerID string    `json:"reviewer_id"`
	Decision   Decision  `json:"decision"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// LatestDecisions resolves the effective decision per alert id: the review
// with the latest CreatedAt wins; on equal timestamps the later entry in the
// input wins.
func LatestDecisions(reviews []Review) map[string]Decision {
	type stamped struct {
		at  time.Time
		idx int
	}
	latest := make(map[string]stamped, len(reviews))
	decisions := make(map[string]Decision, len(reviews))

	for i, r := range reviews {
		cur, ok := latest[r.AlertID]
		if !ok || r.CreatedAt.After(cur.at) || (r.CreatedAt.Equal(cur.at) && i > cur.idx) {
			latest[r.AlertID] = stamped{at: r.CreatedAt, idx: i}
			decisions[r.AlertID] = r.Decision
		}
	}
	return decisions
}

// SortByPage orders alerts by source page number (alerts without a source
// last), then by id for stability.
func SortByPage(list []Alert) {
	sort.SliceStable(list, func(i, j int) bool {
		pi, pj := pageOf(list[i]), pageOf(list[j])
		if pi != pj {
			return pi < pj
		}
		return list[i].ID < list[j].ID
	})
}

func pageOf(a Alert) int {
	if a.Source == nil || a.Source.PageNumber <= 0 {
		return int(^uint(0) >> 1)
	}
	return a.Source.PageNumber
}
