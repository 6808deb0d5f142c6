package qa

import (
	"fmt"
	"time"

	"github.com/batchlens/batchlens/internal/alerts"
)

// Evaluate runs the twelve fixed checkpoints against the aggregated input.
// It performs no I/O and is deterministic: identical input yields identical
// item statuses, counts, and attached alerts. Only EvaluatedAt varies.
func Evaluate(in *Input) *Checklist {
	checklist := &Checklist{
		DocumentID:  in.DocumentID,
		EvaluatedAt: time.Now().UTC(),
		TotalChecks: TotalChecks,
		Items:       make([]CheckItem, 0, TotalChecks),
	}

	for _, cp := range checkpoints {
		matched := filterAlerts(in.Alerts, cp.Select)
		status, details := cp.Evaluate(in, matched)

		item := CheckItem{
			ID:            fmt.Sprintf("check-%02d", cp.Number),
			CheckNumber:   cp.Number,
			Title:         cp.Title,
			Description:   cp.Description,
			Status:        status,
			Category:      cp.Category,
			AlertCategory: cp.AlertCategory,
			Details:       details,
		}

		// Failing checkpoints attach their matched alerts for drill-down,
		// ordered by source page; passing and NA checkpoints attach none.
		if status == StatusFail {
			alerts.SortByPage(matched)
			item.RelatedAlertCount = len(matched)
			item.RelatedAlerts = matched
		}

		checklist.Items = append(checklist.Items, item)

		switch status {
		case StatusPass:
			checklist.PassedChecks++
		case StatusFail:
			checklist.FailedChecks++
		case StatusNA:
			checklist.NAChecks++
		}
	}

	return checklist
}

func filterAlerts(pool []alerts.Alert, selector alertSelector) []alerts.Alert {
	var matched []alerts.Alert
	for _, a := range pool {
		if selector(a) {
			matched = append(matched, a)
		}
	}
	return matched
}
