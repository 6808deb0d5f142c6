package qa

import (
	"time"

	"github.com/batchlens/batchlens/internal/alerts"
)

// ComplianceLabel is the overall verdict shown on a rendered report.
type ComplianceLabel string

const (
	ComplianceCompliant    ComplianceLabel = "compliant"
	ComplianceAcceptable   ComplianceLabel = "acceptable"
	ComplianceNonCompliant ComplianceLabel = "non_compliant"
)

// ReportItem is one checkpoint as rendered on a compliance report. Status is
// the stored evaluation; EffectiveStatus reflects reviewer-approval
// overrides.
type ReportItem struct {
	CheckItem
	EffectiveStatus Status `json:"effective_status"`
	OverrideApplied bool   `json:"override_applied"`
}

// Report is the rendered compliance view of a checklist. It is derived from
// (checklist, review snapshot) and never written back to the stored
// checklist; regenerate it whenever reviews change.
type Report struct {
	DocumentID      string          `json:"document_id"`
	GeneratedAt     time.Time       `json:"generated_at"`
	TotalChecks     int             `json:"total_checks"`
	EffectivePassed int             `json:"effective_passed"`
	EffectiveFailed int             `json:"effective_failed"`
	NAChecks        int             `json:"na_checks"`
	PassRate        float64         `json:"pass_rate"` // percent over applicable checks
	Compliance      ComplianceLabel `json:"compliance"`
	Items           []ReportItem    `json:"items"`
}

// BuildReport derives the report-time view of a checklist under the given
// alert reviews. A failing checkpoint whose every attached alert carries an
// effective decision of approved is rendered as passing. The input checklist
// is not mutated.
func BuildReport(checklist *Checklist, reviews []alerts.Review) *Report {
	decisions := alerts.LatestDecisions(reviews)

	report := &Report{
		DocumentID:  checklist.DocumentID,
		GeneratedAt: time.Now().UTC(),
		TotalChecks: checklist.TotalChecks,
		NAChecks:    checklist.NAChecks,
		Items:       make([]ReportItem, 0, len(checklist.Items)),
	}

	for _, item := range checklist.Items {
		ri := ReportItem{CheckItem: item, EffectiveStatus: item.Status}

		if item.Status == StatusFail && allApproved(item.RelatedAlerts, decisions) {
			ri.EffectiveStatus = StatusPass
			ri.OverrideApplied = true
		}

		switch ri.EffectiveStatus {
		case StatusPass:
			report.EffectivePassed++
		case StatusFail:
			report.EffectiveFailed++
		}

		report.Items = append(report.Items, ri)
	}

	applicable := report.EffectivePassed + report.EffectiveFailed
	if applicable > 0 {
		report.PassRate = 100 * float64(report.EffectivePassed) / float64(applicable)
	} else {
		report.PassRate = 100
	}

	switch {
	case report.EffectiveFailed == 0:
		report.Compliance = ComplianceCompliant
	case report.PassRate >= 90:
		report.Compliance = ComplianceAcceptable
	default:
		report.Compliance = ComplianceNonCompliant
	}

	return report
}

// allApproved reports whether every alert in list has an effective approved
// decision. A failing checkpoint with no attached alerts cannot be
// overridden.
func allApproved(list []alerts.Alert, decisions map[string]alerts.Decision) bool {
	if len(list) == 0 {
		return false
	}
	for _, a := range list {
		if decisions[a.ID] != alerts.DecisionApproved {
			return false
		}
	}
	return true
}
