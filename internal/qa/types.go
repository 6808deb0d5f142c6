// Package qa evaluates a document's aggregated validation output against the
// twelve fixed regulatory checkpoints and derives the report-time view with
// reviewer-approval overrides applied.
package qa

import (
	"time"

	"github.com/batchlens/batchlens/internal/alerts"
)

// TotalChecks is the fixed number of checkpoints.
const TotalChecks = 12

// Status is a checkpoint evaluation outcome.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusNA   Status = "na"
)

// Signals carries the boolean/numeric outcomes of independent
// sub-verification workflows, supplied at checklist evaluation time.
// A Has* flag reports whether the corresponding workflow ran; counts are
// meaningful only when it did.
type Signals struct {
	HasBMRVerification  bool `json:"has_bmr_verification"`
	BMRDiscrepancyCount int  `json:"bmr_discrepancy_count"`

	HasRawMaterialChecks      bool `json:"has_raw_material_checks"`
	RawMaterialViolationCount int  `json:"raw_material_violation_count"`

	HasBatchAllocation       bool `json:"has_batch_allocation"`
	AllocationViolationCount int  `json:"allocation_violation_count"`

	HasSignatureVerification bool `json:"has_signature_verification"`
	MissingSignatureCount    int  `json:"missing_signature_count"`

	HasUserDeclaredFields     bool `json:"has_user_declared_fields"`
	UserDeclaredMismatchCount int  `json:"user_declared_mismatch_count"`
}

// PageResult is the per-page outcome from the external validation engine.
// Opaque to the checklist beyond these fields.
type PageResult struct {
	PageNumber int  `json:"page_number"`
	Passed     bool `json:"passed"`
	AlertCount int  `json:"alert_count"`
}

// Summary is the document-level validation summary from the external engine.
type Summary struct {
	TotalPages  int `json:"total_pages"`
	PassedPages int `json:"passed_pages"`
	FailedPages int `json:"failed_pages"`
	TotalAlerts int `json:"total_alerts"`
}

// Input aggregates everything the checklist engine evaluates: the validation
// summary, per-page results, the full alert pool, and sub-verification
// signals. All fields are treated as immutable.
type Input struct {
	DocumentID  string         `json:"document_id"`
	Summary     Summary        `json:"summary"`
	PageResults []PageResult   `json:"page_results,omitempty"`
	Alerts      []alerts.Alert `json:"alerts"`
	Signals     Signals        `json:"signals"`
}

// CheckItem is one evaluated checkpoint.
type CheckItem struct {
	ID                string         `json:"id"`
	CheckNumber       int            `json:"check_number"` // 1-12
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Status            Status         `json:"status"`
	Category          string         `json:"category"`
	AlertCategory     string         `json:"alert_category,omitempty"`
	RelatedAlertCount int            `json:"related_alert_count"`
	Details           string         `json:"details,omitempty"`
	RelatedAlerts     []alerts.Alert `json:"related_alerts,omitempty"`
}

// Checklist is the evaluated twelve-checkpoint result for one document.
// Invariant: TotalChecks == PassedChecks + FailedChecks + NAChecks.
type Checklist struct {
	DocumentID   string      `json:"document_id"`
	EvaluatedAt  time.Time   `json:"evaluated_at"`
	TotalChecks  int         `json:"total_checks"`
	PassedChecks int         `json:"passed_checks"`
	FailedChecks int         `json:"failed_checks"`
	NAChecks     int         `json:"na_checks"`
	Items        []CheckItem `json:"items"`
}
