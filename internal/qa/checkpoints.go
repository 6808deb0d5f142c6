package qa

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/batchlens/batchlens/internal/alerts"
)

// alertSelector decides whether an alert is relevant to a checkpoint.
type alertSelector func(a alerts.Alert) bool

// evaluator produces a checkpoint status and human-readable details from the
// input and the alerts its selector matched.
type evaluator func(in *Input, matched []alerts.Alert) (Status, string)

// checkpoint is one fixed checklist rule.
type checkpoint struct {
	Number        int
	Title         string
	Description   string
	Category      string
	AlertCategory string
	Select        alertSelector
	Evaluate      evaluator
}

func categoryIs(category string) alertSelector {
	return func(a alerts.Alert) bool {
		return strings.EqualFold(a.Category, category)
	}
}

// keywordAny matches keywords on word boundaries so short tokens like "cip"
// do not fire inside unrelated words ("recipe", "principle").
func keywordAny(words ...string) alertSelector {
	patterns := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return func(a alerts.Alert) bool {
		text := strings.ToLower(a.Title + " " + a.Message)
		for _, p := range patterns {
			if p.MatchString(text) {
				return true
			}
		}
		return false
	}
}

func anyOf(selectors ...alertSelector) alertSelector {
	return func(a alerts.Alert) bool {
		for _, s := range selectors {
			if s(a) {
				return true
			}
		}
		return false
	}
}

func severityIs(severity alerts.Severity) alertSelector {
	return func(a alerts.Alert) bool {
		return a.Severity == severity
	}
}

// alertCountEvaluator fails when any matched alerts exist.
func alertCountEvaluator(noun string) evaluator {
	return func(_ *Input, matched []alerts.Alert) (Status, string) {
		if len(matched) > 0 {
			return StatusFail, fmt.Sprintf("%d %s alert(s) raised", len(matched), noun)
		}
		return StatusPass, ""
	}
}

// signalEvaluator prefers a sub-verification count when its workflow ran,
// falling back to the generic alert pool otherwise.
func signalEvaluator(ran func(Signals) bool, count func(Signals) int, noun string) evaluator {
	fallback := alertCountEvaluator(noun)
	return func(in *Input, matched []alerts.Alert) (Status, string) {
		if !ran(in.Signals) {
			return fallback(in, matched)
		}
		if n := count(in.Signals); n > 0 {
			return StatusFail, fmt.Sprintf("%d %s found by verification workflow", n, noun)
		}
		return StatusPass, ""
	}
}

// checkpoints is the fixed, ordered table of the twelve checklist rules.
// Treated as immutable package data.
var checkpoints = []checkpoint{
	{
		Number:        1,
		Title:         "Batch identification consistency",
		Description:   "Batch and lot identifiers are consistent across the record and match the master product card.",
		Category:      "identification",
		AlertCategory: "bmr_comparison",
		Select:        anyOf(categoryIs("bmr_comparison"), keywordAny("batch number mismatch", "lot number mismatch")),
		Evaluate: signalEvaluator(
			func(s Signals) bool { return s.HasBMRVerification },
			func(s Signals) int { return s.BMRDiscrepancyCount },
			"discrepancies"),
	},
	{
		Number:        2,
		Title:         "Master product card conformance",
		Description:   "Recorded process values conform to the master product card specification.",
		Category:      "specification",
		AlertCategory: "bmr_comparison",
		Select:        anyOf(categoryIs("bmr_comparison"), keywordAny("master product card", "specification deviation", "mpc")),
		Evaluate: signalEvaluator(
			func(s Signals) bool { return s.HasBMRVerification },
			func(s Signals) int { return s.BMRDiscrepancyCount },
			"specification deviations"),
	},
	{
		Number:        3,
		Title:         "Raw material verification",
		Description:   "Raw materials are identified correctly and within their acceptance limits.",
		Category:      "materials",
		AlertCategory: "raw_material",
		Select:        anyOf(categoryIs("raw_material"), keywordAny("raw material", "material limit")),
		Evaluate: signalEvaluator(
			func(s Signals) bool { return s.HasRawMaterialChecks },
			func(s Signals) int { return s.RawMaterialViolationCount },
			"material limit violations"),
	},
	{
		Number:        4,
		Title:         "Material reconciliation",
		Description:   "Material usage reconciles with dispensed quantities and yield is within limits.",
		Category:      "materials",
		AlertCategory: "reconciliation",
		Select:        anyOf(categoryIs("reconciliation"), keywordAny("reconciliation", "yield", "balance")),
		Evaluate:      alertCountEvaluator("reconciliation"),
	},
	{
		Number:        5,
		Title:         "Batch allocation dating",
		Description:   "Manufacturing and expiry dates are consistent with the batch allocation and shelf life.",
		Category:      "dates",
		AlertCategory: "batch_allocation",
		Select:        anyOf(categoryIs("batch_allocation"), keywordAny("expiry", "shelf life", "manufacturing date")),
		Evaluate: signalEvaluator(
			func(s Signals) bool { return s.HasBatchAllocation },
			func(s Signals) int { return s.AllocationViolationCount },
			"date violations"),
	},
	{
		Number:        6,
		Title:         "Equipment cleaning records",
		Description:   "CIP/SIP and cleaning records are complete for all equipment used.",
		Category:      "equipment",
		AlertCategory: "cleaning",
		Select:        anyOf(categoryIs("cleaning"), keywordAny("cip", "sip", "cleaning", "sterilization")),
		Evaluate:      alertCountEvaluator("cleaning"),
	},
	{
		Number:        7,
		Title:         "Process parameter limits",
		Description:   "Recorded process parameters stay within their validated limits.",
		Category:      "process",
		AlertCategory: "process_parameter",
		Select:        anyOf(categoryIs("process_parameter"), keywordAny("temperature", "pressure", "out of limit", "out of range")),
		Evaluate:      alertCountEvaluator("parameter"),
	},
	{
		Number:        8,
		Title:         "Page sequence integrity",
		Description:   "The record contains every page exactly once, in order, and legibly extracted.",
		Category:      "document",
		AlertCategory: "page_quality",
		Select:        anyOf(categoryIs("page_quality"), keywordAny("missing page", "duplicate page", "corrupted page")),
		Evaluate:      alertCountEvaluator("page integrity"),
	},
	{
		Number:        9,
		Title:         "Signatures and approvals",
		Description:   "Every required operator and reviewer signature is present.",
		Category:      "signatures",
		AlertCategory: "signature",
		Select:        anyOf(categoryIs("signature"), keywordAny("signature", "not signed", "unsigned")),
		Evaluate: signalEvaluator(
			func(s Signals) bool { return s.HasSignatureVerification },
			func(s Signals) int { return s.MissingSignatureCount },
			"missing signatures"),
	},
	{
		Number:        10,
		Title:         "Record legibility",
		Description:   "Extracted content is legible with acceptable recognition confidence.",
		Category:      "document",
		AlertCategory: "legibility",
		Select:        anyOf(categoryIs("legibility"), keywordAny("illegible", "unreadable", "low confidence")),
		Evaluate:      alertCountEvaluator("legibility"),
	},
	{
		Number:        11,
		Title:         "Critical alert review",
		Description:   "No unresolved critical validation findings remain on the record.",
		Category:      "alerts",
		AlertCategory: "",
		Select:        severityIs(alerts.SeverityCritical),
		Evaluate:      alertCountEvaluator("critical"),
	},
	{
		Number:        12,
		Title:         "User-declared field verification",
		Description:   "Values declared at intake match the values extracted from the record.",
		Category:      "declared",
		AlertCategory: "user_declared",
		Select:        anyOf(categoryIs("user_declared"), keywordAny("declared value", "user-declared")),
		Evaluate: func(in *Input, matched []alerts.Alert) (Status, string) {
			// Not applicable when intake supplied no declared fields,
			// regardless of any alerts.
			if !in.Signals.HasUserDeclaredFields {
				return StatusNA, "no user-declared fields supplied at intake"
			}
			if n := in.Signals.UserDeclaredMismatchCount; n > 0 {
				return StatusFail, fmt.Sprintf("%d declared-field mismatch(es)", n)
			}
			if len(matched) > 0 {
				return StatusFail, fmt.Sprintf("%d declared-field alert(s) raised", len(matched))
			}
			return StatusPass, ""
		},
	},
}
