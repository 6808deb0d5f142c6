// Package classify assigns batch-record page types to page text and detects
// page-sequence integrity issues across a document.
package classify

import "context"

// PageType is the closed classification taxonomy for batch-record pages.
type PageType string

const (
	PageMaterialsLog       PageType = "materials_log"
	PageEquipmentLog       PageType = "equipment_log"
	PageCIPSIPRecord       PageType = "cip_sip_record"
	PageFiltrationStep     PageType = "filtration_step"
	PageFillingLog         PageType = "filling_log"
	PageInspectionSheet    PageType = "inspection_sheet"
	PageReconciliationPage PageType = "reconciliation_page"
	PageUnknown            PageType = "unknown"
)

// KnownPageTypes lists every valid classification value in taxonomy order.
var KnownPageTypes = []PageType{
	PageMaterialsLog,
	PageEquipmentLog,
	PageCIPSIPRecord,
	PageFiltrationStep,
	PageFillingLog,
	PageInspectionSheet,
	PageReconciliationPage,
	PageUnknown,
}

// ValidPageType reports whether s is a member of the taxonomy.
func ValidPageType(s string) bool {
	for _, p := range KnownPageTypes {
		if string(p) == s {
			return true
		}
	}
	return false
}

// Result is the outcome of classifying one page.
type Result struct {
	Classification PageType `json:"classification"`
	Confidence     float64  `json:"confidence"` // [0,100]
	Reasoning      string   `json:"reasoning"`
}

// Classifier assigns a page type to page text. Implementations are total:
// classification never surfaces an error to the caller.
type Classifier interface {
	ClassifyPage(ctx context.Context, text string, pageNumber int) Result
}

// clampConfidence bounds a confidence value to [0,100].
func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
