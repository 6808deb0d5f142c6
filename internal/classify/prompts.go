package classify

import (
	"fmt"
	"strings"
)

// maxPageTextChars caps the amount of page text sent to the AI backend.
const maxPageTextChars = 2000

// categoryDescription pairs a page type with the description the AI backend
// receives for it.
type categoryDescription struct {
	Type        PageType
	Description string
}

// categoryDescriptions is the fixed category table sent with every
// classification request.
var categoryDescriptions = []categoryDescription{
	{PageMaterialsLog, "Raw material receipt, dispensing, and weighing records; material lot numbers and quantities."},
	{PageEquipmentLog, "Equipment and instrument usage logs; equipment IDs, calibration status, run times."},
	{PageCIPSIPRecord, "Clean-in-place / sterilize-in-place cycle records; cleaning agents, temperatures, hold times."},
	{PageFiltrationStep, "Filtration process steps; filter lot numbers, integrity test results, differential pressures."},
	{PageFillingLog, "Filling operation logs; fill weights, vial counts, line speed, rejects."},
	{PageInspectionSheet, "Visual or automated inspection sheets; defect categories and counts, AQL results."},
	{PageReconciliationPage, "Yield reconciliation and accountability pages; theoretical vs actual quantities, balance calculations."},
	{PageUnknown, "Anything that does not clearly fit one of the above categories."},
}

// classifySystemPrompt is the system prompt for AI page classification.
const classifySystemPrompt = `You are a pharmaceutical batch-record analyst. Given the text of one scanned batch-record page, classify the page into exactly one category.

Rules:
- Choose the single best-fitting category.
- Use "unknown" when no category clearly fits; do not guess.
- Confidence is 0-100 and reflects how certain the classification is.

Return a single JSON object with:
- "classification": the category name
- "confidence": number 0-100
- "reasoning": one short sentence explaining the choice`

// buildClassifyPrompt builds the user prompt for one page: the category
// table plus the page text truncated to maxPageTextChars.
func buildClassifyPrompt(text string, pageNumber int) string {
	var b strings.Builder
	b.WriteString("Categories:\n")
	for _, cd := range categoryDescriptions {
		fmt.Fprintf(&b, "- %s: %s\n", cd.Type, cd.Description)
	}
	fmt.Fprintf(&b, "\nPage %d text:\n%s\n", pageNumber, truncateText(text, maxPageTextChars))
	b.WriteString("\nReturn the JSON object.")
	return b.String()
}

// truncateText returns the first max characters of s without splitting a
// multi-byte rune.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// classifyJSONSchema is the structured-output schema for the classification
// response. Strict structured-output backends require every property to be
// listed in "required"; the call site still defaults any field the model
// leaves zero-valued.
func classifyJSONSchema() map[string]any {
	enum := make([]string, 0, len(KnownPageTypes))
	for _, p := range KnownPageTypes {
		enum = append(enum, string(p))
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"classification": map[string]any{
				"type": "string",
				"enum": enum,
			},
			"confidence": map[string]any{
				"type": "number",
			},
			"reasoning": map[string]any{
				"type": "string",
			},
		},
		"required":             []string{"classification", "confidence", "reasoning"},
		"additionalProperties": false,
	}
}
