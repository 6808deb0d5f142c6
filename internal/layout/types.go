// Package layout converts raw extraction output for a page into an ordered
// set of semantically typed sections with spatially grounded field values.
package layout

import "github.com/batchlens/batchlens/internal/extraction"

// SectionType identifies the semantic role of a page region.
type SectionType string

const (
	SectionMaterialsLog       SectionType = "materials_log"
	SectionEquipmentLog       SectionType = "equipment_log"
	SectionCIPSIPRecord       SectionType = "cip_sip_record"
	SectionFiltrationStep     SectionType = "filtration_step"
	SectionFillingLog         SectionType = "filling_log"
	SectionInspectionSheet    SectionType = "inspection_sheet"
	SectionReconciliationPage SectionType = "reconciliation_page"
	SectionAttachment         SectionType = "attachment"
	SectionHeader             SectionType = "header"
	SectionFooter             SectionType = "footer"
	SectionUnknown            SectionType = "unknown"
)

// FieldSource identifies which extraction element produced a field value.
type FieldSource string

const (
	SourceFormField   FieldSource = "form_field"
	SourceTable       FieldSource = "table"
	SourceCheckbox    FieldSource = "checkbox"
	SourceHandwritten FieldSource = "handwritten"
	SourceText        FieldSource = "text"
)

// FieldValue is a single extracted field with its provenance.
// Within one section a field key is written at most once per pass; a value,
// once set, is never overwritten by a lower-priority source.
type FieldValue struct {
	Value       any                     `json:"value"`
	Source      FieldSource             `json:"source"`
	Confidence  float64                 `json:"confidence"`
	BoundingBox *extraction.BoundingBox `json:"bounding_box,omitempty"`
	RawText     string                  `json:"raw_text,omitempty"`
}

// RecognizedSection is a vertically bounded, semantically typed page region.
// Sections for a page are totally ordered by BoundingBox.Y and tile the page
// vertically with no gaps.
type RecognizedSection struct {
	SectionType      SectionType                    `json:"section_type"`
	SectionTitle     string                         `json:"section_title,omitempty"`
	BoundingBox      extraction.BoundingBox         `json:"bounding_box"`
	Confidence       float64                        `json:"confidence"`
	Fields           map[string]FieldValue          `json:"fields"`
	Tables           []extraction.TableData         `json:"tables,omitempty"`
	Checkboxes       []extraction.CheckboxData      `json:"checkboxes,omitempty"`
	HandwrittenNotes []extraction.HandwrittenRegion `json:"handwritten_notes,omitempty"`
	Signatures       []extraction.SignatureBlock    `json:"signatures,omitempty"`
	TextBlocks       []extraction.TextBlock         `json:"text_blocks,omitempty"`
}

// LayoutStyle describes the overall arrangement of content on a page.
type LayoutStyle string

const (
	StyleSingleColumn LayoutStyle = "single_column"
	StyleMultiColumn  LayoutStyle = "multi_column"
	// StyleMixed is a declared style the current detection never produces.
	StyleMixed      LayoutStyle = "mixed"
	StyleTableBased LayoutStyle = "table_based"
)

// PageStructure summarizes structural features of the analyzed page.
type PageStructure struct {
	HasHeader   bool `json:"has_header"`
	HasFooter   bool `json:"has_footer"`
	ColumnCount int  `json:"column_count"`
}

// LayoutAnalysis is the complete layout result for one page.
type LayoutAnalysis struct {
	Sections      []RecognizedSection `json:"sections"`
	LayoutStyle   LayoutStyle         `json:"layout_style"`
	PageStructure PageStructure       `json:"page_structure"`
}
