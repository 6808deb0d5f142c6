// Package extraction defines the data contracts produced by the external
// OCR/structure-extraction service. These types are inputs to the layout
// analyzer and classifier and are never mutated once received.
package extraction

// BoundingBox locates an element on a page in page-pixel units.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// VerticalCenter returns the y coordinate of the box's vertical midpoint.
func (b BoundingBox) VerticalCenter() float64 {
	return b.Y + b.Height/2
}

// PageDimensions holds the scanned page size in page-pixel units.
type PageDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextBlock is a contiguous run of recognized text.
// Confidence is the extraction service's recognition confidence in [0,100].
type TextBlock struct {
	Text        string       `json:"text"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
	Confidence  float64      `json:"confidence"`
}

// TableCell is a single cell of an extracted table.
type TableCell struct {
	RowIndex    int          `json:"row_index"`
	ColIndex    int          `json:"col_index"`
	Text        string       `json:"text"`
	Confidence  float64      `json:"confidence"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
}

// TableData is an extracted table with its cell grid.
type TableData struct {
	RowCount    int          `json:"row_count"`
	ColumnCount int          `json:"column_count"`
	Cells       []TableCell  `json:"cells"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
}

// FormField is a labeled form entry (printed label plus filled value).
type FormField struct {
	FieldName       string       `json:"field_name"`
	FieldValue      string       `json:"field_value"`
	NameBoundingBox *BoundingBox `json:"name_bounding_box,omitempty"`
	Confidence      float64      `json:"confidence"`
}

// CheckboxState is the detected state of a checkbox.
type CheckboxState string

const (
	CheckboxChecked   CheckboxState = "checked"
	CheckboxUnchecked CheckboxState = "unchecked"
)

// CheckboxData is an extracted checkbox with its nearby label text.
type CheckboxData struct {
	State          CheckboxState `json:"state"`
	AssociatedText string        `json:"associated_text,omitempty"`
	Confidence     float64       `json:"confidence"`
	BoundingBox    *BoundingBox  `json:"bounding_box,omitempty"`
}

// HandwrittenRegion marks an area containing handwriting.
type HandwrittenRegion struct {
	Text        string       `json:"text,omitempty"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
	Confidence  float64      `json:"confidence"`
}

// SignatureBlock marks a detected signature area.
type SignatureBlock struct {
	SignerName  string       `json:"signer_name,omitempty"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
	Confidence  float64      `json:"confidence"`
}

// ExtractedData is the full extraction output for one page.
// Any collection may be empty; PageDimensions may be nil.
type ExtractedData struct {
	TextBlocks         []TextBlock         `json:"text_blocks,omitempty"`
	Tables             []TableData         `json:"tables,omitempty"`
	FormFields         []FormField         `json:"form_fields,omitempty"`
	Checkboxes         []CheckboxData      `json:"checkboxes,omitempty"`
	HandwrittenRegions []HandwrittenRegion `json:"handwritten_regions,omitempty"`
	Signatures         []SignatureBlock    `json:"signatures,omitempty"`
	PageDimensions     *PageDimensions     `json:"page_dimensions,omitempty"`
}
