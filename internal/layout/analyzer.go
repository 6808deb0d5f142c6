package layout

import (
	"sort"
	"strings"

	"github.com/batchlens/batchlens/internal/extraction"
)

// Analyzer converts extraction output into a LayoutAnalysis. It holds the
// compiled pattern tables and is safe for concurrent use; Analyze is a pure
// function of its input.
type Analyzer struct {
	sections []sectionPatternGroup
	fields   []fieldPattern
}

// New returns an Analyzer using the built-in pattern tables.
func New() *Analyzer {
	return &Analyzer{
		sections: defaultSectionPatterns,
		fields:   defaultFieldPatterns,
	}
}

// NewWithOverrides returns an Analyzer with per-customer pattern additions
// merged over the built-in tables.
func NewWithOverrides(o Overrides) (*Analyzer, error) {
	sections, err := mergeSectionPatterns(o.SectionPatterns)
	if err != nil {
		return nil, err
	}
	fields, err := mergeFieldPatterns(o.FieldPatterns)
	if err != nil {
		return nil, err
	}
	return &Analyzer{sections: sections, fields: fields}, nil
}

// Analyze produces the layout analysis for one page. It never fails: absent
// inputs degrade to empty collections and missing page dimensions default to
// a fixed logical page size.
func (a *Analyzer) Analyze(data *extraction.ExtractedData) *LayoutAnalysis {
	if data == nil {
		data = &extraction.ExtractedData{}
	}

	pageWidth, pageHeight := pageSize(data)

	sections := a.detectSections(data, pageWidth, pageHeight)
	tileSections(sections, pageHeight)
	assignElements(sections, data)
	for i := range sections {
		a.extractFields(&sections[i])
	}

	return &LayoutAnalysis{
		Sections:      sections,
		LayoutStyle:   detectLayoutStyle(data, pageWidth),
		PageStructure: detectPageStructure(sections, pageWidth),
	}
}

func pageSize(data *extraction.ExtractedData) (w, h float64) {
	if data.PageDimensions != nil && data.PageDimensions.Width > 0 && data.PageDimensions.Height > 0 {
		return data.PageDimensions.Width, data.PageDimensions.Height
	}
	return defaultPageWidth, defaultPageHeight
}

// candidateElement is a text-bearing element considered for section headers.
// Form-field names participate alongside text blocks, acting as labels.
type candidateElement struct {
	text        string
	boundingBox *extraction.BoundingBox
	confidence  float64
}

func (e candidateElement) y() float64 {
	if e.boundingBox == nil {
		return 0
	}
	return e.boundingBox.Y
}

// detectSections walks the merged text-element list in vertical order and
// opens a new section wherever an element matches a section pattern group.
// If nothing matches, a single unknown section spans the full page.
func (a *Analyzer) detectSections(data *extraction.ExtractedData, pageWidth, pageHeight float64) []RecognizedSection {
	elements := make([]candidateElement, 0, len(data.TextBlocks)+len(data.FormFields))
	for _, tb := range data.TextBlocks {
		elements = append(elements, candidateElement{tb.Text, tb.BoundingBox, tb.Confidence})
	}
	for _, ff := range data.FormFields {
		elements = append(elements, candidateElement{ff.FieldName, ff.NameBoundingBox, ff.Confidence})
	}
	sort.SliceStable(elements, func(i, j int) bool { return elements[i].y() < elements[j].y() })

	var sections []RecognizedSection
	for _, el := range elements {
		group, ok := a.matchSection(el.text)
		if !ok {
			continue
		}

		confidence := el.confidence
		if confidence <= 0 {
			confidence = defaultSectionConfidence
		}

		box := extraction.BoundingBox{X: 0, Y: el.y(), Width: pageWidth}
		if el.boundingBox != nil {
			box.X = el.boundingBox.X
			if el.boundingBox.Width > 0 {
				box.Width = el.boundingBox.Width
			}
		}

		sections = append(sections, RecognizedSection{
			SectionType:  group,
			SectionTitle: strings.TrimSpace(el.text),
			BoundingBox:  box,
			Confidence:   confidence,
			Fields:       make(map[string]FieldValue),
		})
	}

	if len(sections) == 0 {
		return []RecognizedSection{{
			SectionType: SectionUnknown,
			BoundingBox: extraction.BoundingBox{X: 0, Y: 0, Width: pageWidth, Height: pageHeight},
			Confidence:  unknownSectionConfidence,
			Fields:      make(map[string]FieldValue),
		}}
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].BoundingBox.Y < sections[j].BoundingBox.Y
	})
	return sections
}

// matchSection tests text against the ordered pattern table and returns the
// first matching group's section type.
func (a *Analyzer) matchSection(text string) (SectionType, bool) {
	for _, group := range a.sections {
		for _, re := range group.Patterns {
			if re.MatchString(text) {
				return group.Type, true
			}
		}
	}
	return "", false
}

// tileSections extends each section down to the start of the next one (or to
// the page bottom for the last section) so sections tile the page vertically
// with no gaps and no overlaps.
func tileSections(sections []RecognizedSection, pageHeight float64) {
	for i := range sections {
		if i < len(sections)-1 {
			sections[i].BoundingBox.Height = sections[i+1].BoundingBox.Y - sections[i].BoundingBox.Y
		} else {
			sections[i].BoundingBox.Height = pageHeight - sections[i].BoundingBox.Y
		}
	}
}

// assignElements distributes page elements to sections by vertical center.
// Elements without a bounding box are never assigned.
func assignElements(sections []RecognizedSection, data *extraction.ExtractedData) {
	for i := range sections {
		top := sections[i].BoundingBox.Y
		bottom := top + sections[i].BoundingBox.Height

		within := func(box *extraction.BoundingBox) bool {
			if box == nil {
				return false
			}
			c := box.VerticalCenter()
			return c >= top && c <= bottom
		}

		for _, t := range data.Tables {
			if within(t.BoundingBox) {
				sections[i].Tables = append(sections[i].Tables, t)
			}
		}
		for _, cb := range data.Checkboxes {
			if within(cb.BoundingBox) {
				sections[i].Checkboxes = append(sections[i].Checkboxes, cb)
			}
		}
		for _, hw := range data.HandwrittenRegions {
			if within(hw.BoundingBox) {
				sections[i].HandwrittenNotes = append(sections[i].HandwrittenNotes, hw)
			}
		}
		for _, sig := range data.Signatures {
			if within(sig.BoundingBox) {
				sections[i].Signatures = append(sections[i].Signatures, sig)
			}
		}
		for _, tb := range data.TextBlocks {
			if within(tb.BoundingBox) {
				sections[i].TextBlocks = append(sections[i].TextBlocks, tb)
			}
		}
	}
}

// detectLayoutStyle classifies the page's content arrangement.
func detectLayoutStyle(data *extraction.ExtractedData, pageWidth float64) LayoutStyle {
	if len(data.Tables) > len(data.TextBlocks) {
		return StyleTableBased
	}

	mid := pageWidth / 2
	left, right := false, false
	for _, tb := range data.TextBlocks {
		if tb.BoundingBox == nil {
			continue
		}
		if tb.BoundingBox.X < mid {
			left = true
		} else {
			right = true
		}
	}
	if left && right {
		return StyleMultiColumn
	}
	return StyleSingleColumn
}

// detectPageStructure reports header/footer presence and a column estimate.
func detectPageStructure(sections []RecognizedSection, pageWidth float64) PageStructure {
	ps := PageStructure{ColumnCount: 1}

	narrow := 0
	for _, s := range sections {
		switch s.SectionType {
		case SectionHeader:
			ps.HasHeader = true
		case SectionFooter:
			ps.HasFooter = true
		}
		if s.BoundingBox.Width < 0.6*pageWidth {
			narrow++
		}
	}
	if len(sections) > 0 && float64(narrow) >= 0.5*float64(len(sections)) {
		ps.ColumnCount = 2
	}
	return ps
}
