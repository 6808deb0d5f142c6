package layout

import (
	"testing"

	"github.com/batchlens/batchlens/internal/extraction"
)

func box(x, y, w, h float64) *extraction.BoundingBox {
	return &extraction.BoundingBox{X: x, Y: y, Width: w, Height: h}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	a := New()
	result := a.Analyze(&extraction.ExtractedData{})

	if len(result.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(result.Sections))
	}
	s := result.Sections[0]
	if s.SectionType != SectionUnknown {
		t.Errorf("expected unknown section, got %s", s.SectionType)
	}
	if s.Confidence != 50 {
		t.Errorf("expected confidence 50, got %v", s.Confidence)
	}
	if s.BoundingBox.Y != 0 || s.BoundingBox.Height != defaultPageHeight {
		t.Errorf("expected section to span full default page, got y=%v height=%v",
			s.BoundingBox.Y, s.BoundingBox.Height)
	}
	if result.LayoutStyle != StyleSingleColumn {
		t.Errorf("expected single_column, got %s", result.LayoutStyle)
	}
}

func TestAnalyze_NilInput(t *testing.T) {
	result := New().Analyze(nil)
	if len(result.Sections) != 1 || result.Sections[0].SectionType != SectionUnknown {
		t.Fatalf("nil input should degrade to a single unknown section")
	}
}

func TestAnalyze_SectionDetectionAndTiling(t *testing.T) {
	data := &extraction.ExtractedData{
		PageDimensions: &extraction.PageDimensions{Width: 1000, Height: 2000},
		TextBlocks: []extraction.TextBlock{
			{Text: "Raw Materials Log", BoundingBox: box(50, 100, 900, 40), Confidence: 95},
			{Text: "Equipment Usage Record", BoundingBox: box(50, 800, 900, 40), Confidence: 90},
		},
	}

	result := New().Analyze(data)
	if len(result.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(result.Sections))
	}

	first, second := result.Sections[0], result.Sections[1]
	if first.SectionType != SectionMaterialsLog {
		t.Errorf("expected materials_log first, got %s", first.SectionType)
	}
	if second.SectionType != SectionEquipmentLog {
		t.Errorf("expected equipment_log second, got %s", second.SectionType)
	}

	// Tiling: first section runs to the start of the second, second to page
	// bottom. No gaps.
	if first.BoundingBox.Height != 700 {
		t.Errorf("expected first section height 700, got %v", first.BoundingBox.Height)
	}
	if second.BoundingBox.Height != 1200 {
		t.Errorf("expected second section height 1200, got %v", second.BoundingBox.Height)
	}
	if first.BoundingBox.Y+first.BoundingBox.Height != second.BoundingBox.Y {
		t.Error("sections should tile with no gap")
	}
}

func TestAnalyze_DefaultSectionConfidence(t *testing.T) {
	data := &extraction.ExtractedData{
		TextBlocks: []extraction.TextBlock{
			{Text: "Filtration Step 3", BoundingBox: box(0, 10, 500, 30)},
		},
	}
	result := New().Analyze(data)
	if len(result.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(result.Sections))
	}
	if got := result.Sections[0].Confidence; got != defaultSectionConfidence {
		t.Errorf("expected default confidence %v, got %v", defaultSectionConfidence, got)
	}
}

func TestAnalyze_FormFieldNameActsAsLabel(t *testing.T) {
	data := &extraction.ExtractedData{
		FormFields: []extraction.FormField{
			{FieldName: "Visual Inspection Sheet", NameBoundingBox: box(0, 50, 400, 30), Confidence: 88},
		},
	}
	result := New().Analyze(data)
	if result.Sections[0].SectionType != SectionInspectionSheet {
		t.Errorf("form field name should create inspection_sheet section, got %s",
			result.Sections[0].SectionType)
	}
}

func TestAnalyze_ElementAssignment(t *testing.T) {
	data := &extraction.ExtractedData{
		PageDimensions: &extraction.PageDimensions{Width: 1000, Height: 2000},
		TextBlocks: []extraction.TextBlock{
			{Text: "Filling Log", BoundingBox: box(0, 0, 1000, 40), Confidence: 90},
			{Text: "Reconciliation Summary", BoundingBox: box(0, 1000, 1000, 40), Confidence: 90},
		},
		Checkboxes: []extraction.CheckboxData{
			// Vertical center 520: belongs to the first section.
			{State: extraction.CheckboxChecked, AssociatedText: "Line cleared", Confidence: 80, BoundingBox: box(100, 500, 40, 40)},
			// No bounding box: never assigned.
			{State: extraction.CheckboxChecked, AssociatedText: "floating", Confidence: 80},
		},
		Signatures: []extraction.SignatureBlock{
			// Vertical center 1520: belongs to the second section.
			{SignerName: "Operator", BoundingBox: box(100, 1500, 200, 40), Confidence: 75},
		},
	}

	result := New().Analyze(data)
	if len(result.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(result.Sections))
	}
	if got := len(result.Sections[0].Checkboxes); got != 1 {
		t.Errorf("expected 1 checkbox in first section, got %d", got)
	}
	if got := len(result.Sections[1].Checkboxes); got != 0 {
		t.Errorf("expected no checkboxes in second section, got %d", got)
	}
	if got := len(result.Sections[1].Signatures); got != 1 {
		t.Errorf("expected 1 signature in second section, got %d", got)
	}
}

func TestAnalyze_LayoutStyle(t *testing.T) {
	t.Run("table based when tables outnumber text blocks", func(t *testing.T) {
		data := &extraction.ExtractedData{
			Tables: []extraction.TableData{
				{RowCount: 1, ColumnCount: 2},
				{RowCount: 1, ColumnCount: 3},
			},
			TextBlocks: []extraction.TextBlock{
				{Text: "Materials Log", BoundingBox: box(0, 0, 100, 20), Confidence: 90},
			},
		}
		if got := New().Analyze(data).LayoutStyle; got != StyleTableBased {
			t.Errorf("expected table_based, got %s", got)
		}
	})

	t.Run("multi column when text spans both halves", func(t *testing.T) {
		data := &extraction.ExtractedData{
			PageDimensions: &extraction.PageDimensions{Width: 1000, Height: 2000},
			TextBlocks: []extraction.TextBlock{
				{Text: "left", BoundingBox: box(50, 100, 300, 20), Confidence: 90},
				{Text: "right", BoundingBox: box(700, 100, 300, 20), Confidence: 90},
			},
		}
		if got := New().Analyze(data).LayoutStyle; got != StyleMultiColumn {
			t.Errorf("expected multi_column, got %s", got)
		}
	})

	t.Run("single column otherwise", func(t *testing.T) {
		data := &extraction.ExtractedData{
			PageDimensions: &extraction.PageDimensions{Width: 1000, Height: 2000},
			TextBlocks: []extraction.TextBlock{
				{Text: "one", BoundingBox: box(50, 100, 300, 20), Confidence: 90},
				{Text: "two", BoundingBox: box(60, 200, 300, 20), Confidence: 90},
			},
		}
		if got := New().Analyze(data).LayoutStyle; got != StyleSingleColumn {
			t.Errorf("expected single_column, got %s", got)
		}
	})
}

func TestAnalyze_PageStructure(t *testing.T) {
	data := &extraction.ExtractedData{
		PageDimensions: &extraction.PageDimensions{Width: 1000, Height: 2000},
		TextBlocks: []extraction.TextBlock{
			{Text: "Batch Manufacturing Record", BoundingBox: box(0, 0, 1000, 30), Confidence: 95},
			{Text: "Reviewed by:", BoundingBox: box(0, 1900, 1000, 30), Confidence: 95},
		},
	}

	result := New().Analyze(data)
	if !result.PageStructure.HasHeader {
		t.Error("expected header detected")
	}
	if !result.PageStructure.HasFooter {
		t.Error("expected footer detected")
	}
	if result.PageStructure.ColumnCount != 1 {
		t.Errorf("expected 1 column, got %d", result.PageStructure.ColumnCount)
	}
}

func TestAnalyze_TwoColumnSections(t *testing.T) {
	// Both section headers are narrow (<60% of page width), so the column
	// estimate reports 2.
	data := &extraction.ExtractedData{
		PageDimensions: &extraction.PageDimensions{Width: 1000, Height: 2000},
		TextBlocks: []extraction.TextBlock{
			{Text: "Materials Log", BoundingBox: box(10, 100, 400, 30), Confidence: 90},
			{Text: "Equipment Log", BoundingBox: box(520, 100, 400, 30), Confidence: 90},
		},
	}
	if got := New().Analyze(data).PageStructure.ColumnCount; got != 2 {
		t.Errorf("expected 2 columns, got %d", got)
	}
}

func TestNewWithOverrides(t *testing.T) {
	t.Run("extra section pattern is honored", func(t *testing.T) {
		a, err := NewWithOverrides(Overrides{
			SectionPatterns: map[string][]string{
				"filling_log": {`(?i)abfüllprotokoll`},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data := &extraction.ExtractedData{
			TextBlocks: []extraction.TextBlock{
				{Text: "Abfüllprotokoll", BoundingBox: box(0, 10, 500, 30), Confidence: 90},
			},
		}
		if got := a.Analyze(data).Sections[0].SectionType; got != SectionFillingLog {
			t.Errorf("expected filling_log, got %s", got)
		}
	})

	t.Run("invalid pattern is rejected", func(t *testing.T) {
		_, err := NewWithOverrides(Overrides{
			SectionPatterns: map[string][]string{"header": {`([`}},
		})
		if err == nil {
			t.Fatal("expected error for invalid regex")
		}
	})

	t.Run("field pattern without capture group is rejected", func(t *testing.T) {
		_, err := NewWithOverrides(Overrides{
			FieldPatterns: map[string]string{"ph_value": `(?i)ph\s*\d+`},
		})
		if err == nil {
			t.Fatal("expected error for pattern without capture group")
		}
	})
}
