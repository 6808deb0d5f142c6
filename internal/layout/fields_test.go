package layout

import (
	"testing"

	"github.com/batchlens/batchlens/internal/extraction"
)

func TestNormalizeFieldName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Batch Number", "batch_number"},
		{"  Lot # / ID  ", "lot_id"},
		{"Temperature (°C)", "temperature_c"},
		{"___", ""},
		{"already_normal", "already_normal"},
	}
	for _, c := range cases {
		if got := normalizeFieldName(c.in); got != c.want {
			t.Errorf("normalizeFieldName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// sectionWith returns a section spanning y 0-1000 with the given elements
// already assigned.
func sectionWith(fn func(s *RecognizedSection)) *RecognizedSection {
	s := &RecognizedSection{
		SectionType: SectionMaterialsLog,
		BoundingBox: extraction.BoundingBox{X: 0, Y: 0, Width: 1000, Height: 1000},
		Confidence:  90,
		Fields:      make(map[string]FieldValue),
	}
	fn(s)
	return s
}

func TestExtractTableFields(t *testing.T) {
	t.Run("two column table yields fields", func(t *testing.T) {
		s := sectionWith(func(s *RecognizedSection) {
			s.Tables = []extraction.TableData{{
				RowCount: 2, ColumnCount: 2,
				Cells: []extraction.TableCell{
					{RowIndex: 0, ColIndex: 0, Text: "Batch Number", Confidence: 95},
					{RowIndex: 0, ColIndex: 1, Text: "B-123", Confidence: 88, BoundingBox: box(500, 10, 200, 20)},
					{RowIndex: 1, ColIndex: 0, Text: "Operator", Confidence: 90},
					{RowIndex: 1, ColIndex: 1, Text: "J. Doe", Confidence: 92},
				},
			}}
		})
		New().extractFields(s)

		fv, ok := s.Fields["batch_number"]
		if !ok {
			t.Fatal("expected batch_number field")
		}
		if fv.Value != "B-123" {
			t.Errorf("expected B-123, got %v", fv.Value)
		}
		if fv.Source != SourceTable {
			t.Errorf("expected table source, got %s", fv.Source)
		}
		// Confidence is the minimum of the label and value cells.
		if fv.Confidence != 88 {
			t.Errorf("expected confidence 88, got %v", fv.Confidence)
		}
		if fv.BoundingBox == nil || fv.BoundingBox.X != 500 {
			t.Error("expected value cell bounding box")
		}
		if _, ok := s.Fields["operator"]; !ok {
			t.Error("expected operator field")
		}
	})

	t.Run("non two column tables are skipped", func(t *testing.T) {
		s := sectionWith(func(s *RecognizedSection) {
			s.Tables = []extraction.TableData{{
				RowCount: 1, ColumnCount: 3,
				Cells: []extraction.TableCell{
					{RowIndex: 0, ColIndex: 0, Text: "Batch Number", Confidence: 95},
					{RowIndex: 0, ColIndex: 1, Text: "B-123", Confidence: 88},
					{RowIndex: 0, ColIndex: 2, Text: "extra", Confidence: 88},
				},
			}}
		})
		New().extractFields(s)
		if len(s.Fields) != 0 {
			t.Errorf("expected no fields from 3-column table, got %v", s.Fields)
		}
	})

	t.Run("rows with missing or empty cells are skipped", func(t *testing.T) {
		s := sectionWith(func(s *RecognizedSection) {
			s.Tables = []extraction.TableData{{
				RowCount: 3, ColumnCount: 2,
				Cells: []extraction.TableCell{
					{RowIndex: 0, ColIndex: 0, Text: "Lot Number", Confidence: 95},
					{RowIndex: 1, ColIndex: 0, Text: "Date", Confidence: 95},
					{RowIndex: 1, ColIndex: 1, Text: "   ", Confidence: 95},
				},
			}}
		})
		New().extractFields(s)
		if len(s.Fields) != 0 {
			t.Errorf("expected no fields, got %v", s.Fields)
		}
	})
}

func TestExtractCheckboxFields(t *testing.T) {
	s := sectionWith(func(s *RecognizedSection) {
		s.Checkboxes = []extraction.CheckboxData{
			{State: extraction.CheckboxChecked, AssociatedText: "Line Cleared", Confidence: 85},
			{State: extraction.CheckboxUnchecked, Confidence: 70},
		}
	})
	New().extractFields(s)

	fv, ok := s.Fields["line_cleared"]
	if !ok {
		t.Fatal("expected line_cleared field")
	}
	if fv.Value != true {
		t.Errorf("expected true, got %v", fv.Value)
	}
	if fv.Source != SourceCheckbox {
		t.Errorf("expected checkbox source, got %s", fv.Source)
	}

	// Checkbox without associated text falls back to the "checkbox" key.
	anon, ok := s.Fields["checkbox"]
	if !ok {
		t.Fatal("expected checkbox fallback key")
	}
	if anon.Value != false {
		t.Errorf("expected false, got %v", anon.Value)
	}
}

func TestExtractTextPatternFields(t *testing.T) {
	s := sectionWith(func(s *RecognizedSection) {
		s.TextBlocks = []extraction.TextBlock{
			{Text: "Batch No: B-9981 produced on line 4", Confidence: 91},
			{Text: "Temperature: 21.5 C", Confidence: 87},
			{Text: "Date: 2026-03-14", Confidence: 93},
		}
	})
	New().extractFields(s)

	if fv := s.Fields["batch_number"]; fv.Value != "B-9981" || fv.Source != SourceText {
		t.Errorf("unexpected batch_number: %+v", fv)
	}
	if fv := s.Fields["temperature"]; fv.Value != "21.5" {
		t.Errorf("unexpected temperature: %+v", fv)
	}
	if fv := s.Fields["date"]; fv.Value != "2026-03-14" {
		t.Errorf("unexpected date: %+v", fv)
	}
}

func TestFieldPriority_TableBeatsText(t *testing.T) {
	s := sectionWith(func(s *RecognizedSection) {
		s.Tables = []extraction.TableData{{
			RowCount: 1, ColumnCount: 2,
			Cells: []extraction.TableCell{
				{RowIndex: 0, ColIndex: 0, Text: "Batch Number", Confidence: 95},
				{RowIndex: 0, ColIndex: 1, Text: "B-TABLE", Confidence: 95},
			},
		}}
		s.TextBlocks = []extraction.TextBlock{
			{Text: "Batch No: B-TEXT", Confidence: 99},
		}
	})
	New().extractFields(s)

	fv := s.Fields["batch_number"]
	if fv.Value != "B-TABLE" {
		t.Errorf("table source should win, got %v from %s", fv.Value, fv.Source)
	}
	if fv.Source != SourceTable {
		t.Errorf("expected table source, got %s", fv.Source)
	}
}

func TestFieldPriority_CheckboxBeatsText(t *testing.T) {
	s := sectionWith(func(s *RecognizedSection) {
		s.Checkboxes = []extraction.CheckboxData{
			{State: extraction.CheckboxChecked, AssociatedText: "Operator", Confidence: 85},
		}
		s.TextBlocks = []extraction.TextBlock{
			{Text: "Operator: A. Smith", Confidence: 95},
		}
	})
	New().extractFields(s)

	fv := s.Fields["operator"]
	if fv.Source != SourceCheckbox {
		t.Errorf("checkbox source should win, got %s", fv.Source)
	}
}

func TestFormFieldExtractionIsNoOp(t *testing.T) {
	s := sectionWith(func(s *RecognizedSection) {})
	extractFormFieldValues(s)
	if len(s.Fields) != 0 {
		t.Errorf("form field extraction must contribute no fields, got %v", s.Fields)
	}
}
