package layout

import (
	"regexp"
	"strings"

	"github.com/batchlens/batchlens/internal/extraction"
)

var nonAlnumRuns = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeFieldName turns arbitrary label text into a stable field key:
// lower-case, non-alphanumeric runs collapsed to single underscores, leading
// and trailing underscores trimmed.
func normalizeFieldName(name string) string {
	key := nonAlnumRuns.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(key, "_")
}

// extractFields populates the section's field map in strict priority order:
// two-column tables, then checkboxes, then form fields, then free-text
// patterns. A key, once set, is never overwritten by a later source.
func (a *Analyzer) extractFields(section *RecognizedSection) {
	extractTableFields(section)
	extractCheckboxFields(section)
	extractFormFieldValues(section)
	a.extractTextPatternFields(section)
}

// setField writes a field only if the key is non-empty and not already set.
func setField(section *RecognizedSection, key string, fv FieldValue) {
	if key == "" {
		return
	}
	if _, exists := section.Fields[key]; exists {
		return
	}
	section.Fields[key] = fv
}

// extractTableFields reads key/value pairs out of two-column tables. Only
// tables with exactly two columns are scanned; each row where both cells are
// present and non-empty contributes one field.
func extractTableFields(section *RecognizedSection) {
	for _, table := range section.Tables {
		if table.ColumnCount != 2 {
			continue
		}

		rows := make(map[int]map[int]extraction.TableCell)
		maxRow := -1
		for _, cell := range table.Cells {
			if rows[cell.RowIndex] == nil {
				rows[cell.RowIndex] = make(map[int]extraction.TableCell)
			}
			rows[cell.RowIndex][cell.ColIndex] = cell
			if cell.RowIndex > maxRow {
				maxRow = cell.RowIndex
			}
		}

		for r := 0; r <= maxRow; r++ {
			label, okLabel := rows[r][0]
			value, okValue := rows[r][1]
			if !okLabel || !okValue {
				continue
			}
			if strings.TrimSpace(label.Text) == "" || strings.TrimSpace(value.Text) == "" {
				continue
			}

			setField(section, normalizeFieldName(label.Text), FieldValue{
				Value:       value.Text,
				Source:      SourceTable,
				Confidence:  minConfidence(label.Confidence, value.Confidence),
				BoundingBox: value.BoundingBox,
				RawText:     label.Text,
			})
		}
	}
}

// extractCheckboxFields records each checkbox as a boolean field keyed by its
// associated label text.
func extractCheckboxFields(section *RecognizedSection) {
	for _, cb := range section.Checkboxes {
		label := cb.AssociatedText
		if label == "" {
			label = "checkbox"
		}
		setField(section, normalizeFieldName(label), FieldValue{
			Value:       cb.State == extraction.CheckboxChecked,
			Source:      SourceCheckbox,
			Confidence:  cb.Confidence,
			BoundingBox: cb.BoundingBox,
			RawText:     cb.AssociatedText,
		})
	}
}

// extractFormFieldValues is a reserved extension point in the field priority
// chain. It currently contributes no fields; see DESIGN.md before wiring
// form-field values in, as that changes precedence for existing customers.
func extractFormFieldValues(section *RecognizedSection) {
	_ = section
}

// extractTextPatternFields runs the named free-text patterns over every text
// block assigned to the section, lowest priority in the chain.
func (a *Analyzer) extractTextPatternFields(section *RecognizedSection) {
	for _, fp := range a.fields {
		if _, exists := section.Fields[fp.Key]; exists {
			continue
		}
		for _, tb := range section.TextBlocks {
			m := fp.Pattern.FindStringSubmatch(tb.Text)
			if m == nil || len(m) < 2 {
				continue
			}
			setField(section, fp.Key, FieldValue{
				Value:       strings.TrimSpace(m[1]),
				Source:      SourceText,
				Confidence:  tb.Confidence,
				BoundingBox: tb.BoundingBox,
				RawText:     m[0],
			})
			break
		}
	}
}

func minConfidence(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
