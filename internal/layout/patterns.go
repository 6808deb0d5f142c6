package layout

import (
	"fmt"
	"regexp"
	"sort"
)

// Default page geometry in page-pixel units (US Letter at 300 DPI), used when
// the extraction service omits page dimensions.
const (
	defaultPageWidth  = 2550.0
	defaultPageHeight = 3300.0
)

// defaultSectionConfidence is assigned to a detected section header when the
// source element carries no confidence.
const defaultSectionConfidence = 80.0

// unknownSectionConfidence is assigned to the full-page fallback section.
const unknownSectionConfidence = 50.0

// sectionPatternGroup maps one section type to its header-detection patterns.
// Groups are evaluated in order; the first matching group wins for an element.
type sectionPatternGroup struct {
	Type     SectionType
	Patterns []*regexp.Regexp
}

// defaultSectionPatterns is the built-in ordered section-detection table.
// Treated as immutable; per-customer additions are merged in Overrides.
var defaultSectionPatterns = []sectionPatternGroup{
	{SectionMaterialsLog, compileAll(
		`(?i)materials?\s+(log|list|record)`,
		`(?i)raw\s+materials?`,
		`(?i)dispensing\s+(log|record)`,
	)},
	{SectionEquipmentLog, compileAll(
		`(?i)equipment\s+(log|record|list|usage)`,
		`(?i)instrument\s+(log|record)`,
	)},
	{SectionCIPSIPRecord, compileAll(
		`(?i)\bcip\b`,
		`(?i)\bsip\b`,
		`(?i)clean[- ]in[- ]place`,
		`(?i)steril[is]i?[sz]e[- ]in[- ]place`,
		`(?i)cleaning\s+record`,
	)},
	{SectionFiltrationStep, compileAll(
		`(?i)filtration`,
		`(?i)filter\s+(integrity|test|step)`,
	)},
	{SectionFillingLog, compileAll(
		`(?i)filling\s+(log|record)`,
		`(?i)fill\s+weight`,
		`(?i)vial\s+filling`,
	)},
	{SectionInspectionSheet, compileAll(
		`(?i)inspection\s+(sheet|record|log)`,
		`(?i)visual\s+inspection`,
	)},
	{SectionReconciliationPage, compileAll(
		`(?i)reconciliation`,
		`(?i)yield\s+(summary|calculation)`,
		`(?i)accountability`,
	)},
	{SectionAttachment, compileAll(
		`(?i)attachment`,
		`(?i)appendix`,
		`(?i)\bannex\b`,
	)},
	{SectionHeader, compileAll(
		`(?i)batch\s+(manufacturing|production)\s+record`,
		`(?i)^\s*page\s+\d+\s+of\s+\d+`,
		`(?i)document\s+(no|number)`,
	)},
	{SectionFooter, compileAll(
		`(?i)reviewed\s+by`,
		`(?i)approved\s+by`,
		`(?i)end\s+of\s+(page|section|record)`,
	)},
}

// fieldPattern names a free-text extraction rule. The first capturing group
// of a match becomes the field value.
type fieldPattern struct {
	Key     string
	Pattern *regexp.Regexp
}

// defaultFieldPatterns is the built-in free-text field table, lowest priority
// in the field extraction chain.
var defaultFieldPatterns = []fieldPattern{
	{"batch_number", regexp.MustCompile(`(?i)batch\s*(?:no|number|#)?[.:#]\s*([A-Za-z0-9][A-Za-z0-9\-/]*)`)},
	{"product_name", regexp.MustCompile(`(?i)product(?:\s+name)?[.:]\s*([A-Za-z0-9][A-Za-z0-9 \-]+)`)},
	{"lot_number", regexp.MustCompile(`(?i)lot\s*(?:no|number|#)?[.:#]\s*([A-Za-z0-9][A-Za-z0-9\-/]*)`)},
	{"date", regexp.MustCompile(`(?i)date[.:]?\s*(\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4})`)},
	{"temperature", regexp.MustCompile(`(?i)temp(?:erature)?[.:]?\s*(-?\d+(?:\.\d+)?)\s*°?\s*[CF]?`)},
	{"quantity", regexp.MustCompile(`(?i)(?:qty|quantity)[.:]?\s*(\d+(?:\.\d+)?)`)},
	{"operator", regexp.MustCompile(`(?i)operator[.:]?\s*([A-Za-z][A-Za-z .'\-]+)`)},
}

// Overrides carries per-customer pattern additions loaded from configuration.
// Added patterns are appended after the built-in ones within their group, so
// built-in detection order is preserved.
type Overrides struct {
	// SectionPatterns maps a section type to extra regex sources.
	SectionPatterns map[string][]string
	// FieldPatterns maps a field key to one extra regex source. The pattern
	// must contain at least one capturing group.
	FieldPatterns map[string]string
}

func compileAll(sources ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(sources))
	for _, s := range sources {
		out = append(out, regexp.MustCompile(s))
	}
	return out
}

// mergeSectionPatterns layers override patterns on top of the defaults.
func mergeSectionPatterns(overrides map[string][]string) ([]sectionPatternGroup, error) {
	groups := make([]sectionPatternGroup, len(defaultSectionPatterns))
	copy(groups, defaultSectionPatterns)

	if len(overrides) == 0 {
		return groups, nil
	}

	for i, g := range groups {
		extra, ok := overrides[string(g.Type)]
		if !ok {
			continue
		}
		patterns := make([]*regexp.Regexp, len(g.Patterns), len(g.Patterns)+len(extra))
		copy(patterns, g.Patterns)
		for _, src := range extra {
			re, err := regexp.Compile(src)
			if err != nil {
				return nil, fmt.Errorf("invalid section pattern for %s: %w", g.Type, err)
			}
			patterns = append(patterns, re)
		}
		groups[i].Patterns = patterns
	}
	return groups, nil
}

// mergeFieldPatterns layers override field patterns on top of the defaults.
// An override for an existing key is appended as an additional rule for a new
// key; built-in keys keep their built-in rule first.
func mergeFieldPatterns(overrides map[string]string) ([]fieldPattern, error) {
	fields := make([]fieldPattern, len(defaultFieldPatterns))
	copy(fields, defaultFieldPatterns)

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		src := overrides[key]
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("invalid field pattern for %s: %w", key, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("field pattern for %s has no capturing group", key)
		}
		fields = append(fields, fieldPattern{Key: key, Pattern: re})
	}
	return fields, nil
}
