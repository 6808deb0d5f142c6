package classify

import (
	"context"
	"fmt"
	"strings"
)

const (
	ruleConfidence       = 70.0
	ruleConfidenceCIPSIP = 75.0
	unknownConfidence    = 30.0

	unknownReasoning = "no clear matching keywords found"
)

// keywordGroup maps one page type to its detection keywords. Groups are
// evaluated in order; the first group with a matching keyword wins.
type keywordGroup struct {
	Type       PageType
	Keywords   []string
	Confidence float64
}

// defaultKeywordGroups is the built-in ordered keyword table. Treated as
// immutable; per-customer additions are merged by NewRuleClassifier.
var defaultKeywordGroups = []keywordGroup{
	{PageMaterialsLog, []string{"raw material", "material lot", "dispensing", "weighing record", "material no"}, ruleConfidence},
	{PageEquipmentLog, []string{"equipment log", "equipment usage", "instrument id", "calibration due"}, ruleConfidence},
	{PageCIPSIPRecord, []string{"clean-in-place", "clean in place", "sterilize-in-place", "sterilise-in-place", "cip cycle", "sip cycle", "cip/sip", "cleaning record"}, ruleConfidenceCIPSIP},
	{PageFiltrationStep, []string{"filtration", "filter integrity"}, ruleConfidence},
	{PageFillingLog, []string{"filling log", "fill weight", "vial filling", "filling record"}, ruleConfidence},
	{PageInspectionSheet, []string{"inspection", "visual check", "defect count"}, ruleConfidence},
	{PageReconciliationPage, []string{"reconciliation", "yield calculation", "accountability"}, ruleConfidence},
}

// RuleClassifier is the deterministic classification strategy: ordered
// case-insensitive keyword groups with fixed confidences. It cannot fail and
// performs no I/O.
type RuleClassifier struct {
	groups []keywordGroup
}

// NewRuleClassifier builds a rule classifier, merging optional per-customer
// keyword additions over the built-in table. Extra keywords are appended to
// their group so built-in evaluation order is preserved; unknown group names
// are ignored.
func NewRuleClassifier(extraKeywords map[string][]string) *RuleClassifier {
	groups := make([]keywordGroup, len(defaultKeywordGroups))
	copy(groups, defaultKeywordGroups)

	for i, g := range groups {
		extra, ok := extraKeywords[string(g.Type)]
		if !ok {
			continue
		}
		keywords := make([]string, len(g.Keywords), len(g.Keywords)+len(extra))
		copy(keywords, g.Keywords)
		for _, kw := range extra {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		groups[i].Keywords = keywords
	}
	return &RuleClassifier{groups: groups}
}

// ClassifyPage tests the page text against the keyword table. Exhaustive
// default is unknown at low confidence.
func (c *RuleClassifier) ClassifyPage(_ context.Context, text string, _ int) Result {
	lower := strings.ToLower(text)

	for _, group := range c.groups {
		for _, kw := range group.Keywords {
			if strings.Contains(lower, kw) {
				return Result{
					Classification: group.Type,
					Confidence:     group.Confidence,
					Reasoning:      fmt.Sprintf("matched keyword %q", kw),
				}
			}
		}
	}

	return Result{
		Classification: PageUnknown,
		Confidence:     unknownConfidence,
		Reasoning:      unknownReasoning,
	}
}
