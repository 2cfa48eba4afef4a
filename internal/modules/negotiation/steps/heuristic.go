package steps

import (
	"fmt"
	"regexp"
	"strings"

	types "github.com/redlinehq/redline-backend/internal/domain"
)

var (
	currencyPattern = regexp.MustCompile(`(?i)[$€£]\s*\d|\b(usd|eur|gbp)\b\s*\d`)
	percentPattern  = regexp.MustCompile(`\d+(\.\d+)?\s*%`)
)

var highRiskTerms = []string{"liability", "indemnity", "termination", "penalty"}

var prohibitivePhrases = []string{"shall not", "must not", "prohibited"}

var obligatoryPhrases = []string{"shall", "must", "required to"}

// HeuristicAnalysis classifies a change without any model involvement.
// It is the backstop for every failure path in the pipeline, so it must
// accept any input, including nil, and always return a full result.
func HeuristicAnalysis(change *types.DocumentChange) *types.AnalysisResult {
	category := types.CategorySubstantive
	if change != nil {
		switch change.Category {
		case types.CategoryEditorial, types.CategoryStructural, types.CategorySubstantive:
			category = change.Category
		}
	}

	risk, reason := heuristicRisk(category, change.Text())

	recommendation := types.RecommendationAccept
	if risk == types.RiskHigh || risk == types.RiskCritical {
		recommendation = types.RecommendationReview
	}

	return &types.AnalysisResult{
		Category:       category,
		RiskLevel:      risk,
		Summary:        heuristicSummary(change, category),
		Impact:         fmt.Sprintf("Rule-based classification: %s risk. Not reviewed by a model.", risk),
		Recommendation: recommendation,
		Reasoning:      reason,
	}
}

func heuristicRisk(category, text string) (string, string) {
	switch category {
	case types.CategoryEditorial:
		return types.RiskLow, "Editorial changes do not alter contractual meaning."
	case types.CategoryStructural:
		return types.RiskMedium, "Structural changes can shift cross-references and section scope."
	}

	lower := strings.ToLower(text)
	if currencyPattern.MatchString(text) {
		return types.RiskHigh, "Substantive change touches a monetary amount."
	}
	for _, term := range highRiskTerms {
		if strings.Contains(lower, term) {
			return types.RiskHigh, fmt.Sprintf("Substantive change touches a high-risk term (%q).", term)
		}
	}
	for _, phrase := range prohibitivePhrases {
		if strings.Contains(lower, phrase) {
			return types.RiskHigh, fmt.Sprintf("Substantive change uses prohibitive language (%q).", phrase)
		}
	}
	if percentPattern.MatchString(text) {
		return types.RiskMedium, "Substantive change touches a percentage figure."
	}
	for _, phrase := range obligatoryPhrases {
		if containsWordPhrase(lower, phrase) {
			return types.RiskMedium, fmt.Sprintf("Substantive change uses obligatory language (%q).", phrase)
		}
	}
	return types.RiskMedium, "Substantive change with no recognized risk marker."
}

// containsWordPhrase matches a phrase on word boundaries so "shall" does
// not fire on "marshall".
func containsWordPhrase(lower, phrase string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], phrase)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(phrase)
		beforeOK := start == 0 || !isWordByte(lower[start-1])
		afterOK := end == len(lower) || !isWordByte(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}

func heuristicSummary(change *types.DocumentChange, category string) string {
	if change == nil {
		return fmt.Sprintf("Unspecified %s change.", category)
	}
	kind := change.ChangeKind
	if kind == "" {
		kind = "edit"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s change", category, kind)
	if change.SectionHeading != nil && *change.SectionHeading != "" {
		fmt.Fprintf(&b, " in %q", *change.SectionHeading)
	}
	if preview := truncateText(change.Text(), 80); preview != "" {
		fmt.Fprintf(&b, ": %s", preview)
	} else {
		b.WriteString(".")
	}
	return b.String()
}
