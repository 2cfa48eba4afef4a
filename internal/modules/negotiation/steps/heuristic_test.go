package steps

import (
	"strings"
	"testing"

	types "github.com/redlinehq/redline-backend/internal/domain"
)

func TestHeuristicRiskRules(t *testing.T) {
	cases := []struct {
		name     string
		category string
		text     string
		risk     string
		rec      string
	}{
		{"editorial is low", types.CategoryEditorial, "fixed a typo", types.RiskLow, types.RecommendationAccept},
		{"structural is medium", types.CategoryStructural, "moved section 4 under section 2", types.RiskMedium, types.RecommendationAccept},
		{"currency is high", types.CategorySubstantive, "increase the fee to $50,000 per month", types.RiskHigh, types.RecommendationReview},
		{"liability term is high", types.CategorySubstantive, "expands the Liability cap", types.RiskHigh, types.RecommendationReview},
		{"indemnity term is high", types.CategorySubstantive, "adds an indemnity obligation", types.RiskHigh, types.RecommendationReview},
		{"prohibitive phrasing is high", types.CategorySubstantive, "Vendor shall not assign this agreement", types.RiskHigh, types.RecommendationReview},
		{"prohibited word is high", types.CategorySubstantive, "subcontracting is prohibited", types.RiskHigh, types.RecommendationReview},
		{"percentage is medium", types.CategorySubstantive, "a 15% uplift applies annually", types.RiskMedium, types.RecommendationAccept},
		{"obligatory phrasing is medium", types.CategorySubstantive, "Customer shall provide access", types.RiskMedium, types.RecommendationAccept},
		{"required to is medium", types.CategorySubstantive, "Vendor is required to notify Customer", types.RiskMedium, types.RecommendationAccept},
		{"plain substantive defaults medium", types.CategorySubstantive, "minor wording adjustment here", types.RiskMedium, types.RecommendationAccept},
		{"unknown category treated substantive", "mystery", "plain text", types.RiskMedium, types.RecommendationAccept},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			change := substantiveChange(tc.text)
			change.Category = tc.category
			res := HeuristicAnalysis(change)
			if res.RiskLevel != tc.risk {
				t.Fatalf("risk = %q, want %q", res.RiskLevel, tc.risk)
			}
			if res.Recommendation != tc.rec {
				t.Fatalf("recommendation = %q, want %q", res.Recommendation, tc.rec)
			}
			if res.Summary == "" || res.Impact == "" || res.Reasoning == "" {
				t.Fatalf("incomplete result: %+v", res)
			}
		})
	}
}

func TestHeuristicModalWordBoundary(t *testing.T) {
	res := HeuristicAnalysis(substantiveChange("Marshall Industries delivers the goods"))
	if res.RiskLevel != types.RiskMedium {
		t.Fatalf("risk = %q, want %q", res.RiskLevel, types.RiskMedium)
	}
	if strings.Contains(res.Reasoning, "obligatory") {
		t.Fatalf("matched shall inside another word: %s", res.Reasoning)
	}
}

func TestHeuristicIsTotal(t *testing.T) {
	if res := HeuristicAnalysis(nil); res == nil || res.RiskLevel == "" || res.Summary == "" {
		t.Fatalf("nil change should still yield a full result, got %+v", res)
	}

	empty := &types.DocumentChange{Category: types.CategorySubstantive}
	if res := HeuristicAnalysis(empty); res == nil || res.RiskLevel != types.RiskMedium {
		t.Fatalf("empty text should default to medium, got %+v", res)
	}
}

func TestHeuristicSummaryPreview(t *testing.T) {
	long := strings.Repeat("liability ", 30)
	change := substantiveChange(long)
	change.SectionHeading = ptr("Limitation of Liability")
	res := HeuristicAnalysis(change)
	if !strings.Contains(res.Summary, "Limitation of Liability") {
		t.Fatalf("summary missing section heading: %s", res.Summary)
	}
	if !strings.Contains(res.Summary, "…") {
		t.Fatalf("long preview should be truncated: %s", res.Summary)
	}
}
